// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nexus-tools/internal/toolchain"
)

func pngImage(t *testing.T, w, h int, c color.Color) Input {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return Input{Name: "pic.png", Data: buf.Bytes()}
}

func TestConvertFormat(t *testing.T) {
	in := pngImage(t, 40, 30, color.NRGBA{R: 200, A: 128})
	s := NewService(nil)

	tests := []struct {
		target      string
		filename    string
		contentType string
		format      string
	}{
		{"PNG", "converted.png", "image/png", "png"},
		{"jpeg", "converted.jpeg", "image/jpeg", "jpeg"},
		{"JPG", "converted.jpeg", "image/jpeg", "jpeg"},
		{"GIF", "converted.gif", "image/gif", "gif"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			out, err := s.convertFormat(context.Background(), &Request{Files: []Input{in}, Values: map[string]string{"target_format": tt.target}})
			require.NoError(t, err)
			assert.Equal(t, tt.filename, out.Filename)
			assert.Equal(t, tt.contentType, out.ContentType)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, 40, cfg.Width)
			assert.Equal(t, 30, cfg.Height)
		})
	}
}

func TestConvertFormatErrors(t *testing.T) {
	in := pngImage(t, 4, 4, color.White)
	s := NewService(nil)
	ctx := context.Background()

	_, err := s.convertFormat(ctx, &Request{Files: []Input{in}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.convertFormat(ctx, &Request{Files: []Input{in}, Values: map[string]string{"target_format": "TGA"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.convertFormat(ctx, &Request{Files: []Input{{Name: "x.png", Data: []byte("nope")}}, Values: map[string]string{"target_format": "PNG"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.convertFormat(ctx, &Request{Files: []Input{in}, Values: map[string]string{"target_format": "WEBP"}})
	assert.ErrorIs(t, err, toolchain.ErrUnavailable)
}

func TestConvertFormatWebPUsesFFmpeg(t *testing.T) {
	ff := &fakeRunner{name: "ffmpeg", fn: func(_ []string, stdin io.Reader, stdout io.Writer) error {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		if _, err := png.Decode(bytes.NewReader(src)); err != nil {
			return err
		}
		_, err = stdout.Write([]byte("RIFF....WEBP"))
		return err
	}}
	s := NewService(fakeTools{toolchain.FFmpeg: ff})

	out, err := s.convertFormat(context.Background(), &Request{
		Files:  []Input{pngImage(t, 8, 8, color.Black)},
		Values: map[string]string{"target_format": "webp"},
	})
	require.NoError(t, err)
	assert.Equal(t, "converted.webp", out.Filename)
	assert.Equal(t, "image/webp", out.ContentType)
	assert.Equal(t, []byte("RIFF....WEBP"), out.Data)
	require.Len(t, ff.calls, 1)
	assert.Contains(t, ff.calls[0], "libwebp")
}

func TestEncodeICO(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"small kept", 32, 16, 32, 16},
		{"wide scaled", 1024, 512, 256, 128},
		{"tall scaled", 100, 400, 64, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			data, err := encodeICO(img)
			require.NoError(t, err)

			var hdr [3]uint16
			require.NoError(t, binary.Read(bytes.NewReader(data[:6]), binary.LittleEndian, &hdr))
			assert.Equal(t, [3]uint16{0, 1, 1}, hdr)
			assert.Equal(t, uint8(tt.wantW%256), data[6])
			assert.Equal(t, uint8(tt.wantH%256), data[7])
			assert.Equal(t, uint32(len(data)-22), binary.LittleEndian.Uint32(data[14:18]))
			assert.Equal(t, uint32(22), binary.LittleEndian.Uint32(data[18:22]))

			cfg, err := png.DecodeConfig(bytes.NewReader(data[22:]))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestResizeImage(t *testing.T) {
	in := pngImage(t, 50, 50, color.White)
	ctx := context.Background()

	out, err := resizeImage(ctx, &Request{Files: []Input{in}, Values: map[string]string{"width": "20", "height": "10"}})
	require.NoError(t, err)
	assert.Equal(t, "resized.png", out.Filename)
	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 10, cfg.Height)

	out, err = resizeImage(ctx, &Request{Files: []Input{in}})
	require.NoError(t, err)
	cfg, err = png.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	for _, v := range []map[string]string{{"width": "0"}, {"height": "10001"}, {"width": "big"}} {
		_, err := resizeImage(ctx, &Request{Files: []Input{in}, Values: v})
		assert.ErrorIs(t, err, ErrInvalidInput, "%v", v)
	}
}

func TestCleanMetadata(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 6, 4))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))
	// An APP1 segment right after SOI stands in for EXIF data.
	exif := append([]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x0A}, []byte("Exif\x00\x00GPS!")[:8]...)
	data := append(exif, buf.Bytes()[2:]...)

	out, err := cleanMetadata(context.Background(), &Request{Files: []Input{{Name: "photo.jpg", Data: data}}})
	require.NoError(t, err)
	assert.Equal(t, "clean.png", out.Filename)
	assert.NotContains(t, string(out.Data), "Exif")
	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Width)
	assert.Equal(t, 4, cfg.Height)
}

func TestImagesToPDF(t *testing.T) {
	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, image.NewRGBA(image.Rect(0, 0, 20, 10)), nil))

	out, err := imagesToPDF(context.Background(), &Request{Files: []Input{
		pngImage(t, 10, 10, color.White),
		{Name: "b.jpg", Data: jpg.Bytes()},
	}})
	require.NoError(t, err)
	assert.Equal(t, "converted.pdf", out.Filename)
	requirePages(t, out, 2)

	_, err = imagesToPDF(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = imagesToPDF(context.Background(), &Request{Files: []Input{{Name: "x.png", Data: []byte("x")}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
