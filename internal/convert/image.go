// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/nexus-tools/internal/toolchain"
)

const maxImageSide = 10000

func decodeImage(in Input) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return nil, invalidf("%s is not a supported image: %v", in.Name, err)
	}
	return img, nil
}

// flatten copies img onto an opaque canvas, white where img is transparent.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// scale resizes img to w x h with Catmull-Rom resampling.
func scale(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeICO writes a single-image ICO file with a PNG payload, scaling the
// image down so neither side exceeds 256 pixels.
func encodeICO(img image.Image) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > 256 || h > 256 {
		if w >= h {
			w, h = 256, max(1, h*256/w)
		} else {
			w, h = max(1, w*256/h), 256
		}
		img = scale(img, w, h)
	}
	payload, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image.
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY: sizes of 256 are stored as 0.
	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{
		Width: uint8(w % 256), Height: uint8(h % 256),
		Planes: 1, BitCount: 32,
		Size: uint32(len(payload)), Offset: 6 + 16,
	}
	binary.Write(&buf, binary.LittleEndian, entry)
	buf.Write(payload)
	return buf.Bytes(), nil
}

func (s *Service) convertFormat(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	target := strings.ToUpper(req.String("target_format", ""))
	if target == "" {
		return nil, invalidf("target_format is required")
	}
	img, err := decodeImage(in)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType = "image/" + strings.ToLower(target)
	)
	switch target {
	case "PNG":
		data, err = encodePNG(img)
	case "JPEG", "JPG":
		target, contentType = "JPEG", "image/jpeg"
		var buf bytes.Buffer
		err = jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: 95})
		data = buf.Bytes()
	case "GIF":
		var buf bytes.Buffer
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256})
		data = buf.Bytes()
	case "ICO":
		contentType = "image/x-icon"
		data, err = encodeICO(img)
	case "WEBP":
		data, err = s.encodeWebP(ctx, img)
	default:
		return nil, invalidf("unsupported target format %q", target)
	}
	if err != nil {
		return nil, err
	}
	return &Output{
		Filename:    "converted." + strings.ToLower(target),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// encodeWebP pipes a PNG rendition of img through ffmpeg's libwebp encoder.
func (s *Service) encodeWebP(ctx context.Context, img image.Image) ([]byte, error) {
	ff, err := s.lookup(toolchain.FFmpeg)
	if err != nil {
		return nil, err
	}
	src, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	args := []string{"-hide_banner", "-loglevel", "error", "-f", "png_pipe", "-i", "pipe:0", "-c:v", "libwebp", "-f", "webp", "pipe:1"}
	if err := ff.Run(ctx, args, bytes.NewReader(src), &out); err != nil {
		return nil, fmt.Errorf("encoding WEBP: %w", err)
	}
	return out.Bytes(), nil
}

func resizeImage(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	w, err := req.Int("width", 800)
	if err != nil {
		return nil, err
	}
	h, err := req.Int("height", 600)
	if err != nil {
		return nil, err
	}
	if w < 1 || h < 1 || w > maxImageSide || h > maxImageSide {
		return nil, invalidf("width and height must be between 1 and %d", maxImageSide)
	}
	img, err := decodeImage(in)
	if err != nil {
		return nil, err
	}
	data, err := encodePNG(scale(img, w, h))
	if err != nil {
		return nil, err
	}
	return &Output{Filename: "resized.png", ContentType: "image/png", Data: data}, nil
}

// cleanMetadata re-encodes only the pixels, dropping EXIF and other
// ancillary chunks.
func cleanMetadata(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(in)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	clean := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(clean, clean.Bounds(), img, b.Min, draw.Src)
	data, err := encodePNG(clean)
	if err != nil {
		return nil, err
	}
	return &Output{Filename: "clean.png", ContentType: "image/png", Data: data}, nil
}
