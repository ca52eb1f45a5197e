// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

const (
	PDFMerger     ID = "pdf-merger"
	PDFSplitter   ID = "pdf-splitter"
	CompressPDF   ID = "compress-pdf"
	PDFRotator    ID = "pdf-rotator"
	OrganizePDF   ID = "organize-pdf"
	PDFToWord     ID = "pdf-to-word"
	PDFToPPT      ID = "pdf-to-ppt"
	PDFToExcel    ID = "pdf-to-excel"
	PDFToJPG      ID = "pdf-to-jpg"
	PDFToPDFA     ID = "pdf-to-pdfa"
	WordToPDF     ID = "word-to-pdf"
	PPTToPDF      ID = "ppt-to-pdf"
	ExcelToPDF    ID = "excel-to-pdf"
	ImgToPDF      ID = "img-to-pdf"
	HTMLToPDF     ID = "html-to-pdf"
	LockPDF       ID = "lock-pdf"
	UnlockPDF     ID = "unlock-pdf"
	Watermark     ID = "watermark"
	RedactPDF     ID = "redact-pdf"
	PageNumbers   ID = "page-numbers"
	OCRPDF        ID = "ocr-pdf"
	ComparePDF    ID = "compare-pdf"
	CropPDF       ID = "crop-pdf"
	RepairPDF     ID = "repair-pdf"
	PDFText       ID = "pdf-text"
	PDFMeta       ID = "pdf-meta"
	Transcoder    ID = "transcoder"
	Resizer       ID = "resizer"
	MetadataWiper ID = "metadata-wiper"
	ExtractAudio  ID = "extract-audio"
	VideoToGIF    ID = "video-to-gif"
	CSVToExcel    ID = "csv-excel"
	ExcelToCSV    ID = "excel-csv"
	ZipCreator    ID = "zip-creator"
	DocxToPDF     ID = "docx-to-pdf"
	MDToPDF       ID = "md-to-pdf"
	EpubText      ID = "epub-text"
	CodePDF       ID = "code-pdf"
	FileHash      ID = "file-hash"
)

const (
	acceptPDF   = ".pdf"
	acceptImage = ".png,.jpg,.jpeg,.gif,.webp,.bmp,.tiff"
	acceptVideo = ".mp4,.mov,.mkv,.webm,.avi"
)

var groups = []Group{
	{Title: "PDF Core", Tools: []ID{PDFMerger, PDFSplitter, CompressPDF, PDFRotator, OrganizePDF}},
	{Title: "Convert from PDF", Tools: []ID{PDFToWord, PDFToPPT, PDFToExcel, PDFToJPG, PDFToPDFA}},
	{Title: "Convert to PDF", Tools: []ID{WordToPDF, PPTToPDF, ExcelToPDF, ImgToPDF, HTMLToPDF}},
	{Title: "Security", Tools: []ID{LockPDF, UnlockPDF, Watermark, RedactPDF}},
	{Title: "Advanced", Tools: []ID{PageNumbers, OCRPDF, ComparePDF, CropPDF, RepairPDF, PDFText, PDFMeta}},
	{Title: "Images", Tools: []ID{Transcoder, Resizer, MetadataWiper}},
	{Title: "Media", Tools: []ID{ExtractAudio, VideoToGIF}},
	{Title: "More Tools", Tools: []ID{CSVToExcel, ExcelToCSV, ZipCreator, DocxToPDF, MDToPDF}},
	{Title: "Utilities", Tools: []ID{EpubText, CodePDF, FileHash}},
}

// tools is ordered to match groups.
var tools = []Tool{
	{
		ID: PDFMerger, Label: "Merge PDF", Description: "Combine multiple PDF files into one",
		Endpoint: "/api/merge-pdfs", Shape: ShapeFiles, MinFiles: 2, Accept: acceptPDF,
		Filename: "merged.pdf", SuccessMessage: "PDFs merged successfully!", ErrorMessage: "Merge failed",
	},
	{
		ID: PDFSplitter, Label: "Split PDF", Description: "Extract specific pages from your document",
		Endpoint: "/api/split-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "start_page", Label: "Start Page", Kind: KindInt, Default: "1", Required: true},
			{Name: "end_page", Label: "End Page", Kind: KindInt, Default: "1", Required: true},
		},
		Filename: "split.pdf", SuccessMessage: "PDF split successfully!", ErrorMessage: "Split failed - check page numbers",
	},
	{
		ID: CompressPDF, Label: "Compress", Description: "Reduce PDF file size",
		Endpoint: "/api/compress-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "quality", Label: "Quality", Kind: KindEnum, Default: "medium", Options: []string{"low", "medium", "high"}},
		},
		Filename: "compressed.pdf", SuccessMessage: "PDF compressed!", ErrorMessage: "Compression failed",
	},
	{
		ID: PDFRotator, Label: "Rotate", Description: "Change the orientation of all pages",
		Endpoint: "/api/rotate-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "rotation", Label: "Rotation", Kind: KindEnum, Default: "90", Options: []string{"90", "180", "270"}},
		},
		Filename: "rotated.pdf", SuccessMessage: "PDF rotated!", ErrorMessage: "Rotation failed",
	},
	{
		ID: OrganizePDF, Label: "Organize", Description: "Reorder, delete, or duplicate pages (e.g. 1,3,2,4-7)",
		Endpoint: "/api/organize-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "page_order", Label: "Page Order", Kind: KindString, Required: true},
		},
		Filename: "organized.pdf", SuccessMessage: "PDF reorganized!", ErrorMessage: "Organization failed - check format",
	},
	{
		ID: PDFToWord, Label: "To Word", Description: "Convert PDF to an editable Word document",
		Endpoint: "/api/pdf-to-word", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "document.docx", SuccessMessage: "Converted to Word!", ErrorMessage: "Conversion failed",
	},
	{
		ID: PDFToPPT, Label: "To PPT", Description: "Turn PDF pages into PowerPoint slides",
		Endpoint: "/api/pdf-to-ppt", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "presentation.pptx", SuccessMessage: "Converted to PowerPoint!", ErrorMessage: "Conversion failed",
	},
	{
		ID: PDFToExcel, Label: "To Excel", Description: "Extract tables from PDF into a spreadsheet",
		Endpoint: "/api/pdf-to-excel", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "data.xlsx", SuccessMessage: "Extracted to Excel!", ErrorMessage: "Extraction failed",
	},
	{
		ID: PDFToJPG, Label: "To JPG", Description: "Export every page as a JPG image",
		Endpoint: "/api/pdf-to-jpg", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "images.zip", SuccessMessage: "Images extracted!", ErrorMessage: "Extraction failed",
	},
	{
		ID: PDFToPDFA, Label: "To PDF/A", Description: "Convert PDF to the PDF/A archival format",
		Endpoint: "/api/pdf-to-pdfa", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "archive_pdfa.pdf", SuccessMessage: "Converted to PDF/A!", ErrorMessage: "Conversion failed",
	},
	{
		ID: WordToPDF, Label: "Word", Description: "Convert Word documents to PDF",
		Endpoint: "/api/word-to-pdf", Shape: ShapeFile, Accept: ".docx",
		Filename: "document.pdf", SuccessMessage: "Converted to PDF!", ErrorMessage: "Conversion failed",
	},
	{
		ID: PPTToPDF, Label: "PPT", Description: "Convert PowerPoint presentations to PDF",
		Endpoint: "/api/ppt-to-pdf", Shape: ShapeFile, Accept: ".pptx",
		Filename: "slides.pdf", SuccessMessage: "Converted to PDF!", ErrorMessage: "Conversion failed",
	},
	{
		ID: ExcelToPDF, Label: "Excel", Description: "Convert spreadsheets to PDF",
		Endpoint: "/api/excel-to-pdf", Shape: ShapeFile, Accept: ".xlsx",
		Filename: "spreadsheet.pdf", SuccessMessage: "Converted to PDF!", ErrorMessage: "Conversion failed",
	},
	{
		ID: ImgToPDF, Label: "Image", Description: "Convert multiple images into a single PDF document",
		Endpoint: "/api/img-to-pdf", Shape: ShapeFiles, MinFiles: 1, Accept: acceptImage,
		Filename: "images.pdf", SuccessMessage: "PDF created successfully!", ErrorMessage: "Failed to create PDF",
	},
	{
		ID: HTMLToPDF, Label: "HTML", Description: "Capture a web page as PDF",
		Endpoint: "/api/html-to-pdf", Shape: ShapeJSONURL,
		Fields: []Field{
			{Name: "url", Label: "URL", Kind: KindURL, Required: true},
		},
		Filename: "webpage.pdf", SuccessMessage: "Web page captured!", ErrorMessage: "Capture failed",
	},
	{
		ID: LockPDF, Label: "Lock", Description: "Protect a PDF with a password",
		Endpoint: "/api/lock-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "password", Label: "Password", Kind: KindSecret, Required: true},
		},
		Filename: "protected.pdf", SuccessMessage: "PDF locked!", ErrorMessage: "Lock failed",
	},
	{
		ID: UnlockPDF, Label: "Unlock", Description: "Remove password protection from a PDF",
		Endpoint: "/api/unlock-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "password", Label: "Password", Kind: KindSecret, Required: true},
		},
		Filename: "unlocked.pdf", SuccessMessage: "PDF unlocked!", ErrorMessage: "Unlock failed - wrong password?",
	},
	{
		ID: Watermark, Label: "Watermark", Description: "Stamp diagonal text across every page",
		Endpoint: "/api/watermark-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "text", Label: "Watermark Text", Kind: KindString, Default: "CONFIDENTIAL", Required: true},
		},
		Filename: "watermarked.pdf", SuccessMessage: "Watermark applied!", ErrorMessage: "Watermark failed",
	},
	{
		ID: RedactPDF, Label: "Redact", Description: "Black out sensitive text",
		Endpoint: "/api/redact-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "text_to_redact", Label: "Text to Redact", Kind: KindString, Required: true},
		},
		Filename: "redacted.pdf", SuccessMessage: "Text redacted!", ErrorMessage: "Redaction failed",
	},
	{
		ID: PageNumbers, Label: "Page #", Description: "Add page numbers to every page",
		Endpoint: "/api/add-page-numbers", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "position", Label: "Position", Kind: KindEnum, Default: "bottom-center", Options: []string{
				"top-left", "top-center", "top-right", "bottom-left", "bottom-center", "bottom-right",
			}},
		},
		Filename: "numbered.pdf", SuccessMessage: "Page numbers added!", ErrorMessage: "Failed to add numbers",
	},
	{
		ID: OCRPDF, Label: "OCR", Description: "Recognise text in scanned pages",
		Endpoint: "/api/ocr-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "searchable.pdf", SuccessMessage: "OCR completed!", ErrorMessage: "OCR failed",
	},
	{
		ID: ComparePDF, Label: "Compare", Description: "Report which pages differ between two PDFs",
		Endpoint: "/api/compare-pdf", Shape: ShapeFilePair, Accept: acceptPDF,
		Filename: "comparison.pdf", SuccessMessage: "Comparison complete!", ErrorMessage: "Comparison failed",
	},
	{
		ID: CropPDF, Label: "Crop", Description: "Trim a uniform margin from every page",
		Endpoint: "/api/crop-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "margin", Label: "Margin (points)", Kind: KindInt, Default: "50"},
		},
		Filename: "cropped.pdf", SuccessMessage: "PDF cropped!", ErrorMessage: "Crop failed",
	},
	{
		ID: RepairPDF, Label: "Repair", Description: "Rewrite a damaged PDF",
		Endpoint: "/api/repair-pdf", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "repaired.pdf", SuccessMessage: "PDF repaired!", ErrorMessage: "Repair failed - file may be too damaged",
	},
	{
		ID: PDFText, Label: "Extract Text", Description: "Pull the text layer out of a PDF",
		Endpoint: "/api/extract-text", Shape: ShapeFile, Accept: acceptPDF,
		Filename: "content.txt", SuccessMessage: "Text extracted!", ErrorMessage: "Extraction failed",
	},
	{
		ID: PDFMeta, Label: "Metadata", Description: "Set document title and author",
		Endpoint: "/api/edit-pdf-metadata", Shape: ShapeFile, Accept: acceptPDF,
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindString},
			{Name: "author", Label: "Author", Kind: KindString},
		},
		Filename: "tagged.pdf", SuccessMessage: "Metadata updated!", ErrorMessage: "Update failed",
	},
	{
		ID: Transcoder, Label: "Convert", Description: "Convert images between formats",
		Endpoint: "/api/convert-format", Shape: ShapeFile, Accept: acceptImage,
		Fields: []Field{
			{Name: "target_format", Label: "Target Format", Kind: KindEnum, Default: "PNG", Options: []string{"PNG", "JPEG", "WEBP", "GIF", "ICO"}},
		},
		Filename: "converted.{target_format}", SuccessMessage: "Image converted!", ErrorMessage: "Conversion failed",
	},
	{
		ID: Resizer, Label: "Resize", Description: "Scale an image to exact dimensions",
		Endpoint: "/api/resize-image", Shape: ShapeFile, Accept: acceptImage,
		Fields: []Field{
			{Name: "width", Label: "Width", Kind: KindInt, Default: "800", Required: true},
			{Name: "height", Label: "Height", Kind: KindInt, Default: "600", Required: true},
		},
		Filename: "resized.png", SuccessMessage: "Image resized!", ErrorMessage: "Resize failed",
	},
	{
		ID: MetadataWiper, Label: "Clean EXIF", Description: "Strip EXIF and other metadata from an image",
		Endpoint: "/api/clean-metadata", Shape: ShapeFile, Accept: acceptImage,
		Filename: "clean.png", SuccessMessage: "Metadata removed!", ErrorMessage: "Cleaning failed",
	},
	{
		ID: ExtractAudio, Label: "Video → Audio", Description: "Extract the audio track as MP3",
		Endpoint: "/api/extract-audio", Shape: ShapeFile, Accept: acceptVideo,
		Filename: "audio.mp3", SuccessMessage: "Audio extracted!", ErrorMessage: "Extraction failed",
	},
	{
		ID: VideoToGIF, Label: "Video → GIF", Description: "Turn a video clip into an animated GIF",
		Endpoint: "/api/video-to-gif", Shape: ShapeFile, Accept: acceptVideo,
		Fields: []Field{
			{Name: "start_time", Label: "Start (s)", Kind: KindInt, Default: "0"},
			{Name: "end_time", Label: "End (s)", Kind: KindInt, Default: "5"},
		},
		Filename: "animation.gif", SuccessMessage: "GIF created!", ErrorMessage: "Creation failed",
	},
	{
		ID: CSVToExcel, Label: "CSV → Excel", Description: "Convert CSV to an Excel workbook",
		Endpoint: "/api/csv-to-excel", Shape: ShapeFile, Accept: ".csv",
		Filename: "data.xlsx", SuccessMessage: "Converted successfully!", ErrorMessage: "Conversion failed",
	},
	{
		ID: ExcelToCSV, Label: "Excel → CSV", Description: "Convert the first sheet of a workbook to CSV",
		Endpoint: "/api/excel-to-csv", Shape: ShapeFile, Accept: ".xlsx",
		Filename: "data.csv", SuccessMessage: "Converted successfully!", ErrorMessage: "Conversion failed",
	},
	{
		ID: ZipCreator, Label: "Zip", Description: "Bundle files into a ZIP archive",
		Endpoint: "/api/create-zip", Shape: ShapeFiles, MinFiles: 1,
		Filename: "archive.zip", SuccessMessage: "ZIP created!", ErrorMessage: "Creation failed",
	},
	{
		ID: DocxToPDF, Label: "DOCX→PDF", Description: "Render a DOCX document as PDF",
		Endpoint: "/api/docx-to-pdf", Shape: ShapeFile, Accept: ".docx",
		Filename: "document.pdf", SuccessMessage: "Converted to PDF!", ErrorMessage: "Conversion failed",
	},
	{
		ID: MDToPDF, Label: "MD→PDF", Description: "Render Markdown as PDF",
		Endpoint: "/api/md-to-pdf", Shape: ShapeFile, Accept: ".md,.markdown",
		Filename: "markdown.pdf", SuccessMessage: "Converted to PDF!", ErrorMessage: "Conversion failed",
	},
	{
		ID: EpubText, Label: "EPUB→Text", Description: "Extract the text of an e-book",
		Endpoint: "/api/epub-to-text", Shape: ShapeFile, Accept: ".epub",
		Filename: "book.txt", SuccessMessage: "Text extracted!", ErrorMessage: "Extraction failed",
	},
	{
		ID: CodePDF, Label: "Code→PDF", Description: "Syntax-highlight a source file into PDF",
		Endpoint: "/api/code-to-pdf", Shape: ShapeFile,
		Filename: "code.pdf", SuccessMessage: "Converted to PDF!", ErrorMessage: "Conversion failed",
	},
	{
		ID: FileHash, Label: "File Hash", Description: "Compute an integrity report (MD5, SHA-256, BLAKE2b)",
		Endpoint: "/api/file-hash", Shape: ShapeFile,
		Filename: "hash_report.txt", SuccessMessage: "Hash report ready!", ErrorMessage: "Hashing failed",
	},
}
