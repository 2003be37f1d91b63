package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
)

// pdfToImage renders the first page of a PDF as an image.
// Symbols on later pages are out of scope; tickets, labels and badges
// are single-page documents.
func pdfToImage(pdfData []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	return img, nil
}

// decodeImage decodes raw file bytes into an image, handling HEIC/HEIF
// (common on iPhones) and PDF in addition to the registered raster formats.
func decodeImage(data []byte, name string) (image.Image, error) {
	if isPDF(data, name) {
		return pdfToImage(data)
	}

	if isHEICFormat(data) || hasHEICExt(name) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
			return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, BMP, TIFF, HEIC, HEIF, PDF. Error: %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return img, nil
}

// isPDF checks the %PDF- magic bytes or the file extension
func isPDF(data []byte, name string) bool {
	if len(data) >= 5 && string(data[:5]) == "%PDF-" {
		return true
	}
	return strings.EqualFold(extOf(name), ".pdf")
}

// isHEICFormat checks if the image data is in HEIC/HEIF format.
// HEIC files carry an ftyp box at offset 4 with a HEIC-related brand.
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

func hasHEICExt(name string) bool {
	ext := strings.ToLower(extOf(name))
	return ext == ".heic" || ext == ".heif"
}

func extOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx == -1 {
		return ""
	}
	return name[idx:]
}
