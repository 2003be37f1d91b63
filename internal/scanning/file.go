package scanning

import (
	"fmt"
	"log/slog"
	"os"
)

// ScanBytes decodes every symbol found in raw file bytes. The name is
// used only to pick the decode path for PDF and HEIC payloads.
func ScanBytes(dec Decoder, data []byte, name string) ([]Result, error) {
	img, err := decodeImage(data, name)
	if err != nil {
		return nil, err
	}

	results, err := dec.Decode(img)
	if err != nil {
		return nil, fmt.Errorf("decoding symbols: %w", err)
	}

	return results, nil
}

// ScanFile loads an image file and decodes every symbol in it.
// Missing or unreadable files are logged and yield zero results.
func ScanFile(dec Decoder, path string) []Result {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read image file", "path", path, "error", err)
		return nil
	}

	results, err := ScanBytes(dec, data, path)
	if err != nil {
		slog.Error("Failed to scan image", "path", path, "error", err)
		return nil
	}

	return results
}
