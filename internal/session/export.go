package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ExportDocument is the JSON export envelope
type ExportDocument struct {
	ScanDate   time.Time `json:"scan_date"`
	TotalCodes int       `json:"total_codes"`
	Results    []Record  `json:"results"`
}

// Format identifies an export serialization
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FormatForFilename picks the export format from the file extension:
// .txt selects the plain-text layout, everything else gets JSON.
func FormatForFilename(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".txt") {
		return FormatText
	}
	return FormatJSON
}

// ExportJSON serializes records into the JSON export envelope
func ExportJSON(records []Record, now time.Time) ([]byte, error) {
	doc := ExportDocument{
		ScanDate:   now,
		TotalCodes: len(records),
		Results:    records,
	}
	if doc.Results == nil {
		doc.Results = []Record{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	return data, nil
}

// ExportText serializes records into the fixed plain-text layout: a
// header block followed by one block per record.
func ExportText(records []Record, now time.Time) []byte {
	var buf bytes.Buffer

	buf.WriteString("Code Scan Results\n")
	fmt.Fprintf(&buf, "Date: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&buf, "Total Codes Found: %d\n", len(records))
	buf.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, r := range records {
		fmt.Fprintf(&buf, "Code #%d\n", i+1)
		fmt.Fprintf(&buf, "Data: %s\n", r.Data)
		fmt.Fprintf(&buf, "Type: %s\n", r.Symbology)
		fmt.Fprintf(&buf, "Source: %s\n", r.Source)
		fmt.Fprintf(&buf, "Timestamp: %s\n", r.Timestamp.Format(time.RFC3339))
		buf.WriteString(strings.Repeat("-", 50) + "\n\n")
	}

	return buf.Bytes()
}
