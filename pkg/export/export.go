package export

import "fmt"

// Format names a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat maps a query value to a Format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}
