// Package convert turns 2D tabular data into CSV and Excel documents.
package convert

import (
	"fmt"

	apperrors "github.com/skillsenselab/data2csv/internal/errors"
	"github.com/skillsenselab/data2csv/internal/validation"
)

// Content types produced by the converters.
const (
	ContentTypeCSV   = "text/csv"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DefaultFilename is used when the request does not name the output file.
const DefaultFilename = "data"

// Request describes a conversion job: a 2D array of cell values, optional
// column headers, and a filename without extension.
type Request struct {
	Data     [][]any  `json:"data" validate:"required,min=1"`
	Headers  []string `json:"headers,omitempty"`
	Filename string   `json:"filename,omitempty"`
}

// Result holds the converted document. Content is CSV text or base64-encoded
// Excel bytes depending on ContentType.
type Result struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
	Rows        int    `json:"rows"`
}

// normalize fills in the default filename.
func (r *Request) normalize() {
	if r.Filename == "" {
		r.Filename = DefaultFilename
	}
}

// Validate checks the request shape: non-empty data, uniform row widths, and
// a header count matching the column count when headers are given.
func (r *Request) Validate() error {
	if len(r.Data) == 0 {
		return apperrors.MissingField("data")
	}
	if err := validation.Validate(r); err != nil {
		return err
	}

	width := len(r.Data[0])
	for i, row := range r.Data {
		if len(row) != width {
			return apperrors.InvalidInput("data",
				fmt.Sprintf("row %d has %d columns, expected %d", i, len(row), width))
		}
	}

	if len(r.Headers) > 0 && len(r.Headers) != width {
		return apperrors.InvalidInput("headers",
			fmt.Sprintf("headers count (%d) doesn't match columns count (%d)", len(r.Headers), width))
	}

	return nil
}
