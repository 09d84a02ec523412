package convert

import (
	"encoding/csv"
	"fmt"
	"strings"

	apperrors "github.com/skillsenselab/data2csv/internal/errors"
)

// ToCSV converts the request data to RFC 4180 CSV text. Headers, when
// provided, become the first record.
func ToCSV(req Request) (*Result, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if len(req.Headers) > 0 {
		if err := w.Write(req.Headers); err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	record := make([]string, len(req.Data[0]))
	for _, row := range req.Data {
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &Result{
		Content:     buf.String(),
		ContentType: ContentTypeCSV,
		Filename:    req.Filename + ".csv",
		Rows:        len(req.Data),
	}, nil
}

// cellString renders an arbitrary JSON cell value. JSON numbers arrive as
// float64, so integral values are printed without a decimal point.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}
