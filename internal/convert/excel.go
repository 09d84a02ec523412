package convert

import (
	"encoding/base64"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/skillsenselab/data2csv/internal/errors"
)

const sheetName = "Data"

// maxColWidth caps auto-sized column widths in styled workbooks.
const maxColWidth = 50

// headerFillColor is the lavender fill applied to styled header rows.
const headerFillColor = "E6E6FA"

// ToExcel converts the request data to an xlsx workbook, returned as a
// base64-encoded string. When styled is true the header row is rendered bold
// on a lavender fill and column widths are sized to content.
func ToExcel(req Request, styled bool) (*Result, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, apperrors.Internal(err)
	}

	row := 1
	if len(req.Headers) > 0 {
		cells := make([]any, len(req.Headers))
		for i, h := range req.Headers {
			cells[i] = h
		}
		if err := setRow(f, row, cells); err != nil {
			return nil, err
		}
		row++
	}
	for _, dataRow := range req.Data {
		if err := setRow(f, row, dataRow); err != nil {
			return nil, err
		}
		row++
	}

	if styled {
		if err := applyStyling(f, req); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	filename := req.Filename
	if styled {
		filename += "_styled"
	}

	return &Result{
		Content:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		ContentType: ContentTypeExcel,
		Filename:    filename + ".xlsx",
		Rows:        len(req.Data),
	}, nil
}

func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// applyStyling sizes columns to their longest cell (capped at maxColWidth)
// and, when headers are present, formats the header row bold on a lavender
// fill.
func applyStyling(f *excelize.File, req Request) error {
	width := len(req.Data[0])

	for col := 1; col <= width; col++ {
		maxLen := 0
		if len(req.Headers) > 0 && len(req.Headers[col-1]) > maxLen {
			maxLen = len(req.Headers[col-1])
		}
		for _, row := range req.Data {
			if l := len(cellString(row[col-1])); l > maxLen {
				maxLen = l
			}
		}

		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return apperrors.Internal(err)
		}
		colWidth := float64(maxLen + 2)
		if colWidth > maxColWidth {
			colWidth = maxColWidth
		}
		if err := f.SetColWidth(sheetName, name, name, colWidth); err != nil {
			return apperrors.Internal(err)
		}
	}

	if len(req.Headers) == 0 {
		return nil
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
	})
	if err != nil {
		return apperrors.Internal(err)
	}

	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, styleID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
