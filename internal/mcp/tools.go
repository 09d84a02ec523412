package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skillsenselab/data2csv/internal/convert"
	apperrors "github.com/skillsenselab/data2csv/internal/errors"
	"github.com/skillsenselab/data2csv/internal/nextcloud"
	"github.com/skillsenselab/data2csv/internal/observability"
)

// convertArgs is the argument shape shared by the conversion tools.
type convertArgs struct {
	Data     [][]any  `json:"data"`
	Headers  []string `json:"headers,omitempty"`
	Filename string   `json:"filename,omitempty"`
	Styled   bool     `json:"styled,omitempty"`
}

func (a convertArgs) request() convert.Request {
	return convert.Request{Data: a.Data, Headers: a.Headers, Filename: a.Filename}
}

// toolError renders an error as an in-band tool result. Validation problems
// surface their human-readable message; everything else keeps the full error.
func toolError(err error) *CallResult {
	if appErr, ok := apperrors.AsAppError(err); ok && !apperrors.IsRetryableCode(appErr.Code) {
		return ErrorResult("Error: %s", appErr.Message)
	}
	return ErrorResult("Error: %s", err.Error())
}

// errorType maps an error to the metric attribute value.
func errorType(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return string(apperrors.ErrCodeInternal)
}

// NewCSVTool returns the convert_to_csv tool. metrics may be nil.
func NewCSVTool(metrics *observability.Metrics) Tool {
	return Tool{
		Name:        "convert_to_csv",
		Description: "Convert 2D array data to CSV format",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"data":     map[string]any{"type": "array", "description": "2D array data"},
				"headers":  map[string]any{"type": "array", "description": "Optional headers"},
				"filename": map[string]any{"type": "string", "default": convert.DefaultFilename},
			},
			"required": []string{"data"},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (*CallResult, error) {
			ctx, span := observability.StartSpan(ctx, "tools/convert_to_csv")
			defer span.End()

			var a convertArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, apperrors.InvalidInput("arguments", err.Error())
			}
			start := time.Now()
			res, err := convert.ToCSV(a.request())
			if err != nil {
				metrics.RecordConversion(ctx, "csv", "error", time.Since(start))
				metrics.RecordError(ctx, errorType(err), "convert")
				return toolError(err), nil
			}
			metrics.RecordConversion(ctx, "csv", "ok", time.Since(start))
			return TextResult(res.Content), nil
		},
	}
}

// NewExcelTool returns the convert_to_excel tool. metrics may be nil.
func NewExcelTool(metrics *observability.Metrics) Tool {
	return Tool{
		Name:        "convert_to_excel",
		Description: "Convert 2D array data to Excel format",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"data":     map[string]any{"type": "array", "description": "2D array data"},
				"headers":  map[string]any{"type": "array", "description": "Optional headers"},
				"filename": map[string]any{"type": "string", "default": convert.DefaultFilename},
				"styled":   map[string]any{"type": "boolean", "default": false},
			},
			"required": []string{"data"},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (*CallResult, error) {
			ctx, span := observability.StartSpan(ctx, "tools/convert_to_excel")
			defer span.End()

			var a convertArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, apperrors.InvalidInput("arguments", err.Error())
			}
			start := time.Now()
			res, err := convert.ToExcel(a.request(), a.Styled)
			if err != nil {
				metrics.RecordConversion(ctx, "excel", "error", time.Since(start))
				metrics.RecordError(ctx, errorType(err), "convert")
				return toolError(err), nil
			}
			metrics.RecordConversion(ctx, "excel", "ok", time.Since(start))
			return TextResult(res.Content), nil
		},
	}
}

// uploadArgs is the argument shape of the upload_to_nextcloud tool.
type uploadArgs struct {
	Data     [][]any  `json:"data"`
	Headers  []string `json:"headers,omitempty"`
	Filename string   `json:"filename,omitempty"`
	Format   string   `json:"format,omitempty"`
	Styled   bool     `json:"styled,omitempty"`
}

// NewUploadTool returns the upload_to_nextcloud tool, which converts data and
// publishes the document as a public Nextcloud share link. metrics may be nil.
func NewUploadTool(nc *nextcloud.Client, metrics *observability.Metrics) Tool {
	return Tool{
		Name:        "upload_to_nextcloud",
		Description: "Convert 2D array data and upload it to Nextcloud, returning a public share link",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"data":     map[string]any{"type": "array", "description": "2D array data"},
				"headers":  map[string]any{"type": "array", "description": "Optional headers"},
				"filename": map[string]any{"type": "string", "default": convert.DefaultFilename},
				"format":   map[string]any{"type": "string", "enum": []string{"csv", "excel"}, "default": "csv"},
				"styled":   map[string]any{"type": "boolean", "default": false},
			},
			"required": []string{"data"},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (*CallResult, error) {
			ctx, span := observability.StartSpan(ctx, "tools/upload_to_nextcloud")
			defer span.End()

			var a uploadArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, apperrors.InvalidInput("arguments", err.Error())
			}

			req := convert.Request{Data: a.Data, Headers: a.Headers, Filename: a.Filename}

			var (
				filename string
				payload  []byte
			)
			switch a.Format {
			case "", "csv":
				res, err := convert.ToCSV(req)
				if err != nil {
					return toolError(err), nil
				}
				filename = res.Filename
				payload = []byte(res.Content)
			case "excel":
				res, err := convert.ToExcel(req, a.Styled)
				if err != nil {
					return toolError(err), nil
				}
				raw, err := base64.StdEncoding.DecodeString(res.Content)
				if err != nil {
					return nil, apperrors.Internal(err)
				}
				filename = res.Filename
				payload = raw
			default:
				return ErrorResult("Error: unsupported format: %s", a.Format), nil
			}

			share, err := nc.UploadAndShare(ctx, filename, payload)
			if err != nil {
				metrics.RecordUpload(ctx, "error")
				metrics.RecordError(ctx, errorType(err), "nextcloud")
				return toolError(err), nil
			}
			metrics.RecordUpload(ctx, "ok")
			return TextResult(fmt.Sprintf("Uploaded %s, public link: %s", share.RemotePath, share.ShareURL)), nil
		},
	}
}
