package constants

import "errors"

// CLI validation errors.
var (
	ErrUnknownOutputFormat = errors.New("unknown output format, use table, json, yaml or jsonl")
	ErrUnknownCompression  = errors.New("unknown compression, use none, gzip or zstd")
	ErrExportFileRequired  = errors.New("--file flag is required")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrRawNotTabular       = errors.New("raw responses cannot be rendered as a table, use --output json or yaml")
)
