package constants

import "time"

// Portal endpoints.
const (
	// DefaultBaseURL is the records API root of the St. Gallen Open Data Portal.
	DefaultBaseURL = "https://daten.sg.ch/api/records/1.0/"

	// SearchEndpoint is the records search path, relative to the base URL.
	SearchEndpoint = "search/"
)

// Search query parameter names.
const (
	ParamDataset = "dataset"
	ParamRows    = "rows"
	ParamStart   = "start"
	ParamSelect  = "select"
	ParamWhere   = "where"
	ParamOrderBy = "order_by"
)

// Search response field names.
const (
	// FieldHits is the total number of records matching a query.
	FieldHits = "nhits"

	// FieldRecords holds the list of returned records.
	FieldRecords = "records"

	// FieldFields wraps the payload of a single record.
	FieldFields = "fields"

	// FieldError carries the portal's error message on failed requests.
	FieldError = "error"
)

// Query defaults.
const (
	// DefaultLimit is the number of rows requested when the caller does not say otherwise.
	DefaultLimit = 100

	// ProbeRows is the row count of the probe request used to discover the total.
	ProbeRows = 1

	// MetadataRows asks the portal for the summary without any records.
	MetadataRows = 0
)

// HTTP settings.
const (
	// DefaultHTTPTimeout is the timeout applied by the CLI.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no other user agent is configured.
	DefaultUserAgent = "sgdata-go/1.0"

	// MaxErrorBodySize limits how much of a failed response is kept on the error.
	MaxErrorBodySize = 4096
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and export files.
	ConfigFilePerm = 0600
)

// Output formats.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatJSONL = "jsonl"

	// JSONIndentSize is the number of spaces for JSON and YAML indentation.
	JSONIndentSize = 2
)

// Export compression codecs.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// Terminal rendering.
const (
	// DefaultTerminalWidth is assumed when stdout is not a terminal.
	DefaultTerminalWidth = 120

	// MinCellWidth keeps truncated table cells readable.
	MinCellWidth = 8
)
