package sgdata

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrInvalidBaseURL    = errors.New("invalid base URL")
	ErrDatasetIDRequired = errors.New("dataset ID is required")
	ErrInvalidOffset     = errors.New("offset must not be negative")
	ErrInvalidLimit      = errors.New("limit must not be negative")
)

// RecordsClient reads records from the portal.
type RecordsClient interface {
	// GetDataset returns the records matching query as a table.
	GetDataset(ctx context.Context, query *DatasetQuery) (*Table, error)

	// GetDatasetRaw returns the full decoded search response for query.
	GetDatasetRaw(ctx context.Context, query *DatasetQuery) (RawMapping, error)
}

// MetadataClient reads dataset summaries from the portal.
type MetadataClient interface {
	GetMetadata(ctx context.Context, datasetID string) (Metadata, error)
}

// Client is the full portal client.
type Client interface {
	RecordsClient
	MetadataClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// A zero Config is valid: sgclient.New fills in the portal URL and leaves
// logging disabled.
type Config struct {
	// BaseURL: root of the records API (default
	// "https://daten.sg.ch/api/records/1.0/"). sgclient.New adds "https://"
	// when no scheme is present and makes sure the URL ends in a slash so
	// endpoints resolve beneath it.
	BaseURL string

	// HTTPTimeout: optional timeout for each HTTP request. Zero means no
	// client-side timeout; use the context passed to each call instead.
	HTTPTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Debug: logs every request and response at debug level when a Logger is set.
	Debug bool
	// Logger: optional structured logger. Nil disables logging.
	Logger Logger
	// HTTPClient: optional underlying client, for custom transports.
	HTTPClient *http.Client
}
