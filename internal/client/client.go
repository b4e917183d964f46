package client

import (
	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/internal/http"
	"github.com/fivetwenty-io/sgdata/internal/logging"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
)

// DatasetClient implements sgdata.Client against the portal's search endpoint.
type DatasetClient struct {
	httpClient *http.Client
	logger     sgdata.Logger
	baseURL    string
}

var _ sgdata.Client = (*DatasetClient)(nil)

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *sgdata.Config) []http.Option {
	var httpOpts []http.Option

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	return httpOpts
}

// New creates a portal client. An empty BaseURL selects the public portal.
func New(config *sgdata.Config) (*DatasetClient, error) {
	if config == nil {
		return nil, sgdata.ErrConfigRequired
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	httpClient, err := http.NewClient(baseURL, createHTTPClientOptions(config)...)
	if err != nil {
		return nil, err
	}

	var logger sgdata.Logger = logging.NopLogger{}
	if config.Logger != nil {
		logger = config.Logger
	}

	return &DatasetClient{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    httpClient.BaseURL(),
	}, nil
}

// BaseURL returns the normalized base URL requests are sent to.
func (c *DatasetClient) BaseURL() string {
	return c.baseURL
}

// loggerAdapter adapts sgdata.Logger to http.Logger.
type loggerAdapter struct {
	logger sgdata.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
