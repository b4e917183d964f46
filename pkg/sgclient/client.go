package sgclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/sgdata/internal/client"
	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
)

// New creates a new portal client. The config is normalized in place.
func New(config *sgdata.Config) (sgdata.Client, error) {
	if config == nil {
		return nil, sgdata.ErrConfigRequired
	}

	config.BaseURL = NormalizeBaseURL(config.BaseURL)

	datasetClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return datasetClient, nil
}

// NewDefault creates a client for the public portal without logging.
func NewDefault() (sgdata.Client, error) {
	return New(&sgdata.Config{})
}

// NewWithBaseURL creates a client for another deployment of the records API.
func NewWithBaseURL(baseURL string) (sgdata.Client, error) {
	return New(&sgdata.Config{BaseURL: baseURL})
}

// NormalizeBaseURL returns the portal URL for an empty value, adds "https://"
// when no scheme is present and ensures a trailing slash.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return baseURL
}
