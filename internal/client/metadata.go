package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
)

// GetMetadata implements sgdata.Client.GetMetadata. The portal answers a
// zero-row search with the dataset summary and no records.
func (c *DatasetClient) GetMetadata(ctx context.Context, datasetID string) (sgdata.Metadata, error) {
	if datasetID == "" {
		return nil, sgdata.ErrDatasetIDRequired
	}

	resp, err := c.httpClient.Get(ctx, constants.SearchEndpoint, sgdata.MetadataValues(datasetID))
	if err != nil {
		c.logFailure(datasetID, "", err)

		return nil, fmt.Errorf("getting metadata for %s: %w", datasetID, err)
	}

	metadata, err := decodeMapping(resp)
	if err != nil {
		c.logFailure(datasetID, "", err)

		return nil, fmt.Errorf("parsing metadata for %s: %w", datasetID, err)
	}

	return metadata, nil
}
