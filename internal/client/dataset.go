package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/internal/http"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	"github.com/google/uuid"
)

// GetDataset implements sgdata.Client.GetDataset.
func (c *DatasetClient) GetDataset(ctx context.Context, query *sgdata.DatasetQuery) (*sgdata.Table, error) {
	resp, total, requestID, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}

	table, err := decodeTable(resp, total)
	if err != nil {
		c.logFailure(query.DatasetID, requestID, err)

		return nil, fmt.Errorf("reading dataset %s: %w", query.DatasetID, err)
	}

	c.logger.Debug("Fetched dataset rows", map[string]interface{}{
		"dataset":    query.DatasetID,
		"request_id": requestID,
		"rows":       table.Len(),
		"columns":    len(table.Columns),
	})

	return table, nil
}

// GetDatasetRaw implements sgdata.Client.GetDatasetRaw.
func (c *DatasetClient) GetDatasetRaw(ctx context.Context, query *sgdata.DatasetQuery) (sgdata.RawMapping, error) {
	resp, _, requestID, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}

	mapping, err := decodeMapping(resp)
	if err != nil {
		c.logFailure(query.DatasetID, requestID, err)

		return nil, fmt.Errorf("reading dataset %s: %w", query.DatasetID, err)
	}

	return mapping, nil
}

// search probes for the total record count, then issues the real request.
// With FetchAll the row count becomes that total.
func (c *DatasetClient) search(ctx context.Context, query *sgdata.DatasetQuery) (*http.Response, int, string, error) {
	if query == nil {
		return nil, 0, "", sgdata.ErrDatasetIDRequired
	}

	err := query.Validate()
	if err != nil {
		return nil, 0, "", fmt.Errorf("invalid query: %w", err)
	}

	requestID := uuid.NewString()

	probeResp, err := c.httpClient.Get(ctx, constants.SearchEndpoint, query.ProbeValues())
	if err != nil {
		c.logFailure(query.DatasetID, requestID, err)

		return nil, 0, requestID, fmt.Errorf("probing dataset %s: %w", query.DatasetID, err)
	}

	probe, err := decodeMapping(probeResp)
	if err != nil {
		c.logFailure(query.DatasetID, requestID, err)

		return nil, 0, requestID, fmt.Errorf("probing dataset %s: %w", query.DatasetID, err)
	}

	total := probe.Hits()

	c.logger.Info("Total records available", map[string]interface{}{
		"dataset":       query.DatasetID,
		"request_id":    requestID,
		"total_records": total,
	})

	values := query.ToValues()
	if query.FetchAll {
		values.Set(constants.ParamRows, strconv.Itoa(total))
	}

	resp, err := c.httpClient.Get(ctx, constants.SearchEndpoint, values)
	if err != nil {
		c.logFailure(query.DatasetID, requestID, err)

		return nil, 0, requestID, fmt.Errorf("fetching dataset %s: %w", query.DatasetID, err)
	}

	return resp, total, requestID, nil
}

func (c *DatasetClient) logFailure(datasetID, requestID string, err error) {
	fields := map[string]interface{}{
		"dataset": datasetID,
		"error":   err,
	}

	if requestID != "" {
		fields["request_id"] = requestID
	}

	if status := sgdata.StatusCode(err); status != 0 {
		fields["status"] = status
	}

	c.logger.Error("API request failed", fields)
}
