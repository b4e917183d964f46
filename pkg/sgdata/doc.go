// Package sgdata provides types, interfaces, and helpers for reading datasets
// from the St. Gallen Open Data Portal (https://daten.sg.ch).
//
// # Overview
//
// The portal exposes a read-only records search API. This package defines the
// query type (DatasetQuery), the two result shapes (Table and RawMapping), the
// Client interface and the error type every failed request is reported as. A
// concrete client is provided by the sgclient package:
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/sgdata/pkg/sgclient"
//	  "github.com/fivetwenty-io/sgdata/pkg/sgdata"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := sgclient.New(&sgdata.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  table, err := cli.GetDataset(ctx, sgdata.NewDatasetQuery("road-works").WithLimit(5))
//	  if err != nil { log.Fatal(err) }
//	  _ = table.Rows
//	}
//
// # Queries
//
// Every dataset call first issues a probe request for a single row to learn the
// total number of matching records (reported as Table.TotalCount and logged).
// With FetchAll the limit is replaced by that total. Select, Where and OrderBy
// are passed through to the portal unchanged and are only sent when non-empty.
//
// # Errors
//
// Transport failures, non-2xx responses and undecodable bodies are all
// reported as *RequestError. errors.Is(err, ErrRequestFailed) matches any of
// them; IsNotFound, IsTransportFailure and IsDecodeFailure narrow it down.
package sgdata
