// Package sgclient provides the entry point for constructing a St. Gallen Open
// Data Portal client that implements the sgdata.Client interface.
//
// Quick start
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
//
//	  cli, err := sgclient.NewDefault()
//	  if err != nil { log.Fatal(err) }
//
//	  meta, err := cli.GetMetadata(ctx, "road-works")
//	  if err != nil { log.Fatal(err) }
//	  log.Printf("%d records", meta.Hits())
//
//	  all, err := cli.GetDataset(ctx, sgdata.NewDatasetQuery("road-works").WithFetchAll(true))
//	  if err != nil { log.Fatal(err) }
//	  _ = all
//	}
//
// The returned client keeps one HTTP session for its whole lifetime. Calls are
// blocking; bound them with the context or Config.HTTPTimeout.
package sgclient
