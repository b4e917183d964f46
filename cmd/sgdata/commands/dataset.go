package commands

import (
	"fmt"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/internal/export"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	"github.com/spf13/cobra"
)

// queryFlags holds the search flags shared by get and export.
type queryFlags struct {
	selectFields string
	where        string
	limit        int
	offset       int
	orderBy      string
	all          bool
}

func (f *queryFlags) register(cmd *cobra.Command, allDefault bool) {
	cmd.Flags().StringVar(&f.selectFields, "select", "", "comma separated fields to return")
	cmd.Flags().StringVar(&f.where, "where", "", "filter expression in the portal query language")
	cmd.Flags().IntVarP(&f.limit, "limit", "l", constants.DefaultLimit, "maximum number of records")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "number of records to skip")
	cmd.Flags().StringVar(&f.orderBy, "order-by", "", "sort expression, prefix a field with - for descending")
	cmd.Flags().BoolVar(&f.all, "all", allDefault, "fetch every record of the dataset, ignoring --limit")
}

func (f *queryFlags) query(datasetID string) *sgdata.DatasetQuery {
	return sgdata.NewDatasetQuery(datasetID).
		WithSelect(f.selectFields).
		WithWhere(f.where).
		WithLimit(f.limit).
		WithOffset(f.offset).
		WithOrderBy(f.orderBy).
		WithFetchAll(f.all)
}

// NewDatasetCommand creates the dataset command group.
func NewDatasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dataset",
		Aliases: []string{"datasets", "ds"},
		Short:   "Query datasets",
		Long:    "Read records and metadata of datasets published on the St. Gallen Open Data Portal",
	}

	cmd.AddCommand(newDatasetGetCommand())
	cmd.AddCommand(newDatasetMetadataCommand())
	cmd.AddCommand(newDatasetExportCommand())

	return cmd
}

func newDatasetGetCommand() *cobra.Command {
	var (
		flags queryFlags
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "get DATASET_ID",
		Short: "Get dataset records",
		Long:  "Fetch records of a dataset and print them as a table, JSON, YAML or JSON lines",
		Example: `  sgdata dataset get road-works --limit 5
  sgdata dataset get road-works --select street,city --where "city = 'Wil'" --all
  sgdata dataset get road-works --raw --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			if raw && format == constants.OutputFormatTable {
				return constants.ErrRawNotTabular
			}

			client, logger, err := createClient()
			if err != nil {
				return err
			}

			defer func() { _ = logger.Sync() }()

			query := flags.query(args[0])

			if raw {
				mapping, err := client.GetDatasetRaw(cmd.Context(), query)
				if err != nil {
					return fmt.Errorf("failed to get dataset %s: %w", args[0], err)
				}

				return renderValue(cmd.OutOrStdout(), format, mapping)
			}

			table, err := client.GetDataset(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to get dataset %s: %w", args[0], err)
			}

			return renderTable(cmd.OutOrStdout(), format, table, terminalWidth())
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&raw, "raw", false, "print the unprocessed portal response")

	return cmd
}

func newDatasetMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "metadata DATASET_ID",
		Aliases: []string{"meta", "info"},
		Short:   "Get dataset metadata",
		Long:    "Display the portal's summary of a dataset without fetching any records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			client, logger, err := createClient()
			if err != nil {
				return err
			}

			defer func() { _ = logger.Sync() }()

			metadata, err := client.GetMetadata(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get metadata for %s: %w", args[0], err)
			}

			return renderMapping(cmd.OutOrStdout(), format, metadata, terminalWidth())
		},
	}
}

func newDatasetExportCommand() *cobra.Command {
	var (
		flags       queryFlags
		file        string
		compression string
	)

	cmd := &cobra.Command{
		Use:   "export DATASET_ID",
		Short: "Export dataset records to a file",
		Long: `Fetch records of a dataset and write them to a JSON lines file.

The compression codec is taken from the file extension (.gz, .zst) unless
--compression is given.`,
		Example: `  sgdata dataset export road-works --file road-works.jsonl.gz
  sgdata dataset export road-works --file sample.jsonl --all=false --limit 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return constants.ErrExportFileRequired
			}

			if compression == "" {
				compression = export.CompressionFromPath(file)
			}

			err := export.CheckCompression(compression)
			if err != nil {
				return err
			}

			client, logger, err := createClient()
			if err != nil {
				return err
			}

			defer func() { _ = logger.Sync() }()

			table, err := client.GetDataset(cmd.Context(), flags.query(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get dataset %s: %w", args[0], err)
			}

			err = export.WriteFile(file, table, compression)
			if err != nil {
				return fmt.Errorf("failed to export dataset %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d records to %s\n", table.Len(), table.TotalCount, file)

			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&file, "file", "f", "", "destination file")
	cmd.Flags().StringVar(&compression, "compression", "", "compression codec (none, gzip, zstd)")

	return cmd
}
