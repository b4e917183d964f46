package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/internal/export"
	"github.com/fivetwenty-io/sgdata/internal/logging"
	"github.com/fivetwenty-io/sgdata/pkg/sgclient"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// ellipsis marks truncated table cells.
	ellipsis = "..."

	// cellPadding approximates the border and padding tablewriter adds per column.
	cellPadding = 3
)

// createClient builds a portal client from the effective CLI configuration.
func createClient() (sgdata.Client, *logging.ZapLogger, error) {
	verbose := viper.GetBool(KeyVerbose)

	logger, err := logging.New(verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := sgclient.New(&sgdata.Config{
		BaseURL:     viper.GetString(KeyBaseURL),
		HTTPTimeout: viper.GetDuration(KeyTimeout),
		Debug:       verbose,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, logger, nil
}

// outputFormat returns the configured output format.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString(KeyOutput))
	if format == "" {
		return constants.OutputFormatTable, nil
	}

	return format, validateOutputFormat(format)
}

func validateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatTable, constants.OutputFormatJSON,
		constants.OutputFormatYAML, constants.OutputFormatJSONL:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownOutputFormat, format)
	}
}

// renderValue writes v as indented JSON or YAML.
func renderValue(w io.Writer, format string, v interface{}) error {
	switch format {
	case constants.OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(constants.JSONIndentSize)

		err := encoder.Encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	case constants.OutputFormatJSONL:
		err := json.NewEncoder(w).Encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	}
}

// renderTable writes table in the requested format.
func renderTable(w io.Writer, format string, table *sgdata.Table, width int) error {
	switch format {
	case constants.OutputFormatJSON, constants.OutputFormatYAML:
		return renderValue(w, format, table)
	case constants.OutputFormatJSONL:
		return export.WriteJSONL(w, table)
	}

	if table.Len() == 0 {
		_, _ = fmt.Fprintf(w, "No records found (%d available)\n", table.TotalCount)

		return nil
	}

	cellWidth := columnWidth(width, len(table.Columns))

	writer := tablewriter.NewWriter(w)

	header := make([]any, 0, len(table.Columns))
	for _, column := range table.Columns {
		header = append(header, column)
	}

	writer.Header(header...)

	for _, row := range table.Rows {
		cells := make([]string, 0, len(table.Columns))
		for _, column := range table.Columns {
			cells = append(cells, truncate(formatCell(row[column]), cellWidth))
		}

		err := writer.Append(cells)
		if err != nil {
			return fmt.Errorf("failed to append row to table: %w", err)
		}
	}

	err := writer.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, _ = fmt.Fprintf(w, "\nShowing %d of %d records\n", table.Len(), table.TotalCount)

	return nil
}

// renderMapping writes a raw response or metadata mapping. Tables only show
// top-level scalar values and summarize nested ones.
func renderMapping(w io.Writer, format string, mapping sgdata.RawMapping, width int) error {
	if format != constants.OutputFormatTable {
		return renderValue(w, format, mapping)
	}

	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	cellWidth := columnWidth(width, 2)

	writer := tablewriter.NewWriter(w)
	writer.Header("Property", "Value")

	for _, key := range keys {
		err := writer.Append([]string{key, truncate(summarize(mapping[key]), cellWidth)})
		if err != nil {
			return fmt.Errorf("failed to append %s to table: %w", key, err)
		}
	}

	err := writer.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

func summarize(value interface{}) string {
	switch v := value.(type) {
	case map[string]interface{}:
		return fmt.Sprintf("{%d fields}", len(v))
	case []interface{}:
		return fmt.Sprintf("[%d items]", len(v))
	default:
		return formatCell(v)
	}
}

// terminalWidth returns the width of stdout, or the default when stdout is
// not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return constants.DefaultTerminalWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return constants.DefaultTerminalWidth
	}

	return width
}

func columnWidth(width, columns int) int {
	if columns <= 0 {
		return width
	}

	cellWidth := width/columns - cellPadding
	if cellWidth < constants.MinCellWidth {
		return constants.MinCellWidth
	}

	return cellWidth
}

func truncate(value string, width int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	if utf8.RuneCountInString(value) <= width {
		return value
	}

	runes := []rune(value)

	return string(runes[:width-len(ellipsis)]) + ellipsis
}
