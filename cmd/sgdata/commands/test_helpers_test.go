package commands

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// newPortal serves total records of a single dataset, honoring rows and start.
func newPortal(t *testing.T, total int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		rows, err := strconv.Atoi(query.Get("rows"))
		if err != nil {
			rows = 10
		}

		start, _ := strconv.Atoi(query.Get("start"))

		records := []map[string]interface{}{}
		for i := start; i < total && i < start+rows; i++ {
			records = append(records, map[string]interface{}{
				"datasetid": query.Get("dataset"),
				"recordid":  fmt.Sprintf("rec-%d", i),
				"fields": map[string]interface{}{
					"id":     i,
					"street": fmt.Sprintf("Strasse %d", i),
				},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = stdjson.NewEncoder(w).Encode(map[string]interface{}{
			"nhits":      total,
			"parameters": map[string]interface{}{"dataset": query.Get("dataset")},
			"records":    records,
		})
	}))

	t.Cleanup(server.Close)

	return server
}

// useViper points the global viper instance at baseURL and resets it when the
// test ends.
func useViper(t *testing.T, baseURL, output string) {
	t.Helper()

	viper.Reset()
	viper.Set(KeyBaseURL, baseURL)
	viper.Set(KeyOutput, output)

	t.Cleanup(viper.Reset)
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// a nil slice makes cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}
