// Package export writes dataset tables to files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSONL writes one JSON object per row.
func WriteJSONL(w io.Writer, table *sgdata.Table) error {
	enc := json.NewEncoder(w)
	for i, row := range table.Rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
	}

	return nil
}

// ReadJSONL reads rows written by WriteJSONL.
func ReadJSONL(r io.Reader) ([]sgdata.Row, error) {
	var rows []sgdata.Row

	dec := json.NewDecoder(r)
	dec.UseNumber()

	for dec.More() {
		var row sgdata.Row
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding row %d: %w", len(rows), err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// CompressionFromPath guesses the codec from a file extension.
func CompressionFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return constants.CompressionGzip
	case ".zst", ".zstd":
		return constants.CompressionZstd
	default:
		return constants.CompressionNone
	}
}

// CheckCompression reports whether compression names a supported codec.
func CheckCompression(compression string) error {
	switch compression {
	case "", constants.CompressionNone, constants.CompressionGzip, constants.CompressionZstd:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownCompression, compression)
	}
}

// NewWriter wraps w with the named compression codec. Closing the returned
// writer flushes the codec but leaves w open.
func NewWriter(w io.Writer, compression string) (io.WriteCloser, error) {
	switch compression {
	case "", constants.CompressionNone:
		return nopCloser{w}, nil
	case constants.CompressionGzip:
		return gzip.NewWriter(w), nil
	case constants.CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}

		return enc, nil
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownCompression, compression)
	}
}

// NewReader undoes NewWriter.
func NewReader(r io.Reader, compression string) (io.ReadCloser, error) {
	switch compression {
	case "", constants.CompressionNone:
		return io.NopCloser(r), nil
	case constants.CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}

		return gz, nil
	case constants.CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}

		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownCompression, compression)
	}
}

// WriteFile exports table to path as JSONL, compressed with compression.
func WriteFile(path string, table *sgdata.Table, compression string) (err error) {
	err = CheckCompression(compression)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("closing export file: %w", closeErr)
		}
	}()

	buffered := bufio.NewWriter(file)

	writer, err := NewWriter(buffered, compression)
	if err != nil {
		return err
	}

	err = WriteJSONL(writer, table)
	if err != nil {
		_ = writer.Close()

		return err
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("finishing %s stream: %w", compression, err)
	}

	err = buffered.Flush()
	if err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
