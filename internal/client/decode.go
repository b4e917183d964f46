package client

import (
	"errors"
	"fmt"
	"io"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/fivetwenty-io/sgdata/internal/http"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	jsoniter "github.com/json-iterator/go"
)

// json keeps numbers as json.Number so record IDs and counts survive intact.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

var (
	errNotAnObject       = errors.New("expected a JSON object")
	errRecordsNotAnArray = errors.New("records is not a JSON array")
	errRecordNotAnObject = errors.New("record is not a JSON object")
)

// decodeMapping decodes a response body that must be a JSON object.
func decodeMapping(resp *http.Response) (sgdata.RawMapping, error) {
	var mapping map[string]interface{}

	err := json.Unmarshal(resp.Body, &mapping)
	if err != nil {
		return nil, decodeError(resp, err)
	}

	if mapping == nil {
		return nil, decodeError(resp, errNotAnObject)
	}

	return sgdata.RawMapping(mapping), nil
}

// decodeTable turns the records of a search response into rows. When the
// first record wraps its payload under "fields", every row is unwrapped.
func decodeTable(resp *http.Response, totalCount int) (*sgdata.Table, error) {
	var raw map[string]jsoniter.RawMessage

	err := json.Unmarshal(resp.Body, &raw)
	if err != nil {
		return nil, decodeError(resp, err)
	}

	if raw == nil {
		return nil, decodeError(resp, errNotAnObject)
	}

	table := sgdata.NewTable(totalCount)

	recordsJSON, ok := raw[constants.FieldRecords]
	if !ok || string(recordsJSON) == "null" {
		return table, nil
	}

	var records []jsoniter.RawMessage

	err = json.Unmarshal(recordsJSON, &records)
	if err != nil {
		return nil, decodeError(resp, fmt.Errorf("%w: %w", errRecordsNotAnArray, err))
	}

	if len(records) == 0 {
		return table, nil
	}

	first, _, err := decodeRecord(records[0], false)
	if err != nil {
		return nil, decodeError(resp, fmt.Errorf("record 0: %w", err))
	}

	_, wrapped := first[constants.FieldFields]

	for i, record := range records {
		row, keys, err := decodeRecord(record, wrapped)
		if err != nil {
			return nil, decodeError(resp, fmt.Errorf("record %d: %w", i, err))
		}

		table.AppendRow(row, keys)
	}

	return table, nil
}

// decodeRecord reads one record keeping its key order. With unwrap set only
// the "fields" object is read; a record without it yields an empty row.
func decodeRecord(data []byte, unwrap bool) (sgdata.Row, []string, error) {
	iter := json.BorrowIterator(data)
	defer json.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, nil, errRecordNotAnObject
	}

	var (
		row  sgdata.Row
		keys []string
	)

	if unwrap {
		row = sgdata.Row{}

		iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
			if key == constants.FieldFields && it.WhatIsNext() == jsoniter.ObjectValue {
				row, keys = readObject(it)

				return true
			}

			it.Skip()

			return true
		})
	} else {
		row, keys = readObject(iter)
	}

	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, nil, iter.Error
	}

	return row, keys, nil
}

// readObject reads the object at the iterator position. Nested values are
// decoded as plain maps and slices.
func readObject(iter *jsoniter.Iterator) (sgdata.Row, []string) {
	row := sgdata.Row{}

	var keys []string

	iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
		if _, seen := row[key]; !seen {
			keys = append(keys, key)
		}

		row[key] = it.Read()

		return it.Error == nil
	})

	return row, keys
}

func decodeError(resp *http.Response, err error) *sgdata.RequestError {
	return &sgdata.RequestError{
		Kind:   sgdata.FailureDecode,
		Method: "GET",
		URL:    resp.URL,
		Err:    err,
	}
}
