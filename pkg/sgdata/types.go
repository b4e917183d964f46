package sgdata

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/sgdata/internal/constants"
)

// DatasetQuery describes a records search against one dataset.
//
// Select, Where and OrderBy use the portal's own query language and are passed
// through uninterpreted. A nil Limit leaves the row count to the portal.
type DatasetQuery struct {
	DatasetID string `json:"dataset_id"         yaml:"dataset_id"`
	Select    string `json:"select,omitempty"   yaml:"select,omitempty"`
	Where     string `json:"where,omitempty"    yaml:"where,omitempty"`
	Limit     *int   `json:"limit,omitempty"    yaml:"limit,omitempty"`
	Offset    int    `json:"offset"             yaml:"offset"`
	OrderBy   string `json:"order_by,omitempty" yaml:"order_by,omitempty"`
	FetchAll  bool   `json:"fetch_all"          yaml:"fetch_all"`
}

// NewDatasetQuery creates a query for datasetID with the default limit.
func NewDatasetQuery(datasetID string) *DatasetQuery {
	limit := constants.DefaultLimit

	return &DatasetQuery{
		DatasetID: datasetID,
		Limit:     &limit,
	}
}

// WithSelect sets the comma-separated list of fields to return.
func (q *DatasetQuery) WithSelect(fields string) *DatasetQuery {
	q.Select = fields

	return q
}

// WithWhere sets the filter expression.
func (q *DatasetQuery) WithWhere(filter string) *DatasetQuery {
	q.Where = filter

	return q
}

// WithLimit sets the maximum number of rows.
func (q *DatasetQuery) WithLimit(limit int) *DatasetQuery {
	q.Limit = &limit

	return q
}

// WithOffset sets the number of rows to skip.
func (q *DatasetQuery) WithOffset(offset int) *DatasetQuery {
	q.Offset = offset

	return q
}

// WithOrderBy sets the sort field.
func (q *DatasetQuery) WithOrderBy(field string) *DatasetQuery {
	q.OrderBy = field

	return q
}

// WithFetchAll requests every matching record regardless of the limit.
func (q *DatasetQuery) WithFetchAll(fetchAll bool) *DatasetQuery {
	q.FetchAll = fetchAll

	return q
}

// Validate checks the query before any request is made.
func (q *DatasetQuery) Validate() error {
	if q.DatasetID == "" {
		return ErrDatasetIDRequired
	}

	if q.Offset < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, q.Offset)
	}

	if q.Limit != nil && *q.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, *q.Limit)
	}

	return nil
}

// ProbeValues returns the parameters of the single-row request used to learn
// the total record count.
func (q *DatasetQuery) ProbeValues() url.Values {
	values := url.Values{}
	values.Set(constants.ParamDataset, q.DatasetID)
	values.Set(constants.ParamRows, strconv.Itoa(constants.ProbeRows))
	values.Set(constants.ParamStart, "0")

	return values
}

// ToValues converts the query to URL values. Optional fields that are empty
// are left out entirely.
func (q *DatasetQuery) ToValues() url.Values {
	values := url.Values{}
	values.Set(constants.ParamDataset, q.DatasetID)
	values.Set(constants.ParamStart, strconv.Itoa(q.Offset))

	if q.Limit != nil {
		values.Set(constants.ParamRows, strconv.Itoa(*q.Limit))
	}

	if q.Select != "" {
		values.Set(constants.ParamSelect, q.Select)
	}

	if q.Where != "" {
		values.Set(constants.ParamWhere, q.Where)
	}

	if q.OrderBy != "" {
		values.Set(constants.ParamOrderBy, q.OrderBy)
	}

	return values
}

// MetadataValues returns the parameters for a zero-row request on datasetID.
func MetadataValues(datasetID string) url.Values {
	values := url.Values{}
	values.Set(constants.ParamDataset, datasetID)
	values.Set(constants.ParamRows, strconv.Itoa(constants.MetadataRows))

	return values
}

// Row is a single record keyed by field name.
type Row map[string]interface{}

// Table is an ordered set of rows. Columns lists every field name in order of
// first appearance.
type Table struct {
	Columns    []string `json:"columns"     yaml:"columns"`
	Rows       []Row    `json:"rows"        yaml:"rows"`
	TotalCount int      `json:"total_count" yaml:"total_count"`

	seen map[string]struct{}
}

// NewTable creates an empty table that reports totalCount available records.
func NewTable(totalCount int) *Table {
	return &Table{
		Columns:    []string{},
		Rows:       []Row{},
		TotalCount: totalCount,
	}
}

// AppendRow adds row to the table. keys gives the field order of the row and
// extends Columns with any name not seen before; keys missing from row are
// ignored.
func (t *Table) AppendRow(row Row, keys []string) {
	if t.seen == nil {
		t.seen = make(map[string]struct{}, len(t.Columns))
		for _, column := range t.Columns {
			t.seen[column] = struct{}{}
		}
	}

	for _, key := range keys {
		if _, ok := row[key]; !ok {
			continue
		}

		if _, ok := t.seen[key]; ok {
			continue
		}

		t.seen[key] = struct{}{}
		t.Columns = append(t.Columns, key)
	}

	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the values of one field across all rows. Rows without the
// field contribute nil.
func (t *Table) Column(name string) []interface{} {
	values := make([]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[name])
	}

	return values
}

// RawMapping is a decoded JSON object as returned by the portal.
type RawMapping map[string]interface{}

// Hits returns the nhits field, or zero when it is missing or not a number.
func (m RawMapping) Hits() int {
	n, _ := IntValue(m[constants.FieldHits])

	return n
}

// Metadata describes a dataset. Its structure is defined by the portal.
type Metadata = RawMapping

// IntValue converts a decoded JSON number to int.
func IntValue(value interface{}) (int, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}

			return int(f), true
		}

		return int(n), true
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
