package sgdata_test

import (
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	"github.com/stretchr/testify/assert"
)

func TestTable_AppendRow(t *testing.T) {
	t.Parallel()

	table := sgdata.NewTable(3)
	table.AppendRow(sgdata.Row{"b": 1, "a": 2}, []string{"b", "a"})
	table.AppendRow(sgdata.Row{"a": 3, "c": 4}, []string{"a", "c"})
	table.AppendRow(sgdata.Row{}, nil)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 3, table.TotalCount)
	assert.Equal(t, []string{"b", "a", "c"}, table.Columns)
	assert.Equal(t, []interface{}{2, 3, nil}, table.Column("a"))
	assert.Equal(t, []interface{}{nil, nil, nil}, table.Column("missing"))
}

func TestTable_AppendRowIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	table := sgdata.NewTable(0)
	table.AppendRow(sgdata.Row{"a": 1}, []string{"a", "ghost"})

	assert.Equal(t, []string{"a"}, table.Columns)
}

func TestTable_AppendRowOnLiteral(t *testing.T) {
	t.Parallel()

	table := &sgdata.Table{Columns: []string{"a"}}
	table.AppendRow(sgdata.Row{"a": 1, "b": 2}, []string{"a", "b"})

	assert.Equal(t, []string{"a", "b"}, table.Columns)
}

func TestNewTable_MarshalsEmptySlices(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(sgdata.NewTable(0))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"columns": [], "rows": [], "total_count": 0}`, string(data))
}

func TestRawMapping_Hits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, sgdata.RawMapping{"nhits": json.Number("42")}.Hits())
	assert.Equal(t, 7, sgdata.RawMapping{"nhits": float64(7)}.Hits())
	assert.Equal(t, 0, sgdata.RawMapping{"nhits": "many"}.Hits())
	assert.Equal(t, 0, sgdata.RawMapping{}.Hits())
}

func TestIntValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    interface{}
		expected int
		ok       bool
	}{
		{json.Number("12"), 12, true},
		{json.Number("12.9"), 12, true},
		{json.Number("abc"), 0, false},
		{float64(3), 3, true},
		{5, 5, true},
		{int64(6), 6, true},
		{"7", 0, false},
		{nil, 0, false},
	}

	for _, testCase := range tests {
		got, ok := sgdata.IntValue(testCase.value)
		assert.Equal(t, testCase.expected, got, "%v", testCase.value)
		assert.Equal(t, testCase.ok, ok, "%v", testCase.value)
	}
}
