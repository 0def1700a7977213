package fmdata_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

func TestQueryGroupMarshalJSON(t *testing.T) {
	t.Parallel()

	group := fmdata.QueryGroup{Criteria: map[string]string{"name": "Smith", "city": "Dresden"}}

	data, err := json.Marshal(group)
	require.NoError(t, err)

	var decoded map[string]string

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]string{"name": "Smith", "city": "Dresden"}, decoded)
}

func TestQueryGroupMarshalJSON_Omit(t *testing.T) {
	t.Parallel()

	group := fmdata.QueryGroup{Criteria: map[string]string{"status": "closed"}, Omit: true}

	data, err := json.Marshal(group)
	require.NoError(t, err)

	var decoded map[string]string

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "true", decoded["omit"])
	assert.Equal(t, "closed", decoded["status"])
}

func TestFindRequestBody(t *testing.T) {
	t.Parallel()

	req := &fmdata.FindRequest{
		Query:  []fmdata.QueryGroup{{Criteria: map[string]string{"name": "=Exact"}}},
		Sort:   []fmdata.SortField{{FieldName: "name", SortOrder: fmdata.SortDescend}},
		Offset: 11,
		Limit:  50,
	}

	body := req.Body()

	assert.Equal(t, "11", body["offset"])
	assert.Equal(t, "50", body["limit"])
	assert.Contains(t, body, "query")
	assert.Contains(t, body, "sort")
}

func TestFindRequestBody_OmitsZeroPagination(t *testing.T) {
	t.Parallel()

	req := &fmdata.FindRequest{Query: []fmdata.QueryGroup{{Criteria: map[string]string{"a": "1"}}}}

	body := req.Body()

	assert.NotContains(t, body, "offset")
	assert.NotContains(t, body, "limit")
	assert.NotContains(t, body, "sort")
}

func TestListOptionsToValues(t *testing.T) {
	t.Parallel()

	opts := &fmdata.ListOptions{
		Offset: 101,
		Limit:  100,
		Sort:   []fmdata.SortField{{FieldName: "name"}},
	}

	values := opts.ToValues()

	assert.Equal(t, "101", values.Get("_offset"))
	assert.Equal(t, "100", values.Get("_limit"))
	assert.Contains(t, values.Get("_sort"), `"fieldName":"name"`)
}

func TestListOptionsToValues_Empty(t *testing.T) {
	t.Parallel()

	values := (&fmdata.ListOptions{}).ToValues()
	assert.Empty(t, values)

	var nilOpts *fmdata.ListOptions

	assert.Empty(t, nilOpts.ToValues())
}
