package fmdata

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Sort orders accepted by the Data API.
const (
	SortAscend  = "ascend"
	SortDescend = "descend"
)

// SortField is one element of a sort specification.
type SortField struct {
	FieldName string `json:"fieldName"           yaml:"fieldName"`
	SortOrder string `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// QueryGroup is one OR-branch of a find request: an AND-combination of
// field criteria, optionally negated. Groups with Omit set remove their
// matches from the foundset instead of adding them.
type QueryGroup struct {
	Criteria map[string]string
	Omit     bool
}

// MarshalJSON renders the group in the request shape the server
// expects: the criteria flattened into one object plus an "omit" flag.
func (g QueryGroup) MarshalJSON() ([]byte, error) {
	obj := make(map[string]string, len(g.Criteria)+1)
	for field, criterion := range g.Criteria {
		obj[field] = criterion
	}

	if g.Omit {
		obj["omit"] = "true"
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// FindRequest describes a _find call: a sequence of OR-groups plus
// sort order and pagination. Offset is 1-based; zero values fall back
// to the server defaults.
type FindRequest struct {
	Query  []QueryGroup
	Sort   []SortField
	Offset int
	Limit  int
}

// Body builds the JSON body for the _find endpoint. Offset and limit
// are sent as strings, matching the documented request shape.
func (r *FindRequest) Body() map[string]interface{} {
	body := map[string]interface{}{
		"query": r.Query,
	}

	if len(r.Sort) > 0 {
		body["sort"] = r.Sort
	}

	if r.Offset > 0 {
		body["offset"] = strconv.Itoa(r.Offset)
	}

	if r.Limit > 0 {
		body["limit"] = strconv.Itoa(r.Limit)
	}

	return body
}

// ListOptions describes a record listing: pagination plus sort order.
type ListOptions struct {
	Offset int
	Limit  int
	Sort   []SortField
}

// ToValues builds the query parameters for the records endpoint.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}

	if o == nil {
		return values
	}

	if o.Offset > 0 {
		values.Set("_offset", strconv.Itoa(o.Offset))
	}

	if o.Limit > 0 {
		values.Set("_limit", strconv.Itoa(o.Limit))
	}

	if len(o.Sort) > 0 {
		sort, err := json.Marshal(o.Sort)
		if err == nil {
			values.Set("_sort", string(sort))
		}
	}

	return values
}
