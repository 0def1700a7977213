package fmdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

func TestLayoutMetadataFieldLookup(t *testing.T) {
	t.Parallel()

	meta := &fmdata.LayoutMetadata{
		Fields: []fmdata.FieldMetadata{
			{Name: "name", Result: fmdata.ResultText},
			{Name: "qty", Result: fmdata.ResultNumber, MaxRepeat: 3},
		},
	}

	field, ok := meta.Field("qty")
	require.True(t, ok)
	assert.Equal(t, fmdata.ResultNumber, field.Result)

	// Repetition suffix resolves to the base field.
	field, ok = meta.Field("qty(2)")
	require.True(t, ok)
	assert.Equal(t, "qty", field.Name)

	// A parenthesized suffix that is not a repetition does not.
	_, ok = meta.Field("name(draft)")
	assert.False(t, ok)

	_, ok = meta.Field("missing")
	assert.False(t, ok)
}

func TestLayoutMetadataPortalFieldLookup(t *testing.T) {
	t.Parallel()

	meta := &fmdata.LayoutMetadata{
		Portals: map[string][]fmdata.FieldMetadata{
			"Lines": {
				{Name: "Lines::qty", Result: fmdata.ResultNumber},
				{Name: "sku", Result: fmdata.ResultText},
			},
		},
	}

	field, ok := meta.PortalField("Lines", "Lines::qty")
	require.True(t, ok)
	assert.Equal(t, fmdata.ResultNumber, field.Result)

	// A bare row key matches qualified metadata, and vice versa.
	field, ok = meta.PortalField("Lines", "qty")
	require.True(t, ok)
	assert.Equal(t, "Lines::qty", field.Name)

	field, ok = meta.PortalField("Lines", "related_lines::sku")
	require.True(t, ok)
	assert.Equal(t, "sku", field.Name)

	// Qualified keys still resolve repetition suffixes.
	field, ok = meta.PortalField("Lines", "Lines::qty(2)")
	require.True(t, ok)
	assert.Equal(t, "Lines::qty", field.Name)

	_, ok = meta.PortalField("Lines", "Lines::missing")
	assert.False(t, ok)

	_, ok = meta.PortalField("Other", "Lines::qty")
	assert.False(t, ok)
}
