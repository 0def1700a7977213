package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

func TestMetadataProductInfo(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	info, err := client.Metadata().ProductInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "FileMaker Data API Engine", info.Name)
	assert.Equal(t, "19.6.1", info.Version)
	assert.Equal(t, "MM/dd/yyyy", info.DateFormat)
}

func TestMetadataDatabases(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fmi/data/v1/databases", r.URL.Path)
		_, _ = fmt.Fprint(w, envelopeJSON(`{"databases":[{"name":"sales"},{"name":"inventory"}]}`))
	})

	databases, err := client.Metadata().Databases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "inventory"}, databases)
}

func TestMetadataLayouts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fmi/data/v1/databases/sales/layouts", r.URL.Path)
		_, _ = fmt.Fprint(w, envelopeJSON(`{"layouts":[
			{"name":"orders"},
			{"name":"Admin","isFolder":true,"folderLayoutNames":[{"name":"audit"}]}
		]}`))
	})

	layouts, err := client.Metadata().Layouts(context.Background())
	require.NoError(t, err)
	require.Len(t, layouts, 2)

	assert.Equal(t, "orders", layouts[0].Name)
	assert.True(t, layouts[1].IsFolder)
	require.Len(t, layouts[1].Layouts, 1)
	assert.Equal(t, "audit", layouts[1].Layouts[0].Name)
}

func TestMetadataScripts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fmi/data/v1/databases/sales/scripts", r.URL.Path)
		_, _ = fmt.Fprint(w, envelopeJSON(`{"scripts":[{"name":"nightly sync"}]}`))
	})

	scripts, err := client.Metadata().Scripts(context.Background())
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, "nightly sync", scripts[0].Name)
}

func TestMetadataLayout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	meta, err := client.Metadata().Layout(context.Background(), "orders")
	require.NoError(t, err)

	field, ok := meta.Field("amount")
	require.True(t, ok)
	assert.Equal(t, fmdata.ResultNumber, field.Result)

	portalField, ok := meta.PortalField("Lines", "Lines::qty")
	require.True(t, ok)
	assert.Equal(t, fmdata.ResultNumber, portalField.Result)
}

func TestScriptsPerform(t *testing.T) {
	var body map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fmi/data/v1/databases/sales/layouts/orders/script/nightly%20sync", r.URL.EscapedPath())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = fmt.Fprint(w, envelopeJSON(`{"scriptError":"0","scriptResult":"42 rows"}`))
	})

	result, err := client.Scripts().Perform(context.Background(), "nightly sync", "full")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Error)
	assert.Equal(t, "42 rows", result.Result)
	assert.Equal(t, "full", body["script.param"])
}

func TestScriptsPerformScriptErrorIsNotClientError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, envelopeJSON(`{"scriptError":"401","scriptResult":""}`))
	})

	result, err := client.Scripts().Perform(context.Background(), "lookup", "")
	require.NoError(t, err)
	assert.Equal(t, 401, result.Error)
}

func TestGlobalsSet(t *testing.T) {
	var body map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/fmi/data/v1/databases/sales/globals", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = fmt.Fprint(w, envelopeJSON(`{}`))
	})

	err := client.Globals().Set(context.Background(), map[string]interface{}{
		"orders::gRegion": "EMEA",
	})
	require.NoError(t, err)

	globals, ok := body["globalFields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "EMEA", globals["orders::gRegion"])
}

func TestGlobalsSetFieldMissing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, errorJSON(102, "Field is missing"))
	})

	err := client.Globals().Set(context.Background(), map[string]interface{}{"orders::nope": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, fmdata.ErrFieldMissing)
}
