package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// newTestClient starts a fake Data API server handling the session,
// product info, and layout metadata endpoints, delegating everything
// else to handler, and returns a logged-in client against it.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/fmi/data/v1/databases/sales/sessions":
			_, _ = w.Write([]byte(`{"response":{"token":"tok1"},"messages":[{"code":"0","message":"OK"}]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/fmi/data/v1/productinfo":
			_, _ = fmt.Fprint(w, `{"response":{"productInfo":{
				"name":"FileMaker Data API Engine",
				"version":"19.6.1",
				"dateFormat":"MM/dd/yyyy",
				"timeFormat":"HH:mm:ss",
				"timeStampFormat":"MM/dd/yyyy HH:mm:ss"
			}},"messages":[{"code":"0","message":"OK"}]}`)
		case r.Method == http.MethodGet && r.URL.Path == "/fmi/data/v1/databases/sales/layouts/orders":
			_, _ = fmt.Fprint(w, `{"response":{
				"fieldMetaData":[
					{"name":"name","type":"normal","result":"text"},
					{"name":"amount","type":"normal","result":"number"},
					{"name":"due","type":"normal","result":"date"},
					{"name":"created","type":"normal","result":"timeStamp"}
				],
				"portalMetaData":{
					"Lines":[{"name":"Lines::qty","type":"normal","result":"number"}]
				}
			},"messages":[{"code":"0","message":"OK"}]}`)
		default:
			handler(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := New(&fmdata.Config{
		Host:     server.URL,
		Database: "sales",
		Layout:   "orders",
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)
	require.NoError(t, client.Login(context.Background()))

	return client, server
}

// envelopeJSON wraps a response section in a success envelope.
func envelopeJSON(response string) string {
	return `{"response":` + response + `,"messages":[{"code":"0","message":"OK"}]}`
}

// errorJSON builds an error envelope for the given service code.
func errorJSON(code int, message string) string {
	return fmt.Sprintf(`{"response":{},"messages":[{"code":"%d","message":"%s"}]}`, code, message)
}
