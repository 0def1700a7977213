package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fmdata-io/fmdata-client/internal/constants"
	fmhttp "github.com/fmdata-io/fmdata-client/internal/http"
)

// GlobalsClient implements fmdata.GlobalsClient.
type GlobalsClient struct {
	client *Client
}

// Set assigns session-scoped global field values. Keys must be fully
// qualified ("Table::field"); values last until logout.
func (c *GlobalsClient) Set(ctx context.Context, globals map[string]interface{}) error {
	path := fmt.Sprintf(constants.PathGlobals, url.PathEscape(c.client.config.Database))

	_, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   map[string]interface{}{"globalFields": globals},
	})
	if err != nil {
		return fmt.Errorf("setting globals: %w", err)
	}

	return nil
}
