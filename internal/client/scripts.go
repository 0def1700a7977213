package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fmdata-io/fmdata-client/internal/constants"
	fmhttp "github.com/fmdata-io/fmdata-client/internal/http"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// ScriptsClient implements fmdata.ScriptsClient.
type ScriptsClient struct {
	client *Client
}

// scriptResponse is the response section of a script call. The service
// reports the script outcome as strings.
type scriptResponse struct {
	ScriptError  string `json:"scriptError"`
	ScriptResult string `json:"scriptResult"`
}

// Perform runs a script in the context of the configured layout. The
// script's own error code is carried in the result, not surfaced as a
// client error: a script exiting non-zero is still a completed call.
func (c *ScriptsClient) Perform(ctx context.Context, name, param string) (*fmdata.ScriptResult, error) {
	path := fmt.Sprintf(constants.PathScript,
		url.PathEscape(c.client.config.Database),
		url.PathEscape(c.client.config.Layout),
		url.PathEscape(name))

	body := map[string]interface{}{}
	if param != "" {
		body["script.param"] = param
	}

	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("performing script %q: %w", name, err)
	}

	var resp scriptResponse

	err = decodeResponseSection(raw, &resp)
	if err != nil {
		return nil, err
	}

	scriptErr, err := strconv.Atoi(resp.ScriptError)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric script error %q", fmdata.ErrParse, resp.ScriptError)
	}

	return &fmdata.ScriptResult{Error: scriptErr, Result: resp.ScriptResult}, nil
}
