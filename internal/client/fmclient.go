// Package client implements the fmdata.Client interface: the request
// dispatcher, the response parser, and the layout metadata cache.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fmdata-io/fmdata-client/internal/auth"
	"github.com/fmdata-io/fmdata-client/internal/constants"
	fmhttp "github.com/fmdata-io/fmdata-client/internal/http"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// Client implements fmdata.Client for one database/layout pair.
type Client struct {
	config     *fmdata.Config
	session    *auth.SessionManager
	httpClient *fmhttp.Client

	records  *RecordsClient
	scripts  *ScriptsClient
	globals  *GlobalsClient
	metadata *MetadataClient

	// Coercion inputs, fetched once and cached for the client's life.
	formats *fmdata.Formats
	layouts map[string]*fmdata.LayoutMetadata
}

// New creates a client from a validated config. Endpoint normalization
// happens in fmclient.New; this constructor takes the host as-is.
func New(config *fmdata.Config) (*Client, error) {
	if config == nil {
		return nil, fmdata.ErrConfigRequired
	}

	if config.Host == "" {
		return nil, fmdata.ErrHostRequired
	}

	if config.Database == "" {
		return nil, fmdata.ErrDatabaseRequired
	}

	if config.Layout == "" {
		return nil, fmdata.ErrLayoutRequired
	}

	if config.Username == "" {
		return nil, fmdata.ErrUsernameRequired
	}

	httpOpts := httpOptions(config)

	// The session transport carries no token provider; the sessions
	// endpoints authenticate with credentials. Login and logout get a
	// shorter timeout unless the caller set one.
	sessionOpts := httpOpts
	if config.HTTPTimeout == 0 {
		sessionOpts = append(append([]fmhttp.Option{}, httpOpts...), fmhttp.WithTimeout(constants.ShortHTTPTimeout))
	}

	sessionTransport := fmhttp.NewClient(config.Host, nil, sessionOpts...)
	session := auth.NewSessionManager(sessionTransport, config.Database, config.Username, config.Password)

	client := &Client{
		config:     config,
		session:    session,
		httpClient: fmhttp.NewClient(config.Host, session, httpOpts...),
		layouts:    map[string]*fmdata.LayoutMetadata{},
	}

	client.records = &RecordsClient{client: client}
	client.scripts = &ScriptsClient{client: client}
	client.globals = &GlobalsClient{client: client}
	client.metadata = &MetadataClient{client: client}

	return client, nil
}

// httpOptions builds transport options from the config.
func httpOptions(config *fmdata.Config) []fmhttp.Option {
	var opts []fmhttp.Option

	if config.Logger != nil {
		opts = append(opts, fmhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, fmhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, fmhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, fmhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		waitMin := constants.DefaultRetryWaitMin
		waitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			waitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			waitMax = config.RetryWaitMax
		}

		opts = append(opts, fmhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return opts
}

// Login implements fmdata.Client.Login.
func (c *Client) Login(ctx context.Context) error {
	return c.session.Login(ctx)
}

// Logout implements fmdata.Client.Logout.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// Session exposes the session manager for state inspection.
func (c *Client) Session() *auth.SessionManager {
	return c.session
}

// Records implements fmdata.Client.Records.
func (c *Client) Records() fmdata.RecordsClient {
	return c.records
}

// Scripts implements fmdata.Client.Scripts.
func (c *Client) Scripts() fmdata.ScriptsClient {
	return c.scripts
}

// Globals implements fmdata.Client.Globals.
func (c *Client) Globals() fmdata.GlobalsClient {
	return c.globals
}

// Metadata implements fmdata.Client.Metadata.
func (c *Client) Metadata() fmdata.MetadataClient {
	return c.metadata
}

// call sends one dispatcher operation and returns the envelope's
// response section. Service error codes become typed errors; an
// invalid-token code additionally drops the session so the next call
// fails locally with ErrNotAuthenticated.
func (c *Client) call(ctx context.Context, req *fmhttp.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, code, message, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}

	if code == constants.FMErrorInvalidToken {
		c.session.Invalidate()
	}

	if code != constants.FMErrorSuccess {
		return nil, &fmdata.APIError{Code: code, Message: message}
	}

	return raw, nil
}

// recordsPath returns the records collection path for the configured
// layout.
func (c *Client) recordsPath() string {
	return fmt.Sprintf(constants.PathRecords, url.PathEscape(c.config.Database), url.PathEscape(c.config.Layout))
}

// recordPath returns the path of one record.
func (c *Client) recordPath(id int) string {
	return fmt.Sprintf(constants.PathRecordByID, url.PathEscape(c.config.Database), url.PathEscape(c.config.Layout), id)
}

// ensureSchema fetches and caches the coercion inputs for the
// configured layout: the server's date/time patterns and the layout's
// field metadata.
func (c *Client) ensureSchema(ctx context.Context) (fmdata.Formats, *fmdata.LayoutMetadata, error) {
	if c.formats == nil {
		info, err := c.metadata.ProductInfo(ctx)
		if err != nil {
			return fmdata.Formats{}, nil, fmt.Errorf("fetching server formats: %w", err)
		}

		formats := fmdata.FormatsFromProductInfo(info)
		c.formats = &formats
	}

	meta, ok := c.layouts[c.config.Layout]
	if !ok {
		fetched, err := c.metadata.Layout(ctx, c.config.Layout)
		if err != nil {
			return fmdata.Formats{}, nil, fmt.Errorf("fetching layout metadata: %w", err)
		}

		meta = fetched
		c.layouts[c.config.Layout] = meta
	}

	return *c.formats, meta, nil
}

func atoiDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return n
}
