package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fmdata-io/fmdata-client/internal/constants"
	fmhttp "github.com/fmdata-io/fmdata-client/internal/http"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// MetadataClient implements fmdata.MetadataClient.
type MetadataClient struct {
	client *Client
}

// ProductInfo returns server version and formatting information.
func (c *MetadataClient) ProductInfo(ctx context.Context) (*fmdata.ProductInfo, error) {
	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodGet,
		Path:   constants.PathProductInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("getting product info: %w", err)
	}

	var resp struct {
		ProductInfo fmdata.ProductInfo `json:"productInfo"`
	}

	err = decodeResponseSection(raw, &resp)
	if err != nil {
		return nil, err
	}

	return &resp.ProductInfo, nil
}

// Databases lists the databases hosted by the server that the
// configured credentials can access.
func (c *MetadataClient) Databases(ctx context.Context) ([]string, error) {
	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodGet,
		Path:   constants.PathDatabases,
	})
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}

	var resp struct {
		Databases []struct {
			Name string `json:"name"`
		} `json:"databases"`
	}

	err = decodeResponseSection(raw, &resp)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Databases))
	for _, db := range resp.Databases {
		names = append(names, db.Name)
	}

	return names, nil
}

// Layouts lists the layouts of the configured database.
func (c *MetadataClient) Layouts(ctx context.Context) ([]fmdata.LayoutItem, error) {
	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(constants.PathLayouts, url.PathEscape(c.client.config.Database)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing layouts: %w", err)
	}

	var resp struct {
		Layouts []fmdata.LayoutItem `json:"layouts"`
	}

	err = decodeResponseSection(raw, &resp)
	if err != nil {
		return nil, err
	}

	return resp.Layouts, nil
}

// Scripts lists the scripts of the configured database.
func (c *MetadataClient) Scripts(ctx context.Context) ([]fmdata.ScriptItem, error) {
	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(constants.PathScripts, url.PathEscape(c.client.config.Database)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing scripts: %w", err)
	}

	var resp struct {
		Scripts []fmdata.ScriptItem `json:"scripts"`
	}

	err = decodeResponseSection(raw, &resp)
	if err != nil {
		return nil, err
	}

	return resp.Scripts, nil
}

// Layout returns the field and portal metadata of one layout.
func (c *MetadataClient) Layout(ctx context.Context, name string) (*fmdata.LayoutMetadata, error) {
	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(constants.PathLayoutByName, url.PathEscape(c.client.config.Database), url.PathEscape(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("getting layout metadata for %q: %w", name, err)
	}

	var meta fmdata.LayoutMetadata

	err = decodeResponseSection(raw, &meta)
	if err != nil {
		return nil, err
	}

	return &meta, nil
}
