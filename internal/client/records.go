package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fmdata-io/fmdata-client/internal/constants"
	fmhttp "github.com/fmdata-io/fmdata-client/internal/http"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// RecordsClient implements fmdata.RecordsClient and serves as the
// record backend for Commit/Reload/Delete.
type RecordsClient struct {
	client *Client
}

// Get implements fmdata.RecordsClient.Get.
func (c *RecordsClient) Get(ctx context.Context, id int) (*fmdata.Record, error) {
	formats, meta, err := c.client.ensureSchema(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodGet,
		Path:   c.client.recordPath(id),
	})
	if err != nil {
		return nil, fmt.Errorf("getting record %d: %w", id, err)
	}

	resp, err := decodeRecordsResponse(raw)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: record response carries no data", fmdata.ErrParse)
	}

	return parseRecord(resp.Data[0], formats, meta, c)
}

// List implements fmdata.RecordsClient.List. The returned foundset
// fetches further pages on demand using the same sort order.
func (c *RecordsClient) List(ctx context.Context, opts *fmdata.ListOptions) (*fmdata.Foundset, error) {
	if opts == nil {
		opts = &fmdata.ListOptions{}
	}

	offset := opts.Offset
	if offset <= 0 {
		offset = constants.DefaultOffset
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = constants.DefaultLimit
	}

	records, info, err := c.listPage(ctx, offset, limit, opts.Sort)
	if err != nil {
		return nil, err
	}

	sort := opts.Sort
	fetch := func(ctx context.Context, pageOffset, pageLimit int) ([]*fmdata.Record, error) {
		page, _, err := c.listPage(ctx, pageOffset, pageLimit, sort)

		return page, err
	}

	return fmdata.NewFoundset(records, info, offset, limit, fetch), nil
}

func (c *RecordsClient) listPage(ctx context.Context, offset, limit int, sort []fmdata.SortField) ([]*fmdata.Record, fmdata.DataInfo, error) {
	formats, meta, err := c.client.ensureSchema(ctx)
	if err != nil {
		return nil, fmdata.DataInfo{}, err
	}

	opts := &fmdata.ListOptions{Offset: offset, Limit: limit, Sort: sort}

	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodGet,
		Path:   c.client.recordsPath(),
		Query:  opts.ToValues(),
	})
	if err != nil {
		return nil, fmdata.DataInfo{}, fmt.Errorf("listing records: %w", err)
	}

	resp, err := decodeRecordsResponse(raw)
	if err != nil {
		return nil, fmdata.DataInfo{}, err
	}

	records, err := parseFoundsetPage(resp, formats, meta, c)
	if err != nil {
		return nil, fmdata.DataInfo{}, err
	}

	return records, resp.DataInfo, nil
}

// Find implements fmdata.RecordsClient.Find. A query matching nothing
// yields an empty foundset; a malformed query surfaces as a service
// error.
func (c *RecordsClient) Find(ctx context.Context, req *fmdata.FindRequest) (*fmdata.Foundset, error) {
	if req == nil || len(req.Query) == 0 {
		return nil, fmdata.ErrEmptyQuery
	}

	offset := req.Offset
	if offset <= 0 {
		offset = constants.DefaultOffset
	}

	limit := req.Limit
	if limit <= 0 {
		limit = constants.DefaultLimit
	}

	records, info, err := c.findPage(ctx, req, offset, limit)
	if err != nil {
		if fmdata.IsNoMatch(err) {
			return fmdata.NewFoundset(nil, fmdata.DataInfo{}, offset, limit, nil), nil
		}

		return nil, err
	}

	fetch := func(ctx context.Context, pageOffset, pageLimit int) ([]*fmdata.Record, error) {
		page, _, err := c.findPage(ctx, req, pageOffset, pageLimit)
		if err != nil && fmdata.IsNoMatch(err) {
			return nil, nil
		}

		return page, err
	}

	return fmdata.NewFoundset(records, info, offset, limit, fetch), nil
}

func (c *RecordsClient) findPage(ctx context.Context, req *fmdata.FindRequest, offset, limit int) ([]*fmdata.Record, fmdata.DataInfo, error) {
	formats, meta, err := c.client.ensureSchema(ctx)
	if err != nil {
		return nil, fmdata.DataInfo{}, err
	}

	page := &fmdata.FindRequest{Query: req.Query, Sort: req.Sort, Offset: offset, Limit: limit}

	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf(constants.PathFind, url.PathEscape(c.client.config.Database), url.PathEscape(c.client.config.Layout)),
		Body:   page.Body(),
	})
	if err != nil {
		return nil, fmdata.DataInfo{}, err
	}

	resp, err := decodeRecordsResponse(raw)
	if err != nil {
		return nil, fmdata.DataInfo{}, err
	}

	records, err := parseFoundsetPage(resp, formats, meta, c)
	if err != nil {
		return nil, fmdata.DataInfo{}, err
	}

	return records, resp.DataInfo, nil
}

// Create implements fmdata.RecordsClient.Create and returns the new
// record's id.
func (c *RecordsClient) Create(ctx context.Context, fields map[string]interface{}) (int, error) {
	return c.CreateWithPortals(ctx, fields, nil)
}

// CreateWithPortals creates a record together with related portal
// rows in one call.
func (c *RecordsClient) CreateWithPortals(ctx context.Context, fields map[string]interface{}, portals map[string][]map[string]interface{}) (int, error) {
	formats, meta, err := c.client.ensureSchema(ctx)
	if err != nil {
		return 0, err
	}

	body := map[string]interface{}{
		"fieldData": encodeFields(fields, formats, meta),
	}

	if len(portals) > 0 {
		body["portalData"] = portals
	}

	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodPost,
		Path:   c.client.recordsPath(),
		Body:   body,
	})
	if err != nil {
		return 0, fmt.Errorf("creating record: %w", err)
	}

	var resp mutationResponse

	err = decodeResponseSection(raw, &resp)
	if err != nil {
		return 0, err
	}

	id, err := strconv.Atoi(resp.RecordID)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric record id %q", fmdata.ErrParse, resp.RecordID)
	}

	return id, nil
}

// Edit implements fmdata.RecordsClient.Edit. The caller-supplied
// modification id rides along so a concurrent edit surfaces as a
// conflict; the new modification id is returned.
func (c *RecordsClient) Edit(ctx context.Context, id, modID int, fields map[string]interface{}) (int, error) {
	formats, meta, err := c.client.ensureSchema(ctx)
	if err != nil {
		return 0, err
	}

	body := map[string]interface{}{
		"fieldData": encodeFields(fields, formats, meta),
		"modId":     strconv.Itoa(modID),
	}

	raw, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodPatch,
		Path:   c.client.recordPath(id),
		Body:   body,
	})
	if err != nil {
		return 0, fmt.Errorf("editing record %d: %w", id, err)
	}

	var resp mutationResponse

	err = decodeResponseSection(raw, &resp)
	if err != nil {
		return 0, err
	}

	newModID, err := strconv.Atoi(resp.ModID)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric modification id %q", fmdata.ErrParse, resp.ModID)
	}

	return newModID, nil
}

// UploadContainer implements fmdata.RecordsClient.UploadContainer. The
// file goes up as the "upload" part of a multipart form, matching what
// the container endpoint expects.
func (c *RecordsClient) UploadContainer(ctx context.Context, id int, field string, repetition int, filename string, content io.Reader) error {
	if repetition <= 0 {
		repetition = 1
	}

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("upload", filename)
	if err != nil {
		return fmt.Errorf("building upload body: %w", err)
	}

	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("reading upload content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("building upload body: %w", err)
	}

	path := fmt.Sprintf(constants.PathContainer,
		url.PathEscape(c.client.config.Database), url.PathEscape(c.client.config.Layout),
		id, url.PathEscape(field), repetition)

	_, err = c.client.call(ctx, &fmhttp.Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     &buf,
		ContentType: writer.FormDataContentType(),
	})
	if err != nil {
		return fmt.Errorf("uploading to container field %q of record %d: %w", field, id, err)
	}

	return nil
}

// DownloadContainer implements fmdata.RecordsClient.DownloadContainer.
// The reference URL carries its own access token and bypasses the
// session, so an expired session does not block the download.
func (c *RecordsClient) DownloadContainer(ctx context.Context, ref fmdata.ContainerRef) (*fmdata.ContainerFile, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty container reference", fmdata.ErrContainerDownload)
	}

	resp, err := c.client.httpClient.GetURL(ctx, string(ref))
	if err != nil {
		return nil, fmt.Errorf("downloading container object: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: server returned status %d", fmdata.ErrContainerDownload, resp.StatusCode)
	}

	return &fmdata.ContainerFile{
		Name:        ref.Filename(),
		ContentType: resp.Headers.Get("Content-Type"),
		Data:        resp.Body,
	}, nil
}

// Delete implements fmdata.RecordsClient.Delete.
func (c *RecordsClient) Delete(ctx context.Context, id int) error {
	_, err := c.client.call(ctx, &fmhttp.Request{
		Method: http.MethodDelete,
		Path:   c.client.recordPath(id),
	})
	if err != nil {
		return fmt.Errorf("deleting record %d: %w", id, err)
	}

	return nil
}

// GetRecord implements fmdata.RecordBackend.
func (c *RecordsClient) GetRecord(ctx context.Context, id int) (*fmdata.Record, error) {
	return c.Get(ctx, id)
}

// EditRecord implements fmdata.RecordBackend.
func (c *RecordsClient) EditRecord(ctx context.Context, id, modID int, fields map[string]interface{}) (int, error) {
	return c.Edit(ctx, id, modID, fields)
}

// DeleteRecord implements fmdata.RecordBackend.
func (c *RecordsClient) DeleteRecord(ctx context.Context, id int) error {
	return c.Delete(ctx, id)
}

// encodeFields converts typed values back to their wire form. Fields
// without metadata go through unchanged.
func encodeFields(fields map[string]interface{}, formats fmdata.Formats, meta *fmdata.LayoutMetadata) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))

	for name, value := range fields {
		if fm, ok := meta.Field(name); ok {
			out[name] = fmdata.EncodeField(fm, formats, value)
		} else {
			out[name] = value
		}
	}

	return out
}
