package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// envelope is the outer shape of every Data API response.
type envelope struct {
	Response json.RawMessage  `json:"response"`
	Messages []fmdata.Message `json:"messages"`
}

// decodeEnvelope splits a raw body into the response section and the
// leading message code. A missing or malformed envelope is fatal;
// silently producing an empty result here would let a caller mutate
// state based on wrong data.
func decodeEnvelope(body []byte) (json.RawMessage, int, string, error) {
	var env envelope

	err := json.Unmarshal(body, &env)
	if err != nil {
		return nil, 0, "", fmt.Errorf("%w: %v", fmdata.ErrParse, err)
	}

	if len(env.Messages) == 0 {
		return nil, 0, "", fmt.Errorf("%w: missing messages section", fmdata.ErrParse)
	}

	code, err := strconv.Atoi(env.Messages[0].Code)
	if err != nil {
		return nil, 0, "", fmt.Errorf("%w: non-numeric message code %q", fmdata.ErrParse, env.Messages[0].Code)
	}

	return env.Response, code, env.Messages[0].Message, nil
}

// recordData is one element of the response's data section.
type recordData struct {
	FieldData      map[string]interface{}            `json:"fieldData"`
	PortalData     map[string][]map[string]interface{} `json:"portalData"`
	PortalDataInfo []portalDataInfo                  `json:"portalDataInfo"`
	RecordID       string                            `json:"recordId"`
	ModID          string                            `json:"modId"`
}

// portalDataInfo describes one portal's foundset. A portal is
// identified by its object name or, failing that, its table
// occurrence name.
type portalDataInfo struct {
	fmdata.DataInfo

	PortalObjectName string `json:"portalObjectName"`
}

// recordsResponse is the response section of record read operations.
type recordsResponse struct {
	Data     []recordData    `json:"data"`
	DataInfo fmdata.DataInfo `json:"dataInfo"`
}

// mutationResponse is the response section of create and edit calls.
type mutationResponse struct {
	RecordID string `json:"recordId"`
	ModID    string `json:"modId"`
}

// decodeResponseSection parses the response section into dst.
func decodeResponseSection(raw json.RawMessage, dst interface{}) error {
	err := json.Unmarshal(raw, dst)
	if err != nil {
		return fmt.Errorf("%w: %v", fmdata.ErrParse, err)
	}

	return nil
}

// decodeRecordsResponse parses the response section of a record read.
func decodeRecordsResponse(raw json.RawMessage) (*recordsResponse, error) {
	var resp recordsResponse

	err := json.Unmarshal(raw, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fmdata.ErrParse, err)
	}

	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing data section", fmdata.ErrParse)
	}

	return &resp, nil
}

// parseRecord turns one data element into a Record: field coercion
// per layout metadata, portal rows nested as their own records.
// Unknown fields pass through uncoerced rather than failing.
func parseRecord(rd recordData, formats fmdata.Formats, meta *fmdata.LayoutMetadata, backend fmdata.RecordBackend) (*fmdata.Record, error) {
	id, err := strconv.Atoi(rd.RecordID)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric record id %q", fmdata.ErrParse, rd.RecordID)
	}

	modID := atoiDefault(rd.ModID, 0)

	fields := make(map[string]interface{}, len(rd.FieldData))

	for name, raw := range rd.FieldData {
		if fm, ok := meta.Field(name); ok {
			fields[name] = fmdata.CoerceField(fm, formats, raw)
		} else {
			fields[name] = raw
		}
	}

	var portals map[string]*fmdata.Foundset

	if len(rd.PortalData) > 0 {
		portals = make(map[string]*fmdata.Foundset, len(rd.PortalData))

		infoByPortal := make(map[string]fmdata.DataInfo, len(rd.PortalDataInfo))
		for _, info := range rd.PortalDataInfo {
			name := info.PortalObjectName
			if name == "" {
				name = info.Table
			}

			infoByPortal[name] = info.DataInfo
		}

		for name, rows := range rd.PortalData {
			related, err := parsePortalRows(name, rows, formats, meta)
			if err != nil {
				return nil, err
			}

			portals[name] = fmdata.NewPortalFoundset(related, infoByPortal[name])
		}
	}

	return fmdata.NewRecord(id, modID, fields, portals, backend), nil
}

// parsePortalRows builds the nested records of one portal. Portal rows
// carry a recordId scoped to the related table and no modId; their
// fields coerce against the portal's own metadata.
func parsePortalRows(portal string, rows []map[string]interface{}, formats fmdata.Formats, meta *fmdata.LayoutMetadata) ([]*fmdata.Record, error) {
	records := make([]*fmdata.Record, 0, len(rows))

	for _, row := range rows {
		id := 0
		modID := 0
		fields := make(map[string]interface{}, len(row))

		for name, raw := range row {
			switch name {
			case "recordId":
				if s, ok := raw.(string); ok {
					id = atoiDefault(s, 0)
				}
			case "modId":
				if s, ok := raw.(string); ok {
					modID = atoiDefault(s, 0)
				}
			default:
				if fm, ok := meta.PortalField(portal, name); ok {
					fields[name] = fmdata.CoerceField(fm, formats, raw)
				} else {
					fields[name] = raw
				}
			}
		}

		records = append(records, fmdata.NewRecord(id, modID, fields, nil, nil))
	}

	return records, nil
}

// parseFoundsetPage parses every record of a read response.
func parseFoundsetPage(resp *recordsResponse, formats fmdata.Formats, meta *fmdata.LayoutMetadata, backend fmdata.RecordBackend) ([]*fmdata.Record, error) {
	records := make([]*fmdata.Record, 0, len(resp.Data))

	for _, rd := range resp.Data {
		record, err := parseRecord(rd, formats, meta, backend)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
