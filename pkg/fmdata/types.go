package fmdata

import "strings"

// Message is one entry of the messages section every Data API response
// envelope carries. Code "0" means success.
type Message struct {
	Code    string `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// DataInfo is the envelope section describing a foundset.
type DataInfo struct {
	Database         string `json:"database"         yaml:"database"`
	Layout           string `json:"layout"           yaml:"layout"`
	Table            string `json:"table"            yaml:"table"`
	TotalRecordCount int    `json:"totalRecordCount" yaml:"totalRecordCount"`
	FoundCount       int    `json:"foundCount"       yaml:"foundCount"`
	ReturnedCount    int    `json:"returnedCount"    yaml:"returnedCount"`
}

// ProductInfo describes the server, including the date/time patterns it
// uses on the wire. The patterns drive field coercion and are fetched
// once per client.
type ProductInfo struct {
	Name            string `json:"name"            yaml:"name"`
	BuildDate       string `json:"buildDate"       yaml:"buildDate"`
	Version         string `json:"version"         yaml:"version"`
	DateFormat      string `json:"dateFormat"      yaml:"dateFormat"`
	TimeFormat      string `json:"timeFormat"      yaml:"timeFormat"`
	TimeStampFormat string `json:"timeStampFormat" yaml:"timeStampFormat"`
}

// LayoutItem is one entry of the layout listing. Folders nest.
type LayoutItem struct {
	Name     string       `json:"name"                 yaml:"name"`
	IsFolder bool         `json:"isFolder,omitempty"   yaml:"isFolder,omitempty"`
	Layouts  []LayoutItem `json:"folderLayoutNames,omitempty" yaml:"folderLayoutNames,omitempty"`
}

// ScriptItem is one entry of the script listing.
type ScriptItem struct {
	Name     string       `json:"name"               yaml:"name"`
	IsFolder bool         `json:"isFolder,omitempty" yaml:"isFolder,omitempty"`
	Scripts  []ScriptItem `json:"folderScriptNames,omitempty" yaml:"folderScriptNames,omitempty"`
}

// ScriptResult carries the outcome of a script call. Error 0 means the
// script itself succeeded; Result is the script's textual exit value.
type ScriptResult struct {
	Error  int    `json:"scriptError"  yaml:"scriptError"`
	Result string `json:"scriptResult" yaml:"scriptResult"`
}

// FieldResult is the declared result type of a layout field.
type FieldResult string

// Field result types as reported by layout metadata.
const (
	ResultText      FieldResult = "text"
	ResultNumber    FieldResult = "number"
	ResultDate      FieldResult = "date"
	ResultTime      FieldResult = "time"
	ResultTimestamp FieldResult = "timeStamp"
	ResultContainer FieldResult = "container"
)

// FieldMetadata is the per-field descriptor from layout metadata.
type FieldMetadata struct {
	Name        string      `json:"name"        yaml:"name"`
	Type        string      `json:"type"        yaml:"type"`
	DisplayType string      `json:"displayType" yaml:"displayType"`
	Result      FieldResult `json:"result"      yaml:"result"`
	Global      bool        `json:"global"      yaml:"global"`
	Repetitions int         `json:"repetitions" yaml:"repetitions"`
	MaxRepeat   int         `json:"maxRepeat"   yaml:"maxRepeat"`
}

// LayoutMetadata describes the fields visible on a layout and, per
// portal, the fields of its related table.
type LayoutMetadata struct {
	Fields  []FieldMetadata            `json:"fieldMetaData"  yaml:"fieldMetaData"`
	Portals map[string][]FieldMetadata `json:"portalMetaData" yaml:"portalMetaData"`
}

// Field looks up the metadata for a layout field. Repetition-suffixed
// keys like "qty(2)" resolve to their base field.
func (m *LayoutMetadata) Field(name string) (FieldMetadata, bool) {
	base := baseFieldName(name)
	for _, f := range m.Fields {
		if f.Name == base {
			return f, true
		}
	}

	return FieldMetadata{}, false
}

// PortalField looks up the metadata for a field of a portal's related
// table. Portal row keys are prefixed with the table occurrence name
// ("Related::qty"); both prefixed and bare names match.
func (m *LayoutMetadata) PortalField(portal, name string) (FieldMetadata, bool) {
	fields, ok := m.Portals[portal]
	if !ok {
		return FieldMetadata{}, false
	}

	base := baseFieldName(name)
	for _, f := range fields {
		if f.Name == base {
			return f, true
		}
	}

	// Row keys and metadata do not always agree on the table occurrence
	// qualifier; retry on the unqualified names.
	for _, f := range fields {
		if unqualifiedName(f.Name) == unqualifiedName(base) {
			return f, true
		}
	}

	return FieldMetadata{}, false
}

// unqualifiedName strips a table occurrence qualifier:
// "Lines::qty" -> "qty".
func unqualifiedName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}

	return name
}

// baseFieldName strips a trailing repetition suffix: "qty(2)" -> "qty".
func baseFieldName(name string) string {
	if !strings.HasSuffix(name, ")") {
		return name
	}

	open := strings.LastIndex(name, "(")
	if open <= 0 {
		return name
	}

	rep := name[open+1 : len(name)-1]
	if rep == "" {
		return name
	}

	for _, c := range rep {
		if c < '0' || c > '9' {
			return name
		}
	}

	return name[:open]
}
