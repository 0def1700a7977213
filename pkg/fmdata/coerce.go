package fmdata

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// ContainerRef is a reference to a container field's remote object. The
// Data API returns a download URL; the client never fetches it eagerly.
// Pass the reference to RecordsClient.DownloadContainer to retrieve the
// object.
type ContainerRef string

// Filename derives the object's file name from the reference URL.
func (r ContainerRef) Filename() string {
	u, err := url.Parse(string(r))
	if err != nil {
		return ""
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}

	return name
}

// ContainerFile is a downloaded container object.
type ContainerFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Formats holds the Go reference layouts for the wire representation of
// date, time, and timestamp fields. The server reports its patterns in
// product info; they are not fixed.
type Formats struct {
	Date      string
	Time      string
	Timestamp string
}

// DefaultFormats returns the layouts matching the server default
// patterns MM/dd/yyyy, HH:mm:ss, and MM/dd/yyyy HH:mm:ss.
func DefaultFormats() Formats {
	return Formats{
		Date:      "01/02/2006",
		Time:      "15:04:05",
		Timestamp: "01/02/2006 15:04:05",
	}
}

// FormatsFromProductInfo converts the server-reported patterns into Go
// layouts, falling back to defaults for any pattern it cannot convert.
func FormatsFromProductInfo(info *ProductInfo) Formats {
	formats := DefaultFormats()

	if info == nil {
		return formats
	}

	if layout := convertPattern(info.DateFormat); layout != "" {
		formats.Date = layout
	}

	if layout := convertPattern(info.TimeFormat); layout != "" {
		formats.Time = layout
	}

	if layout := convertPattern(info.TimeStampFormat); layout != "" {
		formats.Timestamp = layout
	}

	return formats
}

// patternReplacer maps the server's date pattern tokens to Go layout
// tokens. Replacement is single pass, so emitted digits are not
// rescanned; MM (month) is matched before mm (minute).
var patternReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

func convertPattern(pattern string) string {
	if pattern == "" {
		return ""
	}

	return patternReplacer.Replace(pattern)
}

// CoerceField converts a wire value into its typed form per the field's
// declared result type. Empty strings become nil for non-text results.
// Values that cannot be converted pass through untouched so an odd
// server response never breaks parsing.
func CoerceField(meta FieldMetadata, formats Formats, raw interface{}) interface{} {
	if raw == nil {
		return nil
	}

	switch meta.Result {
	case ResultNumber:
		return coerceNumber(raw)
	case ResultDate:
		return coerceTime(raw, formats.Date)
	case ResultTime:
		return coerceTime(raw, formats.Time)
	case ResultTimestamp:
		return coerceTime(raw, formats.Timestamp)
	case ResultContainer:
		return coerceContainer(raw)
	case ResultText:
		return raw
	default:
		return raw
	}
}

func coerceNumber(raw interface{}) interface{} {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}

		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return raw
		}

		return n
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return raw
		}

		return n
	default:
		return raw
	}
}

func coerceTime(raw interface{}, layout string) interface{} {
	s, ok := raw.(string)
	if !ok {
		return raw
	}

	if s == "" {
		return nil
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return raw
	}

	return t
}

func coerceContainer(raw interface{}) interface{} {
	s, ok := raw.(string)
	if !ok {
		return raw
	}

	if s == "" {
		return nil
	}

	return ContainerRef(s)
}

// EncodeField converts a typed value back into its wire representation.
// It is the inverse of CoerceField for every supported result type.
func EncodeField(meta FieldMetadata, formats Formats, value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		switch meta.Result {
		case ResultTime:
			return v.Format(formats.Time)
		case ResultTimestamp:
			return v.Format(formats.Timestamp)
		default:
			return v.Format(formats.Date)
		}
	case ContainerRef:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return value
	}
}
