package fmdata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

func TestFormatsFromProductInfo(t *testing.T) {
	t.Parallel()

	info := &fmdata.ProductInfo{
		DateFormat:      "MM/dd/yyyy",
		TimeFormat:      "HH:mm:ss",
		TimeStampFormat: "MM/dd/yyyy HH:mm:ss",
	}

	formats := fmdata.FormatsFromProductInfo(info)
	assert.Equal(t, "01/02/2006", formats.Date)
	assert.Equal(t, "15:04:05", formats.Time)
	assert.Equal(t, "01/02/2006 15:04:05", formats.Timestamp)
}

func TestFormatsFromProductInfo_EuropeanPatterns(t *testing.T) {
	t.Parallel()

	info := &fmdata.ProductInfo{
		DateFormat:      "dd.MM.yyyy",
		TimeFormat:      "HH:mm:ss",
		TimeStampFormat: "dd.MM.yyyy HH:mm:ss",
	}

	formats := fmdata.FormatsFromProductInfo(info)
	assert.Equal(t, "02.01.2006", formats.Date)
	assert.Equal(t, "02.01.2006 15:04:05", formats.Timestamp)
}

func TestFormatsFromProductInfo_NilFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	formats := fmdata.FormatsFromProductInfo(nil)
	assert.Equal(t, fmdata.DefaultFormats(), formats)
}

func TestCoerceField_Number(t *testing.T) {
	t.Parallel()

	meta := fmdata.FieldMetadata{Name: "amount", Result: fmdata.ResultNumber}
	formats := fmdata.DefaultFormats()

	assert.InDelta(t, 42.5, fmdata.CoerceField(meta, formats, "42.5"), 0.0001)
	assert.InDelta(t, float64(7), fmdata.CoerceField(meta, formats, float64(7)), 0.0001)
	assert.Nil(t, fmdata.CoerceField(meta, formats, ""))
}

func TestCoerceField_NumberUnparseablePassesThrough(t *testing.T) {
	t.Parallel()

	meta := fmdata.FieldMetadata{Name: "amount", Result: fmdata.ResultNumber}

	value := fmdata.CoerceField(meta, fmdata.DefaultFormats(), "n/a")
	assert.Equal(t, "n/a", value)
}

func TestCoerceField_Date(t *testing.T) {
	t.Parallel()

	meta := fmdata.FieldMetadata{Name: "due", Result: fmdata.ResultDate}

	value := fmdata.CoerceField(meta, fmdata.DefaultFormats(), "03/15/2024")

	parsed, ok := value.(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
}

func TestCoerceField_Timestamp(t *testing.T) {
	t.Parallel()

	meta := fmdata.FieldMetadata{Name: "created", Result: fmdata.ResultTimestamp}

	value := fmdata.CoerceField(meta, fmdata.DefaultFormats(), "03/15/2024 09:30:00")

	parsed, ok := value.(time.Time)
	require.True(t, ok)
	assert.Equal(t, 9, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())
}

func TestCoerceField_EmptyNonTextBecomesNil(t *testing.T) {
	t.Parallel()

	formats := fmdata.DefaultFormats()

	for _, result := range []fmdata.FieldResult{
		fmdata.ResultNumber,
		fmdata.ResultDate,
		fmdata.ResultTime,
		fmdata.ResultTimestamp,
		fmdata.ResultContainer,
	} {
		meta := fmdata.FieldMetadata{Name: "f", Result: result}
		assert.Nil(t, fmdata.CoerceField(meta, formats, ""), "result type %s", result)
	}
}

func TestCoerceField_EmptyTextStaysText(t *testing.T) {
	t.Parallel()

	meta := fmdata.FieldMetadata{Name: "note", Result: fmdata.ResultText}

	value := fmdata.CoerceField(meta, fmdata.DefaultFormats(), "")
	assert.Equal(t, "", value)
}

func TestCoerceField_Container(t *testing.T) {
	t.Parallel()

	meta := fmdata.FieldMetadata{Name: "attachment", Result: fmdata.ResultContainer}

	value := fmdata.CoerceField(meta, fmdata.DefaultFormats(), "https://fms.example.com/Streaming_SSL/file.pdf")

	ref, ok := value.(fmdata.ContainerRef)
	require.True(t, ok)
	assert.Contains(t, string(ref), "file.pdf")
}

func TestContainerRefFilename(t *testing.T) {
	t.Parallel()

	ref := fmdata.ContainerRef("https://fms.example.com/Streaming_SSL/MainDB/invoice%202024.pdf?RCType=EmbeddedRCFileProcessor")
	assert.Equal(t, "invoice 2024.pdf", ref.Filename())

	assert.Equal(t, "", fmdata.ContainerRef("https://fms.example.com/").Filename())
	assert.Equal(t, "", fmdata.ContainerRef("").Filename())
}

func TestEncodeField_RoundTrip(t *testing.T) {
	t.Parallel()

	formats := fmdata.DefaultFormats()

	dateMeta := fmdata.FieldMetadata{Name: "due", Result: fmdata.ResultDate}
	coerced := fmdata.CoerceField(dateMeta, formats, "03/15/2024")
	assert.Equal(t, "03/15/2024", fmdata.EncodeField(dateMeta, formats, coerced))

	numMeta := fmdata.FieldMetadata{Name: "amount", Result: fmdata.ResultNumber}
	assert.Equal(t, "42.5", fmdata.EncodeField(numMeta, formats, 42.5))

	assert.Equal(t, "", fmdata.EncodeField(numMeta, formats, nil))
}

func TestEncodeField_TimestampUsesTimestampLayout(t *testing.T) {
	t.Parallel()

	formats := fmdata.DefaultFormats()
	meta := fmdata.FieldMetadata{Name: "created", Result: fmdata.ResultTimestamp}

	at := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "03/15/2024 09:30:00", fmdata.EncodeField(meta, formats, at))
}
