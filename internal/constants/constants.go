package constants

import "time"

// Data API path templates. Database, layout, record id, script name, and
// token are substituted with escaped values.
const (
	PathSessions     = "/fmi/data/v1/databases/%s/sessions"
	PathSessionToken = "/fmi/data/v1/databases/%s/sessions/%s"
	PathRecords      = "/fmi/data/v1/databases/%s/layouts/%s/records"
	PathRecordByID   = "/fmi/data/v1/databases/%s/layouts/%s/records/%d"
	PathFind         = "/fmi/data/v1/databases/%s/layouts/%s/_find"
	PathContainer    = "/fmi/data/v1/databases/%s/layouts/%s/records/%d/containers/%s/%d"
	PathScript       = "/fmi/data/v1/databases/%s/layouts/%s/script/%s"
	PathGlobals      = "/fmi/data/v1/databases/%s/globals"
	PathProductInfo  = "/fmi/data/v1/productinfo"
	PathDatabases    = "/fmi/data/v1/databases"
	PathLayouts      = "/fmi/data/v1/databases/%s/layouts"
	PathScripts      = "/fmi/data/v1/databases/%s/scripts"
	PathLayoutByName = "/fmi/data/v1/databases/%s/layouts/%s"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for Data API requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for login and logout calls.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry bounds for the transport layer. Retries are off unless the caller
// sets Config.RetryMax.
const (
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination defaults. Data API offsets are 1-based.
const (
	DefaultOffset = 1
	DefaultLimit  = 100
)

// FileMaker Server error codes referenced by the client.
const (
	// FMErrorSuccess is the success code carried by every response envelope.
	FMErrorSuccess = 0

	// FMErrorRecordMissing is returned for a get/edit/delete of an unknown record id.
	FMErrorRecordMissing = 101

	// FMErrorFieldMissing is returned when a payload references a field not on the layout.
	FMErrorFieldMissing = 102

	// FMErrorInvalidCredentials is returned for a failed login.
	FMErrorInvalidCredentials = 212

	// FMErrorModificationMismatch is returned when an edit carries a stale modId.
	FMErrorModificationMismatch = 306

	// FMErrorNoRecordsMatch is returned by _find when the query matches nothing.
	FMErrorNoRecordsMatch = 401

	// FMErrorInvalidToken is returned when the session token has expired server-side.
	FMErrorInvalidToken = 952
)
