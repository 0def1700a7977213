package fmdata

import (
	"context"
	"io"
	"time"
)

// Client is the entry point to a FileMaker Data API database. One
// client owns one logical session; callers sharing a client across
// goroutines must serialize login/logout themselves.
type Client interface {
	// Login acquires a session token for the configured database.
	// Logging in while a session is active discards the previous
	// token locally before attempting the new login.
	Login(ctx context.Context) error

	// Logout releases the session token. Local state is cleared even
	// when the remote call fails; the caller's intent is to discard
	// the credential.
	Logout(ctx context.Context) error

	Records() RecordsClient
	Scripts() ScriptsClient
	Globals() GlobalsClient
	Metadata() MetadataClient
}

// RecordsClient covers record-level operations on the configured layout.
type RecordsClient interface {
	Get(ctx context.Context, id int) (*Record, error)
	List(ctx context.Context, opts *ListOptions) (*Foundset, error)
	Find(ctx context.Context, req *FindRequest) (*Foundset, error)
	Create(ctx context.Context, fields map[string]interface{}) (int, error)
	CreateWithPortals(ctx context.Context, fields map[string]interface{}, portals map[string][]map[string]interface{}) (int, error)
	Edit(ctx context.Context, id, modID int, fields map[string]interface{}) (int, error)
	Delete(ctx context.Context, id int) error

	// UploadContainer stores a file in a container field of the given
	// record. Repetition is 1-based; pass 1 for non-repeating fields.
	UploadContainer(ctx context.Context, id int, field string, repetition int, filename string, content io.Reader) error

	// DownloadContainer fetches the object behind a container
	// reference, as read from a coerced container field.
	DownloadContainer(ctx context.Context, ref ContainerRef) (*ContainerFile, error)
}

// ScriptsClient runs layout scripts.
type ScriptsClient interface {
	Perform(ctx context.Context, name, param string) (*ScriptResult, error)
}

// GlobalsClient sets session-scoped global fields.
type GlobalsClient interface {
	Set(ctx context.Context, globals map[string]interface{}) error
}

// MetadataClient covers the read-only metadata endpoints.
type MetadataClient interface {
	ProductInfo(ctx context.Context) (*ProductInfo, error)
	Databases(ctx context.Context) ([]string, error)
	Layouts(ctx context.Context) ([]LayoutItem, error)
	Scripts(ctx context.Context) ([]ScriptItem, error)
	Layout(ctx context.Context, name string) (*LayoutMetadata, error)
}

// Logger is the structured logging interface used by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config describes a client for one database and layout.
//
// Host is the server base URL (e.g. "https://fms.example.com");
// fmclient.New normalizes it by trimming a trailing slash and adding
// "https://" when no scheme is present. Username and Password are
// owned by the session for the client's lifetime and used only for
// the sessions endpoint.
//
// Per-request timeouts are controlled through the context passed to
// client methods; HTTPTimeout is the transport-level ceiling. Retries
// apply to transport failures (connection errors, 5xx, 429) only and
// are off unless RetryMax is set; service-level failures are never
// retried by the client.
type Config struct {
	Host     string
	Database string
	Layout   string
	Username string
	Password string

	HTTPTimeout  time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables request/response logging when a Logger is set.
	Debug     bool
	Logger    Logger
	UserAgent string
}
