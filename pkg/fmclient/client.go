// Package fmclient provides the public constructor for a FileMaker
// Data API client.
package fmclient

import (
	"strings"

	"github.com/fmdata-io/fmdata-client/internal/client"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// New creates a Data API client for the database and layout named in
// the config. The host is normalized: a trailing slash is trimmed and
// "https://" is assumed when no scheme is given.
func New(config *fmdata.Config) (fmdata.Client, error) {
	if config == nil {
		return nil, fmdata.ErrConfigRequired
	}

	normalized := *config
	normalized.Host = normalizeHost(config.Host)

	return client.New(&normalized)
}

func normalizeHost(host string) string {
	host = strings.TrimRight(host, "/")

	if host != "" && !strings.Contains(host, "://") {
		host = "https://" + host
	}

	return host
}
