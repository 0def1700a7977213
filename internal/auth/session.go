// Package auth owns the session token lifecycle for one Data API
// database: acquisition, reuse, and invalidation.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	fmhttp "github.com/fmdata-io/fmdata-client/internal/http"

	"github.com/fmdata-io/fmdata-client/internal/constants"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// State is the session token state.
type State int

// Session states. There is no separate expired state: server-side
// expiry drops the session back to StateNoToken.
const (
	StateNoToken State = iota
	StateValid
)

// SessionManager holds the current access token and the credentials
// used to obtain it. It performs its own login/logout HTTP calls and
// serves as the token provider for the dispatcher's transport. Not
// safe for concurrent state transitions; callers serialize
// login/logout themselves.
type SessionManager struct {
	database  string
	username  string
	password  string
	transport *fmhttp.Client

	token string
	state State
}

// NewSessionManager creates a session manager for one database. The
// transport must not have a token provider; session endpoints
// authenticate with credentials, not tokens.
func NewSessionManager(transport *fmhttp.Client, database, username, password string) *SessionManager {
	return &SessionManager{
		database:  database,
		username:  username,
		password:  password,
		transport: transport,
	}
}

// State returns the current token state.
func (s *SessionManager) State() State {
	return s.state
}

// Token returns the current access token. It implements the
// transport's TokenProvider and fails without a network call when no
// valid session exists.
func (s *SessionManager) Token(ctx context.Context) (string, error) {
	if s.state != StateValid {
		return "", fmdata.ErrNotAuthenticated
	}

	return s.token, nil
}

// Invalidate drops the token locally. The dispatcher calls this when
// the server reports the token invalid, so the next call fails with
// ErrNotAuthenticated instead of going to the network.
func (s *SessionManager) Invalidate() {
	s.token = ""
	s.state = StateNoToken
}

// sessionEnvelope is the response shape of the sessions endpoints.
type sessionEnvelope struct {
	Response struct {
		Token string `json:"token"`
	} `json:"response"`
	Messages []fmdata.Message `json:"messages"`
}

// Login acquires a new session token using basic authentication. An
// existing token is discarded locally first so a failed re-login
// never leaves a half-valid session behind.
func (s *SessionManager) Login(ctx context.Context) error {
	if s.state == StateValid {
		s.Invalidate()
	}

	path := fmt.Sprintf(constants.PathSessions, url.PathEscape(s.database))
	basic := base64.StdEncoding.EncodeToString([]byte(s.username + ":" + s.password))

	resp, err := s.transport.Do(ctx, &fmhttp.Request{
		Method:  "POST",
		Path:    path,
		Headers: map[string]string{"Authorization": "Basic " + basic},
		Body:    map[string]interface{}{"fmDataSource": []interface{}{}},
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	envelope, err := decodeSessionEnvelope(resp.Body)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	code, err := messageCode(envelope.Messages)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if code != constants.FMErrorSuccess {
		return fmt.Errorf("login: %w", &fmdata.APIError{Code: code, Message: envelope.Messages[0].Message})
	}

	if envelope.Response.Token == "" {
		return fmt.Errorf("login: %w: response carries no token", fmdata.ErrParse)
	}

	s.token = envelope.Response.Token
	s.state = StateValid

	return nil
}

// Logout releases the session token. Local state is cleared before
// the remote call is attempted: the caller's intent is to discard the
// credential, and that must not depend on the network outcome.
func (s *SessionManager) Logout(ctx context.Context) error {
	if s.state != StateValid {
		return fmdata.ErrNotAuthenticated
	}

	token := s.token
	s.Invalidate()

	path := fmt.Sprintf(constants.PathSessionToken, url.PathEscape(s.database), url.PathEscape(token))

	resp, err := s.transport.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	envelope, err := decodeSessionEnvelope(resp.Body)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	code, err := messageCode(envelope.Messages)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if code != constants.FMErrorSuccess {
		return fmt.Errorf("logout: %w", &fmdata.APIError{Code: code, Message: envelope.Messages[0].Message})
	}

	return nil
}

func decodeSessionEnvelope(body []byte) (*sessionEnvelope, error) {
	var envelope sessionEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fmdata.ErrParse, err)
	}

	if len(envelope.Messages) == 0 {
		return nil, fmt.Errorf("%w: missing messages section", fmdata.ErrParse)
	}

	return &envelope, nil
}

func messageCode(messages []fmdata.Message) (int, error) {
	code, err := strconv.Atoi(messages[0].Code)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric message code %q", fmdata.ErrParse, messages[0].Code)
	}

	return code, nil
}
