// internal/common/auth/client.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"careerlens/internal/common/config"
	"careerlens/internal/common/errors"
	httpclient "careerlens/internal/common/http"
	"careerlens/internal/common/logger"
	"careerlens/internal/common/validation"
	"careerlens/internal/models"
)

// refreshSkew refreshes access tokens slightly before they expire.
const refreshSkew = 30 * time.Second

// Listener receives auth events. session is nil for SIGNED_OUT.
type Listener func(event models.AuthEvent, session *models.Session)

// Client talks to the hosted auth service and owns the current session. One Client is
// shared per process.
type Client struct {
	baseURL string
	anonKey string
	http    *httpclient.Client
	store   SessionStore
	logger  logger.Logger
	now     func() time.Time

	mu      sync.Mutex
	session *models.Session
	loaded  bool

	subMu     sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewClient builds an auth client. A nil store keeps the session in memory.
func NewClient(cfg config.AuthConfig, store SessionStore, log logger.Logger) *Client {
	if store == nil {
		store = NewMemoryStore()
	}
	timeout := config.GetDuration(cfg.Timeout)
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.URL,
		anonKey:   cfg.AnonKey,
		http:      httpclient.NewClient(timeout),
		store:     store,
		logger:    log.Named("auth"),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// WithHTTPClient swaps the transport, used by tests.
func (c *Client) WithHTTPClient(h *httpclient.Client) *Client {
	c.http = h
	return c
}

// Subscribe registers fn for auth events and returns a function that removes it.
func (c *Client) Subscribe(fn Listener) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.listeners, id)
		c.subMu.Unlock()
	}
}

func (c *Client) emit(event models.AuthEvent, session *models.Session) {
	c.subMu.Lock()
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if !validation.ValidateEmail(email) {
		return nil, errors.NewValidationError("email is not valid")
	}
	if password == "" {
		return nil, errors.NewValidationError("password is required")
	}

	session, err := c.grant(ctx, "password", models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := c.setSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("signed in", map[string]interface{}{"userId": session.User.ID})
	c.emit(models.EventSignedIn, session)
	return session, nil
}

// SignUp registers an account. When the service returns a session right away (no email
// confirmation), the user is signed in.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*models.User, error) {
	if !validation.ValidateEmail(email) {
		return nil, errors.NewValidationError("email is not valid")
	}
	if len(password) < 6 {
		return nil, errors.NewValidationError("password must be at least 6 characters")
	}

	req := models.SignUpRequest{Email: email, Password: password}
	if fullName != "" {
		req.Data = map[string]interface{}{"full_name": fullName}
	}

	resp, err := c.do(ctx, "auth.signup", http.MethodPost, "/auth/v1/signup", "", req)
	if err != nil {
		return nil, err
	}

	var tok models.TokenResponse
	if err := json.Unmarshal(resp.Body, &tok); err != nil {
		return nil, errors.NewDecodeFailedError("auth.signup", err)
	}

	if tok.AccessToken == "" {
		// Confirmation pending: the body is the bare user.
		var user models.User
		if err := json.Unmarshal(resp.Body, &user); err != nil {
			return nil, errors.NewDecodeFailedError("auth.signup", err)
		}
		c.logger.Info("signed up, confirmation pending", map[string]interface{}{"userId": user.ID})
		return &user, nil
	}

	session := tok.ToSession(c.now())
	if err := c.setSession(ctx, session); err != nil {
		return nil, err
	}
	c.emit(models.EventSignedIn, session)
	return &session.User, nil
}

// SignOut revokes the session remotely (best effort) and always clears it locally.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.ensureLoaded(ctx)
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil && c.baseURL != "" {
		if _, err := c.do(ctx, "auth.logout", http.MethodPost, "/auth/v1/logout", session.AccessToken, nil); err != nil {
			c.logger.Warn("remote sign-out failed", map[string]interface{}{"error": err})
		}
	}

	if err := c.store.Clear(ctx); err != nil {
		return errors.NewSessionStoreError("clear", err)
	}
	c.emit(models.EventSignedOut, nil)
	return nil
}

// CurrentUser returns the signed-in user, or nil when signed out. An expired access token
// is refreshed first; a rejected refresh signs the user out.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	session, err := c.Session(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	user := session.User
	return &user, nil
}

// AccessToken returns a valid bearer token, or "" when signed out.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	session, err := c.Session(ctx)
	if err != nil || session == nil {
		return "", err
	}
	return session.AccessToken, nil
}

// Session returns the current session, refreshing it when needed.
func (c *Client) Session(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	c.ensureLoaded(ctx)
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, nil
	}
	if !session.IsExpired(refreshSkew) {
		return session, nil
	}
	return c.refresh(ctx, session)
}

// FetchUser asks the auth service for the user behind the current token.
func (c *Client) FetchUser(ctx context.Context) (*models.User, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.NewNotAuthenticatedError()
	}

	resp, err := c.do(ctx, "auth.user", http.MethodGet, "/auth/v1/user", token, nil)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, errors.NewDecodeFailedError("auth.user", err)
	}
	return &user, nil
}

func (c *Client) refresh(ctx context.Context, old *models.Session) (*models.Session, error) {
	session, err := c.grant(ctx, "refresh_token", map[string]string{"refresh_token": old.RefreshToken})
	if err != nil {
		if errors.Is(err, errors.ErrCodeRemoteStatus) {
			c.logger.Warn("refresh rejected, signing out", map[string]interface{}{"error": err})
			if clearErr := c.SignOut(ctx); clearErr != nil {
				return nil, clearErr
			}
			return nil, nil
		}
		return nil, err
	}

	if err := c.setSession(ctx, session); err != nil {
		return nil, err
	}
	c.emit(models.EventTokenRefreshed, session)
	return session, nil
}

func (c *Client) grant(ctx context.Context, grantType string, body interface{}) (*models.Session, error) {
	op := "auth.token." + grantType
	resp, err := c.do(ctx, op, http.MethodPost, "/auth/v1/token?grant_type="+grantType, "", body)
	if err != nil {
		return nil, err
	}

	var tok models.TokenResponse
	if err := json.Unmarshal(resp.Body, &tok); err != nil {
		return nil, errors.NewDecodeFailedError(op, err)
	}
	if tok.AccessToken == "" {
		return nil, errors.NewAuthFailedError("token response has no access_token", nil)
	}
	return tok.ToSession(c.now()), nil
}

func (c *Client) do(ctx context.Context, op, method, path, bearer string, body interface{}) (*httpclient.Response, error) {
	if c.baseURL == "" {
		return nil, errors.NewAuthFailedError("auth.url is not configured", nil)
	}

	headers := map[string]string{"apikey": c.anonKey}
	if bearer != "" {
		headers["Authorization"] = "Bearer " + bearer
	} else if c.anonKey != "" {
		headers["Authorization"] = "Bearer " + c.anonKey
	}

	resp, err := c.http.DoJSON(ctx, op, method, fmt.Sprintf("%s%s", c.baseURL, path), headers, body)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(op); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) setSession(ctx context.Context, session *models.Session) error {
	c.mu.Lock()
	c.session = session
	c.loaded = true
	c.mu.Unlock()

	if err := c.store.Save(ctx, session); err != nil {
		return errors.NewSessionStoreError("save", err)
	}
	return nil
}

// ensureLoaded reads the persisted session once. Callers hold c.mu.
func (c *Client) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	session, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("could not load stored session", map[string]interface{}{"error": err})
		return
	}
	c.session = session
}
