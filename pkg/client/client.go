package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bance-assetou/mindvision/pkg/domain"
)

// DefaultBaseURL is used when no API address is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout bounds every request made through the client.
const DefaultTimeout = 30 * time.Second

// Client is the MindVision API client. One instance is shared by the whole
// process; the bearer token it sends can change while it is in use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.RWMutex
	token string
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a request logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new API client. An empty baseURL falls back to DefaultBaseURL.
func New(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		log:     zerolog.Nop(),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer credential for all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer credential.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the credential currently attached to requests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// --- Auth ---

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the raw body of /auth/login and /auth/register. Backends
// disagree on what comes back next to the token, so the rest is kept as-is
// for the session layer to normalize.
type AuthResponse struct {
	Token string
	Raw   json.RawMessage
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	resp, err := c.authExchange(ctx, "/auth/login", creds)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return resp, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	resp, err := c.authExchange(ctx, "/auth/register", reg)
	if err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return resp, nil
}

func (c *Client) authExchange(ctx context.Context, path string, body any) (*AuthResponse, error) {
	var raw json.RawMessage
	if err := c.post(ctx, path, body, &raw); err != nil {
		return nil, err
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.Token == "" {
		return nil, fmt.Errorf("response carried no token")
	}
	return &AuthResponse{Token: tok.Token, Raw: raw}, nil
}

// Me returns the authenticated user's profile as the backend sent it.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/auth/me", &raw); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return raw, nil
}

// MeWithToken fetches the profile that token belongs to. The token is sent
// on this request only; the shared credential is neither read nor changed.
func (c *Client) MeWithToken(ctx context.Context, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.send(ctx, http.MethodGet, c.baseURL+"/auth/me", nil, &raw, token); err != nil {
		return nil, fmt.Errorf("client.MeWithToken: %w", err)
	}
	return raw, nil
}

// RandomQuote fetches one quote from a quotable-style endpoint at rawURL,
// which answers with a JSON array. The request never carries the bearer
// token since the endpoint is a third party.
func (c *Client) RandomQuote(ctx context.Context, rawURL string) (*domain.Quote, error) {
	var quotes []domain.Quote
	if err := c.send(ctx, http.MethodGet, rawURL, nil, &quotes, ""); err != nil {
		return nil, fmt.Errorf("client.RandomQuote: %w", err)
	}
	if len(quotes) == 0 || quotes[0].Content == "" {
		return nil, fmt.Errorf("client.RandomQuote: empty response")
	}
	return &quotes[0], nil
}

// ListCoaches returns every user with the coach role.
func (c *Client) ListCoaches(ctx context.Context) ([]domain.Coach, error) {
	var users []domain.Coach
	if err := c.get(ctx, "/auth", &users); err != nil {
		return nil, fmt.Errorf("client.ListCoaches: %w", err)
	}
	return domain.Coaches(users), nil
}

// --- Catalogue ---

// ListServices returns the bookable services.
func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	if err := c.get(ctx, "/services", &services); err != nil {
		return nil, fmt.Errorf("client.ListServices: %w", err)
	}
	return services, nil
}

// GetService fetches a single service by ID.
func (c *Client) GetService(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	if err := c.get(ctx, "/services/"+url.PathEscape(id), &s); err != nil {
		return nil, fmt.Errorf("client.GetService: %w", err)
	}
	return &s, nil
}

// ListBlogPosts returns all blog posts.
func (c *Client) ListBlogPosts(ctx context.Context) ([]domain.BlogPost, error) {
	var posts []domain.BlogPost
	if err := c.get(ctx, "/blog", &posts); err != nil {
		return nil, fmt.Errorf("client.ListBlogPosts: %w", err)
	}
	return posts, nil
}

// GetBlogPost fetches a single blog post by ID.
func (c *Client) GetBlogPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	var p domain.BlogPost
	if err := c.get(ctx, "/blog/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetBlogPost: %w", err)
	}
	return &p, nil
}

// --- Appointments ---

// CreateAppointmentRequest is the payload for booking a service.
type CreateAppointmentRequest struct {
	ServiceID string    `json:"serviceId"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
}

// ListAppointments returns the caller's appointments.
func (c *Client) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	if err := c.get(ctx, "/appointments", &appts); err != nil {
		return nil, fmt.Errorf("client.ListAppointments: %w", err)
	}
	return appts, nil
}

// CreateAppointment books a service.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*domain.Appointment, error) {
	var appt domain.Appointment
	if err := c.post(ctx, "/appointments", req, &appt); err != nil {
		return nil, fmt.Errorf("client.CreateAppointment: %w", err)
	}
	return &appt, nil
}

// --- Availability & sessions ---

// GetAvailability returns a coach's working and blocked days.
func (c *Client) GetAvailability(ctx context.Context, coachID string) (*domain.Availability, error) {
	var a domain.Availability
	if err := c.get(ctx, "/availability/"+url.PathEscape(coachID), &a); err != nil {
		return nil, fmt.Errorf("client.GetAvailability: %w", err)
	}
	return &a, nil
}

// SetUnavailableDates replaces a coach's blocked days.
func (c *Client) SetUnavailableDates(ctx context.Context, coachID string, dates []string) error {
	body := domain.Availability{CoachID: coachID, UnavailableDates: dates}
	if body.UnavailableDates == nil {
		body.UnavailableDates = []string{}
	}
	if err := c.post(ctx, "/availability", body, nil); err != nil {
		return fmt.Errorf("client.SetUnavailableDates: %w", err)
	}
	return nil
}

// BookSessionRequest is the payload for booking a coach.
type BookSessionRequest struct {
	ClientID string    `json:"clientId"`
	CoachID  string    `json:"coachId"`
	Date     time.Time `json:"date"`
}

// BookSession books a one-to-one session with a coach.
func (c *Client) BookSession(ctx context.Context, req BookSessionRequest) (*domain.CoachSession, error) {
	var s domain.CoachSession
	if err := c.post(ctx, "/sessions", req, &s); err != nil {
		return nil, fmt.Errorf("client.BookSession: %w", err)
	}
	return &s, nil
}

// ListSessions returns the sessions of a user, seen from their role.
func (c *Client) ListSessions(ctx context.Context, role domain.Role, userID string) ([]domain.CoachSession, error) {
	side := "client"
	if role == domain.RoleCoach {
		side = "coach"
	}
	var sessions []domain.CoachSession
	if err := c.get(ctx, "/sessions/"+side+"/"+url.PathEscape(userID), &sessions); err != nil {
		return nil, fmt.Errorf("client.ListSessions: %w", err)
	}
	return sessions, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

// doRequest sends a request to the API with the shared credential.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	return c.send(ctx, method, c.baseURL+path, body, out, c.Token())
}

func (c *Client) send(ctx context.Context, method, target string, body any, out any, token string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	intercept(req, body != nil, token)
	path := req.URL.Path

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Dur("took", time.Since(start)).
		Msg("request")

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// intercept decorates every outgoing request. Callers read the token per
// request, so login and logout take effect on the next call.
func intercept(req *http.Request, hasBody bool, token string) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// errorMessage pulls a displayable message out of an error body. Backends
// use "message", "msg" or "error"; anything else is returned raw.
func errorMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		for _, m := range []string{apiErr.Message, apiErr.Msg, apiErr.Error} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(body))
}
