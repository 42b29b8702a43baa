package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bance-assetou/mindvision/pkg/domain"
)

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "No token, authorization denied"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"_id": "u1", "name": "Ada"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", "test-token")
	raw, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u1","name":"Ada"}`, string(raw))
}

func TestMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "No token, authorization denied"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "No token, authorization denied")
}

func TestMeWithToken_OverridesSharedToken(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path+" "+r.Header.Get("Authorization"))
		w.Write([]byte(`{"_id":"u2"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", "shared")
	raw, err := c.MeWithToken(context.Background(), "fresh")
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u2"}`, string(raw))
	assert.Equal(t, "shared", c.Token())

	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/auth/me Bearer fresh", "/api/auth/me Bearer shared"}, seen)
}

func TestRandomQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quotes/random", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[{"content":"Stay curious.","author":"Ada"},{"content":"ignored","author":"x"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New("http://unused.invalid/api", "secret")
	q, err := c.RandomQuote(context.Background(), srv.URL+"/quotes/random")
	require.NoError(t, err)
	assert.Equal(t, "Stay curious.", q.Content)
	assert.Equal(t, "Ada", q.Author)
}

func TestRandomQuote_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.RandomQuote(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestAuthorizationHeaderFollowsToken(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ctx := context.Background()

	_, err := c.ListServices(ctx)
	require.NoError(t, err)
	c.SetToken("abc")
	_, err = c.ListServices(ctx)
	require.NoError(t, err)
	c.ClearToken()
	_, err = c.ListServices(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer abc", ""}, seen)
	assert.Empty(t, c.Token())
}

func TestRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		if r.Method == http.MethodPost {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		} else {
			assert.Empty(t, r.Header.Get("Content-Type"))
		}
		w.Write([]byte(`{"token":"t"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	_, err = c.Login(context.Background(), Credentials{Email: "a@b.co", Password: "pw"})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"}) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"token":"jwt","role":"coach","userId":"u1"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	resp, err := c.Login(context.Background(), Credentials{Email: "a@b.co", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
	assert.JSONEq(t, `{"token":"jwt","role":"coach","userId":"u1"}`, string(resp.Raw))

	_, err = c.Login(context.Background(), Credentials{Email: "a@b.co", Password: "nope"})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Invalid credentials", httpErr.Message)
}

func TestLogin_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"user":{"_id":"u1"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Login(context.Background(), Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token")
}

func TestListCoachesFiltersRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth", r.URL.Path)
		w.Write([]byte(`[{"_id":"1","name":"Sarah","role":"coach"},{"_id":"2","name":"John","role":"client"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	coaches, err := New(srv.URL, "tok").ListCoaches(context.Background())
	require.NoError(t, err)
	require.Len(t, coaches, 1)
	assert.Equal(t, "Sarah", coaches[0].Name)
}

func TestListSessionsByRole(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[{"_id":"s1","date":"2025-05-01T10:00:00Z","duration":60,"status":"Scheduled","clientId":{"_id":"c1","name":"John"}}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	got, err := c.ListSessions(context.Background(), domain.RoleCoach, "co1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "John", got[0].Client.Name)

	_, err = c.ListSessions(context.Background(), domain.RoleClient, "c1")
	require.NoError(t, err)

	assert.Equal(t, []string{"/sessions/coach/co1", "/sessions/client/c1"}, paths)
}

func TestSetUnavailableDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/availability", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "co1", body["coachId"])
		assert.Equal(t, []any{}, body["unavailableDates"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := New(srv.URL, "tok").SetUnavailableDates(context.Background(), "co1", nil)
	require.NoError(t, err)
}

func TestBookSession(t *testing.T) {
	when := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req BookSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "c1", req.ClientID)
		assert.Equal(t, "co1", req.CoachID)
		assert.True(t, when.Equal(req.Date))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"s9","status":"Pending"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s, err := New(srv.URL, "tok").BookSession(context.Background(), BookSessionRequest{ClientID: "c1", CoachID: "co1", Date: when})
	require.NoError(t, err)
	assert.Equal(t, "s9", s.ID)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"msg", `{"msg":"User already exists"}`, "User already exists"},
		{"error", `{"error":"boom"}`, "boom"},
		{"message wins", `{"message":"a","msg":"b"}`, "a"},
		{"plain text", "Service Unavailable\n", "Service Unavailable"},
		{"empty object", `{}`, "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body)))
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, "tok").ListServices(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsStatus(err, http.StatusUnauthorized))
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second) // slow server
		w.Write([]byte(`[]`))       //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.ListBlogPosts(ctx)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestNewDefaults(t *testing.T) {
	c := New("", "")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	c = New("http://example.test/api/", "", WithTimeout(time.Second))
	assert.Equal(t, "http://example.test/api", c.BaseURL())
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.False(t, strings.HasSuffix(c.BaseURL(), "/"))
}
