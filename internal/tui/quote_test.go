package tui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bance-assetou/mindvision/internal/guard"
	"github.com/bance-assetou/mindvision/internal/session"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/domain"
)

func newQuoteServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "" {
			t.Errorf("quote request carried %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[{"content":"Small steps every day.","author":"Mia"}]`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestQuoteModelLoadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := newQuoteServer(t, &hits)
	m := newQuoteModel(client.New(srv.URL, "T1"), srv.URL)

	cmd := m.load()
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	m = m.Update(cmd())
	if m.load() != nil {
		t.Error("second load should not fetch again")
	}
	if hits.Load() != 1 {
		t.Errorf("quote endpoint hit %d times, want 1", hits.Load())
	}
	view := m.View()
	if !strings.Contains(view, "Small steps every day.") || !strings.Contains(view, "Mia") {
		t.Errorf("banner missing quote:\n%s", view)
	}
}

func TestQuoteModelDisabled(t *testing.T) {
	m := newQuoteModel(client.New("http://unused.invalid", ""), "")
	if m.load() != nil {
		t.Error("disabled banner should not fetch")
	}
	if m.View() != "" {
		t.Errorf("disabled banner rendered %q", m.View())
	}
}

func TestQuoteModelError(t *testing.T) {
	m := newQuoteModel(client.New("http://unused.invalid", ""), "http://quotes.invalid")
	m = m.Update(quoteLoadedMsg{err: errors.New("quote service down")})
	if !strings.Contains(m.View(), "quote service down") {
		t.Errorf("expected the error inline, got %q", m.View())
	}
}

func TestAppQuoteBannerOnlyOnHome(t *testing.T) {
	srv := newTestBackend(t)
	c := client.New(srv.URL, "")
	m := session.NewManager(c, session.NewFileStore(filepath.Join(t.TempDir(), "session.json"), zerolog.Nop()), zerolog.Nop())
	a := NewApp(c, m, Options{QuoteURL: "http://quotes.invalid/random"})
	a.width = 100
	a.height = 30

	if a.route != guard.RouteHome {
		t.Fatalf("default route = %q, want %q", a.route, guard.RouteHome)
	}
	if !a.quote.fetched {
		t.Error("opening home should start the quote fetch")
	}
	a = ready(t, a, m)
	model, _ := a.Update(quoteLoadedMsg{quote: &domain.Quote{Content: "Keep going.", Author: "Lee"}})
	a = model.(App)

	if !strings.Contains(a.View(), "Keep going.") {
		t.Errorf("home should show the quote:\n%s", a.View())
	}

	a = press(a, "1")
	if a.route != guard.RouteServices {
		t.Fatalf("route = %q, want %q", a.route, guard.RouteServices)
	}
	if strings.Contains(a.View(), "Keep going.") {
		t.Errorf("services page should not show the quote:\n%s", a.View())
	}
}
