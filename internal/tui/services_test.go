package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bance-assetou/mindvision/pkg/domain"
)

func testServices() []domain.Service {
	return []domain.Service{
		{ID: "s1", Title: "Career coaching", Description: "Find your next step.", Duration: 60, Price: 80},
		{ID: "s2", Title: "Mindfulness", Duration: 45, Price: 49.5},
	}
}

func TestServicesLoaded(t *testing.T) {
	m := newServicesModel(nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m.loading = true
	if !strings.Contains(m.View(), "loading services") {
		t.Error("expected loading text")
	}
	m, _ = m.Update(servicesLoadedMsg{services: testServices()})
	v := m.View()
	for _, want := range []string{"Career coaching", "$80", "1h", "$49.50", "45m"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestServicesError(t *testing.T) {
	m := newServicesModel(nil)
	m, _ = m.Update(servicesLoadedMsg{err: errors.New("boom")})
	if !strings.Contains(m.View(), "error: boom") {
		t.Errorf("expected error in view, got %q", m.View())
	}
}

func TestServicesNavigationAndDetail(t *testing.T) {
	m := newServicesModel(nil)
	m, _ = m.Update(servicesLoadedMsg{services: testServices()})
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (clamped)", m.cursor)
	}
	m, _ = m.Update(key("k"))
	m, _ = m.Update(key("enter"))
	if !m.detail {
		t.Fatal("expected detail after enter")
	}
	if !strings.Contains(m.View(), "Find your next step.") {
		t.Error("expected the description in the detail view")
	}
	m, _ = m.Update(key("esc"))
	if m.detail {
		t.Error("expected list after esc")
	}
}

func TestServicesBook(t *testing.T) {
	m := newServicesModel(nil)
	m, _ = m.Update(servicesLoadedMsg{services: testServices()})
	m, _ = m.Update(key("j"))
	_, cmd := m.Update(key("b"))
	if cmd == nil {
		t.Fatal("expected a command on 'b'")
	}
	msg, ok := cmd().(bookServiceMsg)
	if !ok || msg.service.ID != "s2" {
		t.Errorf("expected bookServiceMsg for s2, got %#v", msg)
	}
}
