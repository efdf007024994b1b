package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/projboard/internal/adapters/server/common"
	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/board"
)

// newTestDependencies builds server dependencies over a real board.
func newTestDependencies(t *testing.T) Dependencies {
	t.Helper()
	counter := 0
	store := app.NewStore(app.WithIDGenerator(func() string {
		counter++
		return fmt.Sprintf("p%d", counter)
	}))
	b := board.New(store, nil)
	t.Cleanup(b.Close)
	return Dependencies{Board: common.NewBoardAdapter(b)}
}

// TestNewHandlerRoutes verifies health, API, and board page mounting.
func TestNewHandlerRoutes(t *testing.T) {
	handler, cfg, err := NewHandler(Config{}, newTestDependencies(t))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if cfg.HTTPBind != defaultBindAddress || cfg.APIEndpoint != "/api/v1" || cfg.MCPEndpoint != "/mcp" || cfg.ServerName != "projboard" {
		t.Fatalf("unexpected normalized config %#v", cfg)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"title":"Build API","description":"Wire the REST surface","people":2}`)
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/projects", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))
	var snapshot common.BoardSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(snapshot.Lists) != 2 || len(snapshot.Lists[0].Projects) != 1 {
		t.Fatalf("unexpected board snapshot %#v", snapshot)
	}
}

// TestBoardPageRendersDraggableRows verifies the browser board markup.
func TestBoardPageRendersDraggableRows(t *testing.T) {
	deps := newTestDependencies(t)
	if _, err := deps.Board.AddProject(context.Background(), common.AddProjectRequest{
		Title:       "Build <API>",
		Description: "Wire the REST surface",
		People:      1,
	}); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}
	handler, _, err := NewHandler(Config{}, deps)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	page := rec.Body.String()
	for _, want := range []string{
		`id="active-projects-list"`,
		`id="finished-projects-list"`,
		`draggable="true"`,
		`data-id="p1"`,
		"Build &lt;API&gt;",
		"1 person assigned.",
		"ACTIVE PROJECTS",
		"text/plain",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST / status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

// TestNewHandlerRejectsBadConfig verifies dependency and endpoint checks.
func TestNewHandlerRejectsBadConfig(t *testing.T) {
	if _, _, err := NewHandler(Config{}, Dependencies{}); err == nil {
		t.Fatal("expected missing dependency error")
	}
	if _, _, err := NewHandler(Config{APIEndpoint: "/x", MCPEndpoint: "x/"}, newTestDependencies(t)); err == nil {
		t.Fatal("expected endpoint collision error")
	}
	if _, _, err := NewHandler(Config{APIEndpoint: "/healthz"}, newTestDependencies(t)); err == nil {
		t.Fatal("expected reserved endpoint error")
	}
}

// failingBoard is a board service whose snapshot always fails.
type failingBoard struct {
	common.BoardService
}

// Board returns a fixed error.
func (failingBoard) Board(context.Context) (common.BoardSnapshot, error) {
	return common.BoardSnapshot{}, errors.New("board closed")
}

// TestReadinessProbesBoard verifies /readyz reflects the board service.
func TestReadinessProbesBoard(t *testing.T) {
	handler, _, err := NewHandler(Config{}, newTestDependencies(t))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ready"`) {
		t.Fatalf("readyz = %d %q", rec.Code, rec.Body.String())
	}

	handler, _, err = NewHandler(Config{}, Dependencies{Board: failingBoard{}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

// recordingLogger captures debug messages and their key/value pairs.
type recordingLogger struct {
	app.NopLogger
	debug   []string
	keyvals [][]any
}

// Debug records one debug event.
func (l *recordingLogger) Debug(msg string, keyvals ...any) {
	l.debug = append(l.debug, msg)
	l.keyvals = append(l.keyvals, keyvals)
}

// TestNewHandlerLogsRequests verifies request logging when a logger is supplied.
func TestNewHandlerLogsRequests(t *testing.T) {
	deps := newTestDependencies(t)
	logger := &recordingLogger{}
	deps.Logger = logger
	handler, _, err := NewHandler(Config{}, deps)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if len(logger.debug) != 1 || logger.debug[0] != "http request" {
		t.Fatalf("unexpected debug log %#v", logger.debug)
	}
	got := fmt.Sprint(logger.keyvals[0]...)
	if !strings.Contains(got, "/missing") || !strings.Contains(got, "404") {
		t.Fatalf("unexpected request log fields %q", got)
	}
}

// TestRunReportsBindFailure verifies listen errors return before serving.
func TestRunReportsBindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { _ = taken.Close() })
	err = Run(context.Background(), Config{HTTPBind: taken.Addr().String()}, newTestDependencies(t))
	if err == nil || !strings.Contains(err.Error(), "listen on") {
		t.Fatalf("expected bind failure, got %v", err)
	}
}

// TestNormalizeEndpoint verifies endpoint normalization fallbacks.
func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"":          "/api/v1",
		"/":         "/api/v1",
		"api":       "/api",
		"//api/v2/": "/api/v2",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in, "/api/v1"); got != want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestRunStopsOnCancel verifies graceful shutdown when the context ends.
func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{HTTPBind: "127.0.0.1:0"}, newTestDependencies(t))
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}
