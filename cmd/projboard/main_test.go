package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	serveradapter "github.com/evanschultz/projboard/internal/adapters/server"
	servercommon "github.com/evanschultz/projboard/internal/adapters/server/common"
	"github.com/evanschultz/projboard/internal/config"
	"github.com/evanschultz/projboard/internal/tui"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("PROJBOARD_DEV_MODE", "false")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// writeConfig writes one config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// stubProgramFactory swaps the program factory for the duration of one test.
func stubProgramFactory(t *testing.T, runErr error) *tea.Model {
	t.Helper()
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	var got tea.Model
	programFactory = func(m tea.Model) program {
		got = m
		return fakeProgram{runErr: runErr}
	}
	return &got
}

// TestRunVersion verifies behavior for the covered scenario.
func TestRunVersion(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), []string{"--version"}, &out, io.Discard); err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

// TestRunStartsProgram verifies the bare command builds the board model.
func TestRunStartsProgram(t *testing.T) {
	got := stubProgramFactory(t, nil)
	cfgPath := writeConfig(t, "")
	if err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, ok := (*got).(tui.Model); !ok {
		t.Fatalf("expected tui.Model, got %T", *got)
	}
}

// TestRunProgramError verifies program failures propagate.
func TestRunProgramError(t *testing.T) {
	stubProgramFactory(t, errors.New("terminal gone"))
	cfgPath := writeConfig(t, "")
	err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "terminal gone") {
		t.Fatalf("expected program error, got %v", err)
	}
}

// TestRunUnknownCommand verifies behavior for the covered scenario.
func TestRunUnknownCommand(t *testing.T) {
	stubProgramFactory(t, nil)
	if err := run(context.Background(), []string{"wat"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected unknown command error")
	}
}

// TestRunInvalidFlag verifies behavior for the covered scenario.
func TestRunInvalidFlag(t *testing.T) {
	stubProgramFactory(t, nil)
	if err := run(context.Background(), []string{"--unknown-flag"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected flag parse error")
	}
}

// TestRunRejectsInvalidLoggingLevelFromConfig verifies config validation reaches the CLI.
func TestRunRejectsInvalidLoggingLevelFromConfig(t *testing.T) {
	stubProgramFactory(t, nil)
	cfgPath := writeConfig(t, "[logging]\nlevel = \"loud\"\n")
	err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging level error, got %v", err)
	}
}

// TestRunServeWiresBoardService verifies serve flag precedence and adapter wiring.
func TestRunServeWiresBoardService(t *testing.T) {
	origRunner := serveCommandRunner
	t.Cleanup(func() { serveCommandRunner = origRunner })

	var (
		gotCfg     serveradapter.Config
		gotEntries []servercommon.ActivityEntry
	)
	serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
		gotCfg = cfg
		if _, err := deps.Board.AddProject(ctx, servercommon.AddProjectRequest{
			Title:       "Build API",
			Description: "Wire the REST surface",
			People:      2,
		}); err != nil {
			return err
		}
		entries, err := deps.Board.ListActivity(ctx, servercommon.ListActivityRequest{})
		gotEntries = entries
		return err
	}

	cfgPath := writeConfig(t, `
[server]
http_bind = "127.0.0.1:9191"
api_endpoint = "/api/v2"
`)
	err := run(context.Background(), []string{"--config", cfgPath, "serve", "--mcp-endpoint", "/tools"}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run(serve) error = %v", err)
	}
	if gotCfg.HTTPBind != "127.0.0.1:9191" || gotCfg.APIEndpoint != "/api/v2" || gotCfg.MCPEndpoint != "/tools" {
		t.Fatalf("unexpected serve config %#v", gotCfg)
	}
	if gotCfg.ServerName != "projboard" || gotCfg.ServerVersion != version {
		t.Fatalf("unexpected server identity %#v", gotCfg)
	}
	if len(gotEntries) != 1 || gotEntries[0].Summary != "created Build API" {
		t.Fatalf("expected one created activity entry, got %#v", gotEntries)
	}
}

// TestRunServeAppliesConfiguredFormRules verifies the form section reaches the server adapter.
func TestRunServeAppliesConfiguredFormRules(t *testing.T) {
	origRunner := serveCommandRunner
	t.Cleanup(func() { serveCommandRunner = origRunner })

	var addErr error
	serveCommandRunner = func(ctx context.Context, _ serveradapter.Config, deps serveradapter.Dependencies) error {
		_, addErr = deps.Board.AddProject(ctx, servercommon.AddProjectRequest{
			Title:       "API",
			Description: "Wire the REST surface",
			People:      2,
		})
		return nil
	}
	cfgPath := writeConfig(t, "[form.title]\nrequired = true\nmin_length = 3\nmax_length = 24\n")
	if err := run(context.Background(), []string{"--config", cfgPath, "serve"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(serve) error = %v", err)
	}
	if addErr != nil {
		t.Fatalf("expected relaxed title rule to accept input, got %v", addErr)
	}
}

// TestRunPathsCommand verifies behavior for the covered scenario.
func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	if err := run(context.Background(), []string{"--config", cfgPath, "paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{"app: projboard", "dev_mode: false", "config: " + cfgPath, "config_dir:", "log_dir:"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in paths output, got %q", want, output)
		}
	}
}

// TestRunInitWritesConfig verifies default config creation and overwrite guard.
func TestRunInitWritesConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	var out strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "init"}, &out, io.Discard); err != nil {
		t.Fatalf("run(init) error = %v", err)
	}
	if !strings.Contains(out.String(), cfgPath) {
		t.Fatalf("expected written path in output, got %q", out.String())
	}
	loaded, err := config.Load(cfgPath, config.Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.HTTPBind != config.Default().Server.HTTPBind {
		t.Fatalf("unexpected written config %#v", loaded.Server)
	}
	if err := run(context.Background(), []string{"--config", cfgPath, "init"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected existing config error")
	}
	if err := run(context.Background(), []string{"--config", cfgPath, "init", "--force"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(init --force) error = %v", err)
	}
}

// TestRunTUIModeWritesRuntimeLogsToFileOnly verifies TUI runtime logs stay out of stderr and persist to the dev log file.
func TestRunTUIModeWritesRuntimeLogsToFileOnly(t *testing.T) {
	stubProgramFactory(t, nil)
	workspace := t.TempDir()
	t.Chdir(workspace)

	cfgPath := filepath.Join(workspace, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[logging]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--dev", "--config", cfgPath}, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(stderr.String()); got != "" {
		t.Fatalf("expected no runtime stderr output in TUI mode, got %q", got)
	}

	logDir := filepath.Join(workspace, ".projboard", "log")
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var logPath string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logPath = filepath.Join(logDir, entry.Name())
			break
		}
	}
	if logPath == "" {
		t.Fatalf("expected a .log file in %s", logDir)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "starting tui program loop") {
		t.Fatalf("expected runtime log file to include TUI lifecycle entries, got %q", string(content))
	}
}

// TestWorkspaceRootFromUsesNearestMarker verifies workspace-root resolution behavior.
func TestWorkspaceRootFromUsesNearestMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/test\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "cmd", "projboard")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if got := workspaceRootFrom(nested); filepath.Clean(got) != filepath.Clean(root) {
		t.Fatalf("expected workspace root %q, got %q", root, got)
	}
}

// TestDevLogFilePath verifies absolute dirs and file naming.
func TestDevLogFilePath(t *testing.T) {
	dir := t.TempDir()
	got, err := devLogFilePath(dir, "proj board/dev", time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	if want := filepath.Join(dir, "proj-board-dev-20260223.log"); got != want {
		t.Fatalf("devLogFilePath() = %q, want %q", got, want)
	}
}

// TestSanitizeLogFileStem verifies file-name normalization.
func TestSanitizeLogFileStem(t *testing.T) {
	cases := map[string]string{
		"":            "projboard",
		" / ":         "projboard",
		"projboard":   "projboard",
		"a:b\\c":      "a-b-c",
		"-projboard-": "projboard",
	}
	for in, want := range cases {
		if got := sanitizeLogFileStem(in); got != want {
			t.Fatalf("sanitizeLogFileStem(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestParseBoolEnv verifies behavior for the covered scenario.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("PROJBOARD_TEST_BOOL", "true")
	if v, ok := parseBoolEnv("PROJBOARD_TEST_BOOL"); !ok || !v {
		t.Fatalf("expected true, got %v %v", v, ok)
	}
	t.Setenv("PROJBOARD_TEST_BOOL", "nope")
	if _, ok := parseBoolEnv("PROJBOARD_TEST_BOOL"); ok {
		t.Fatal("expected invalid bool to be ignored")
	}
	t.Setenv("PROJBOARD_TEST_BOOL", "")
	if _, ok := parseBoolEnv("PROJBOARD_TEST_BOOL"); ok {
		t.Fatal("expected blank bool to be ignored")
	}
}

// TestToKeyConfig verifies the keys section maps onto TUI overrides.
func TestToKeyConfig(t *testing.T) {
	got := toKeyConfig(config.KeysConfig{NewProject: "N", Grab: "g", CopyID: "c", ActivityLog: "v"})
	want := tui.KeyConfig{NewProject: "N", Grab: "g", CopyID: "c", ActivityLog: "v"}
	if got != want {
		t.Fatalf("toKeyConfig() = %#v, want %#v", got, want)
	}
}

// TestRuntimeLoggerCanMuteConsoleSink verifies console muting.
func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var console bytes.Buffer
	logger, err := newRuntimeLogger(&console, "projboard", false, config.Default().Logging, "", func() time.Time {
		return time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}

	logger.Info("before")
	logger.SetConsoleEnabled(false)
	logger.Info("during")
	logger.SetConsoleEnabled(true)
	logger.Info("after")

	out := console.String()
	if !strings.Contains(out, "before") {
		t.Fatalf("expected console log to include 'before', got %q", out)
	}
	if strings.Contains(out, "during") {
		t.Fatalf("expected muted console log to omit 'during', got %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Fatalf("expected console log to include 'after', got %q", out)
	}
}
