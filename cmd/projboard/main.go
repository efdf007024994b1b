package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	serveradapter "github.com/evanschultz/projboard/internal/adapters/server"
	servercommon "github.com/evanschultz/projboard/internal/adapters/server/common"
	"github.com/evanschultz/projboard/internal/adapters/storage/sqlite"
	"github.com/evanschultz/projboard/internal/activity"
	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/board"
	"github.com/evanschultz/projboard/internal/config"
	"github.com/evanschultz/projboard/internal/platform"
	"github.com/evanschultz/projboard/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP+MCP serve flow.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

// main handles main.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// serveOptions holds the serve command flags.
type serveOptions struct {
	httpBind    string
	apiEndpoint string
	mcpEndpoint string
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// newRootCommand builds the command tree. The bare command runs the board TUI.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{appName: "projboard", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("PROJBOARD_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("PROJBOARD_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:          "projboard",
		Short:        "Track active and finished projects on a drag-and-drop board",
		Long:         "projboard keeps a list of active and finished projects. Drag a project between the lists to change its status.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	root.PersistentFlags().BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newServeCommand(opts, stderr),
		newPathsCommand(opts, stdout),
		newInitCommand(opts, stdout),
	)
	return root
}

// newServeCommand builds the `serve` command.
func newServeCommand(opts *globalOptions, stderr io.Writer) *cobra.Command {
	serve := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board page, REST API, and MCP tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			return runServe(cmd.Context(), opts, serveOptions{
				httpBind:    changedString(flags.Changed("http"), serve.httpBind),
				apiEndpoint: changedString(flags.Changed("api-endpoint"), serve.apiEndpoint),
				mcpEndpoint: changedString(flags.Changed("mcp-endpoint"), serve.mcpEndpoint),
			}, stderr)
		},
	}
	cmd.Flags().StringVar(&serve.httpBind, "http", "127.0.0.1:8080", "HTTP listen address")
	cmd.Flags().StringVar(&serve.apiEndpoint, "api-endpoint", "/api/v1", "HTTP API base endpoint")
	cmd.Flags().StringVar(&serve.mcpEndpoint, "mcp-endpoint", "/mcp", "MCP streamable HTTP endpoint")
	return cmd
}

// newPathsCommand builds the `paths` command.
func newPathsCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and log paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, configPath, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(stdout, "config_dir: %s\n", paths.ConfigDir)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// newInitCommand builds the `init` command.
func newInitCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, configPath, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			if err := config.Write(configPath, config.Default(), force); err != nil {
				return fmt.Errorf("write default config: %w", err)
			}
			_, _ = fmt.Fprintf(stdout, "wrote %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// resolvePaths resolves platform paths and the effective config path.
func resolvePaths(opts *globalOptions) (platform.Paths, string, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return platform.Paths{}, "", err
	}
	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("PROJBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	return paths, configPath, nil
}

// session holds the runtime graph shared by the TUI and serve flows.
type session struct {
	cfg      config.Config
	logger   *runtimeLogger
	store    *app.Store
	board    *board.Board
	ledger   *sqlite.Ledger
	recorder *activity.Recorder
	detach   func()
}

// openSession loads config and wires store, board, and activity ledger.
func openSession(opts *globalOptions, command string, stderr io.Writer) (*session, error) {
	paths, configPath, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, paths.LogDir, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the board is active.
		logger.SetConsoleEnabled(false)
	}
	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "config_dir", paths.ConfigDir, "log_dir", paths.LogDir)
	logger.Info("configuration loaded", "config_path", configPath, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	ledger, err := sqlite.OpenLedger()
	if err != nil {
		logger.Error("activity ledger open failed", "err", err)
		_ = logger.Close()
		return nil, fmt.Errorf("open activity ledger: %w", err)
	}
	logger.Debug("activity ledger ready", "migrations", "ensured")

	store := app.NewStore(
		app.WithIDGenerator(uuid.NewString),
		app.WithLogger(logger),
	)
	recorder := activity.NewRecorder(ledger, activity.WithLogger(logger))
	s := &session{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		recorder: recorder,
		ledger:   ledger,
		detach:   recorder.Attach(store),
		board:    board.New(store, logger),
	}
	return s, nil
}

// Close releases the board, ledger, and log sinks.
func (s *session) Close(stderr io.Writer) {
	s.board.Close()
	s.detach()
	if err := s.ledger.Close(); err != nil {
		s.logger.Warn("activity ledger close failed", "err", err)
	}
	if err := s.logger.Close(); err != nil && s.logger.consoleActive() {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// runTUI runs the board program loop.
func runTUI(_ context.Context, opts *globalOptions, stderr io.Writer) error {
	s, err := openSession(opts, "tui", stderr)
	if err != nil {
		return err
	}
	defer s.Close(stderr)

	s.logger.Info("command flow start", "command", "tui")
	m := tui.NewModel(
		s.board,
		tui.WithInputForm(board.NewInputForm(s.store, s.cfg.FormRules())),
		tui.WithActivity(s.recorder),
		tui.WithShowDescriptions(s.cfg.Board.ShowDescriptions),
		tui.WithActivityLimit(s.cfg.Board.ActivityLimit),
		tui.WithKeyConfig(toKeyConfig(s.cfg.Keys)),
		tui.WithLogger(s.logger),
	)
	s.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		s.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	s.logger.Info("command flow complete", "command", "tui")
	return nil
}

// runServe runs the serve subcommand flow.
func runServe(ctx context.Context, opts *globalOptions, flags serveOptions, stderr io.Writer) error {
	s, err := openSession(opts, "serve", stderr)
	if err != nil {
		return err
	}
	defer s.Close(stderr)

	cfg := serveradapter.Config{
		HTTPBind:      firstNonEmpty(flags.httpBind, s.cfg.Server.HTTPBind),
		APIEndpoint:   firstNonEmpty(flags.apiEndpoint, s.cfg.Server.APIEndpoint),
		MCPEndpoint:   firstNonEmpty(flags.mcpEndpoint, s.cfg.Server.MCPEndpoint),
		ServerName:    opts.appName,
		ServerVersion: version,
	}
	adapter := servercommon.NewBoardAdapter(
		s.board,
		servercommon.WithRules(s.cfg.FormRules()),
		servercommon.WithActivity(s.recorder),
	)
	s.logger.Info("command flow start", "command", "serve", "http_bind", cfg.HTTPBind, "api_endpoint", cfg.APIEndpoint, "mcp_endpoint", cfg.MCPEndpoint)
	if err := serveCommandRunner(ctx, cfg, serveradapter.Dependencies{Board: adapter, Logger: s.logger}); err != nil {
		s.logger.Error("command flow failed", "command", "serve", "err", err)
		return fmt.Errorf("run serve command: %w", err)
	}
	s.logger.Info("command flow complete", "command", "serve")
	return nil
}

// toKeyConfig maps the keys section onto TUI overrides.
func toKeyConfig(cfg config.KeysConfig) tui.KeyConfig {
	return tui.KeyConfig{
		NewProject:  cfg.NewProject,
		Grab:        cfg.Grab,
		CopyID:      cfg.CopyID,
		ActivityLog: cfg.ActivityLog,
	}
}

// changedString returns value only when its flag was set explicitly.
func changedString(changed bool, value string) string {
	if !changed {
		return ""
	}
	return value
}

// firstNonEmpty returns the first non-blank value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
