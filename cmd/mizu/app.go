package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Cyclone1070/mizu/internal/bridge"
	"github.com/Cyclone1070/mizu/internal/config"
	"github.com/Cyclone1070/mizu/internal/executor"
	"github.com/Cyclone1070/mizu/internal/fsutil"
	"github.com/Cyclone1070/mizu/internal/logging"
	"github.com/Cyclone1070/mizu/internal/presence"
	"github.com/Cyclone1070/mizu/internal/terminal"
	"github.com/Cyclone1070/mizu/internal/theme"
	"github.com/Cyclone1070/mizu/internal/workspace"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	logLevel string
	themeDir string
	envFile  string
}

func addGlobalFlags(cmd *cobra.Command) *globalOptions {
	opts := &globalOptions{}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.themeDir, "theme-dir", "", "Directory holding theme stylesheets")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded for terminal commands, if present")
	return opts
}

// app holds the wired services.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	ws       *workspace.Session
	term     *terminal.Session
	themes   *theme.Catalog
	tracker  *presence.Tracker
	bridge   *bridge.Bridge
	prompter *prompter
}

// loadConfig reads the user config, falling back to defaults with a warning.
func loadConfig(opts *globalOptions) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v. Using defaults.\n", err)
		cfg = config.DefaultConfig()
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.themeDir != "" {
		cfg.Theme.Dir = opts.themeDir
	}
	return cfg
}

// newApp builds every service from config. in and out back the folder picker
// and save dialog.
func newApp(opts *globalOptions, in *bufio.Reader, out io.Writer) (*app, error) {
	cfg := loadConfig(opts)

	if err := logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialise logging: %v\n", err)
	}
	logger := logging.L()

	// Terminal commands inherit the process environment.
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to load env file", zap.String("path", opts.envFile), zap.Error(err))
		}
	}

	p := newPrompter(in, out)
	osFS := fsutil.NewOSFileSystem()
	ws := workspace.NewSession(osFS, p, p, workspace.NewExecLauncher(logger.Named("launcher")), cfg.Workspace, logger.Named("workspace"))

	commandExecutor := executor.NewOSCommandExecutor(cfg, logger.Named("executor"))
	term := terminal.NewSession(commandExecutor, cfg.Terminal, logger.Named("terminal"))
	ws.OnOpen(term.Reset)

	themes, err := theme.NewCatalog(cfg.Theme, config.NewLoader(), logger.Named("theme"))
	if err != nil {
		return nil, err
	}

	tracker := presence.NewTracker(ws, presence.NewLogPublisher(logger.Named("presence")), logger.Named("presence"))

	return &app{
		cfg:      cfg,
		logger:   logger,
		ws:       ws,
		term:     term,
		themes:   themes,
		tracker:  tracker,
		bridge:   bridge.New(ws, term, themes, tracker, logger.Named("bridge")),
		prompter: p,
	}, nil
}

// openArg opens args[0] as the workspace when given.
func (a *app) openArg(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root, err := a.ws.Open(args[0])
	if err != nil {
		return err
	}
	a.tracker.Refresh()
	a.logger.Debug("workspace from argument", zap.String("root", root))
	return nil
}

func (a *app) close() {
	_ = logging.Sync()
}
