package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vidyasagar/surftabs/internal/app"
	"github.com/vidyasagar/surftabs/internal/browser"
	"github.com/vidyasagar/surftabs/internal/config"
	"github.com/vidyasagar/surftabs/internal/logx"
	"github.com/vidyasagar/surftabs/internal/storage"
	"github.com/vidyasagar/surftabs/internal/theme"
	"pkt.systems/psi"
	"pkt.systems/pslog"
)

// shortcutLimit caps the bookmark tiles on the new tab page.
const shortcutLimit = 9

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("surftabs command failed")
		return 1
	}
	return 0
}

// rootFlags are the overrides accepted on the browser command line.
type rootFlags struct {
	config   string
	theme    string
	logFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:           "surftabs [url]",
		Short:         "A tabbed terminal web browser",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var startURL string
			if len(args) > 0 {
				startURL = args[0]
			}
			return runBrowser(cmd, flags, startURL)
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&flags.theme, "theme", "", fmt.Sprintf("color theme (%v)", theme.List()))
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "write structured logs to this file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, error)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newBookmarksCmd(&flags.config))
	cmd.AddCommand(newHistoryCmd(&flags.config))
	return cmd
}

func loadConfig(path string, flags rootFlags) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if flags.theme != "" {
		cfg.Theme = flags.theme
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, cfg.Validate()
}

func runBrowser(cmd *cobra.Command, flags rootFlags, startURL string) error {
	cfg, err := loadConfig(flags.config, flags)
	if err != nil {
		return err
	}
	if err := theme.Set(cfg.Theme); err != nil {
		return err
	}

	// The terminal belongs to the UI while it runs, so logs go to a file or nowhere.
	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	ctx := pslog.ContextWithLogger(cmd.Context(), logger)

	db, err := storage.OpenDB(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database failed", "err", err)
		}
	}()
	bookmarks := storage.NewBookmarkStore(db)
	visits := storage.NewVisitLog(db)

	surface, err := browser.NewSurface(
		browser.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		cfg.Cache.Pages,
		browser.WithShortcuts(app.BookmarkShortcuts(bookmarks, shortcutLimit)),
		browser.WithFramePolicy(cfg.Display.RespectFramePolicy),
	)
	if err != nil {
		return err
	}

	logger.Info("starting", "db", db.Path(), "theme", cfg.Theme, "start_url", startURL)
	m := app.New(ctx, app.Options{
		Surface:   surface,
		Bookmarks: bookmarks,
		Visits:    visits,
		StartURL:  startURL,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func openLog(cfg config.LogConfig) (pslog.Logger, func(), error) {
	if cfg.File == "" {
		return logx.Discard(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logx.New(f, cfg.Level), func() { _ = f.Close() }, nil
}

// openStores opens the database named by the config at path for the
// management subcommands.
func openStores(path string) (*storage.DB, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return storage.OpenDB(cfg.DataDir)
}
