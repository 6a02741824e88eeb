package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/rebelice/jsonstudio/internal/app"
	"github.com/rebelice/jsonstudio/internal/bookmarks"
	"github.com/rebelice/jsonstudio/internal/config"
	"github.com/rebelice/jsonstudio/internal/history"
	"github.com/rebelice/jsonstudio/internal/jsondoc"
	"github.com/rebelice/jsonstudio/internal/logging"
	"github.com/rebelice/jsonstudio/internal/recent"
	"github.com/rebelice/jsonstudio/internal/secrets"
	"github.com/rebelice/jsonstudio/internal/ui/theme"
)

// loadConfig reads the config file and applies command-line overrides
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.theme != "" {
		if !validTheme(opts.theme) {
			return nil, fmt.Errorf("unknown theme %q", opts.theme)
		}
		cfg.UI.Theme = opts.theme
	}
	if opts.view != "" {
		cfg.UI.ViewMode = opts.view
	}
	if cmd.Flags().Changed("depth") {
		cfg.Tree.InitialDepth = opts.depth
	}
	return cfg, nil
}

func validTheme(name string) bool {
	for _, n := range theme.Names {
		if n == name {
			return true
		}
	}
	return false
}

// runTUI starts the interactive editor. The log goes to a file in the
// config directory so it does not draw over the screen.
func runTUI(cmd *cobra.Command, opts *options, file string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	dir, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to locate config directory: %w", err)
	}

	logFile, err := logging.OpenFile(dir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := logging.New(logFile, logging.Level(opts.verbose))
	ctx := logging.WithLogger(cmd.Context(), logger)

	configPath := opts.configFile
	if configPath == "" {
		if configPath, err = config.DefaultFile(); err != nil {
			return err
		}
	}

	appOpts := app.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Secrets:    secrets.NewStore(),
		Bookmarks:  openBookmarks(logger, dir),
		Recent:     openRecent(logger, dir, cfg.General.RecentFiles),
	}

	if cfg.History.Enabled {
		store, err := history.NewStore(filepath.Join(dir, history.FileName))
		if err != nil {
			logger.Warn("history disabled", "err", err)
		} else {
			defer store.Close()
			appOpts.History = store
		}
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		text, err := jsondoc.Import(file, data)
		if err != nil {
			return err
		}
		appOpts.FilePath = file
		appOpts.Text = text
		if appOpts.Recent != nil {
			if err := appOpts.Recent.Add(file, int64(len(data))); err != nil {
				logger.Warn("failed to record recent file", "path", file, "err", err)
			}
		}
	}

	zone.NewGlobal()

	model := app.New(ctx, appOpts)

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.MouseEnabled {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	logger.Info("starting", "version", version, "file", file)
	p := tea.NewProgram(model, programOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if err := model.Flush(); err != nil {
		logger.Error("failed to save last document", "err", err)
	}
	return nil
}

func openBookmarks(logger *log.Logger, dir string) *bookmarks.Manager {
	m, err := bookmarks.NewManager(dir)
	if err != nil {
		logger.Warn("bookmarks disabled", "err", err)
		return nil
	}
	return m
}

func openRecent(logger *log.Logger, dir string, max int) *recent.Manager {
	m, err := recent.NewManager(dir, max)
	if err != nil {
		logger.Warn("recent files disabled", "err", err)
		return nil
	}
	if removed, err := m.PruneMissing(); err == nil && removed > 0 {
		logger.Debug("pruned recent files", "removed", removed)
	}
	return m
}
