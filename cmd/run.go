package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/thinkfast/internal/app"
	"github.com/abhisek/thinkfast/internal/catalog"
	"github.com/abhisek/thinkfast/internal/config"
	"github.com/abhisek/thinkfast/internal/llm"
	"github.com/abhisek/thinkfast/internal/logger"
	"github.com/abhisek/thinkfast/internal/scoring"
	"github.com/abhisek/thinkfast/internal/session"
	"github.com/abhisek/thinkfast/internal/store"
)

// deps are the resources shared by the commands.
type deps struct {
	logger     *zap.Logger
	configPath string
	file       config.FileConfig
	catalog    *catalog.Catalog
	store      *store.Store
	llmConfig  llm.Config
	persona    string
}

// loadDeps reads flags, the config file and the catalog. When withStore is
// set it also opens the usage log; failing to open it only disables usage
// logging. On error the logger is flushed before returning.
func loadDeps(cmd *cobra.Command, withStore bool) (_ *deps, err error) {
	debug, _ := cmd.Flags().GetBool("debug")
	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	l, err := logger.New(logPath, debug)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	d := &deps{logger: l}
	defer func() {
		if err != nil {
			d.logger.Error("startup failed", zap.Error(err))
			d.Close()
		}
	}()

	d.persona, _ = cmd.Flags().GetString("persona")
	d.configPath, _ = cmd.Flags().GetString("config")
	if d.configPath == "" {
		d.configPath = config.DefaultConfigPath()
	}
	d.file, err = config.Load(d.configPath)
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		d.catalog, err = catalog.Load(p)
		if err != nil {
			return nil, err
		}
	} else {
		d.catalog = catalog.Default()
	}

	d.llmConfig = resolveLLMConfig(d.file)

	if withStore {
		dbPath, perr := resolveDBPath(cmd)
		if perr != nil {
			return nil, fmt.Errorf("resolve DB path: %w", perr)
		}
		st, serr := store.Open(dbPath)
		if serr != nil {
			d.logger.Warn("usage log unavailable", zap.String("path", dbPath), zap.Error(serr))
		} else {
			d.store = st
		}
	}

	d.logger.Debug("loaded",
		zap.String("config", d.configPath),
		zap.String("provider", d.llmConfig.Provider),
		zap.Bool("credential", d.llmConfig.HasCredential()))
	return d, nil
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	_ = d.logger.Sync()
}

// resolveLLMConfig layers the config file under the environment. A
// provider set in the environment wins over the file.
func resolveLLMConfig(file config.FileConfig) llm.Config {
	cfg := llm.ConfigFromEnv()
	if os.Getenv("THINKFAST_LLM_PROVIDER") == "" && file.LLM.Provider != nil {
		cfg.Provider = *file.LLM.Provider
	}
	if file.LLM.Model != nil {
		cfg = cfg.WithModel(*file.LLM.Model)
	}
	if found, ok := llm.DiscoverConfig(cfg); ok {
		return found
	}
	return cfg
}

func (d *deps) eventRepo() store.EventRepo {
	if d.store == nil {
		return nil
	}
	return d.store.EventRepo()
}

// newScorer builds a scoring client for cfg.
func (d *deps) newScorer(ctx context.Context, cfg llm.Config) (*scoring.Client, error) {
	p, err := llm.NewProvider(ctx, cfg, d.eventRepo(), d.logger)
	if err != nil {
		return nil, err
	}
	return scoring.New(p, scoring.DefaultConfig(), d.logger), nil
}

// newMachine builds a session from flags, falling back to the config file.
func (d *deps) newMachine(cmd *cobra.Command) (*session.Machine, error) {
	opts := session.Options{
		Catalog: d.catalog,
		Overlay: d.file.Overlay(),
		Logger:  d.logger,
		Topics:  d.file.Practice.Topics,
	}
	if d.file.Practice.Timer != nil {
		opts.Timer = *d.file.Practice.Timer
	}
	if d.file.Practice.Persona != nil {
		opts.Persona = *d.file.Practice.Persona
	}

	flags := cmd.Flags()
	if flags.Changed("timer") {
		opts.Timer, _ = flags.GetInt("timer")
	}
	if flags.Changed("topic") {
		opts.Topics, _ = flags.GetStringArray("topic")
	}
	if flags.Changed("persona") {
		opts.Persona, _ = flags.GetString("persona")
	}

	if d.llmConfig.HasCredential() {
		scorer, err := d.newScorer(cmd.Context(), d.llmConfig)
		if err != nil {
			d.logger.Warn("scoring disabled", zap.Error(err))
			fmt.Fprintln(os.Stderr, "Scoring disabled:", err)
		} else {
			opts.Scorer = scorer
		}
	}

	return session.New(opts)
}

// saveSettings writes the machine's settings back to the config file.
func (d *deps) saveSettings(m *session.Machine) error {
	cfg := d.file
	timer := m.Timer()
	cfg.Practice.Timer = &timer
	cfg.Practice.Topics = m.SelectedTopics()
	cfg.Practice.Persona = nil
	if p := m.Persona(); p != "" {
		cfg.Practice.Persona = &p
	}
	cfg.SetOverlay(m.Overlay())

	if err := config.Save(d.configPath, cfg); err != nil {
		return err
	}
	d.file = cfg
	d.logger.Info("settings saved", zap.String("path", d.configPath))
	return nil
}

// runApp loads dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := loadDeps(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	m, err := d.newMachine(cmd)
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Machine: m,
		NewScorer: func(key string) (*scoring.Client, error) {
			return d.newScorer(context.Background(), d.llmConfig.WithAPIKey(key))
		},
		SaveSettings: d.saveSettings,
		Logger:       d.logger,
	})
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then THINKFAST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, os.MkdirAll(filepath.Dir(p), 0o755)
	}
	return store.DefaultDBPath()
}
