package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"github.com/mouse-blink/optilabel/internal/adapter"
	"github.com/mouse-blink/optilabel/internal/config"
	"github.com/mouse-blink/optilabel/internal/domain"
	m "github.com/mouse-blink/optilabel/internal/model"
)

var database *gorm.DB

// offlineAnnotation marks commands that never call a model, so they run
// without provider credentials.
const offlineAnnotation = "offline"

// setup loads the configuration and wires the workflow used by every command.
func setup(ctx context.Context, withModels bool) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	appConfig = cfg
	fsAdapter := adapter.NewLocalTextFSAdapter()

	reference, err := loadReference(fsAdapter, m.Path(cfg.Files.Labels))
	if err != nil {
		return err
	}

	var labelerLLM, solverLLM adapter.LLM

	if withModels {
		labelerLLM, err = adapter.NewLLM(ctx, cfg.Labeler)
		if err != nil {
			return fmt.Errorf("failed to create labeling model: %w", err)
		}

		solverLLM, err = adapter.NewLLM(ctx, cfg.Solver)
		if err != nil {
			return fmt.Errorf("failed to create solving model: %w", err)
		}
	}

	database, err = adapter.OpenDatabase(cfg.Files.Database)
	if err != nil {
		return err
	}

	counter, err := newCounterStore(cfg, fsAdapter, database)
	if err != nil {
		return err
	}

	labeler := domain.NewLabeler(labelerLLM, reference)
	solver := domain.NewSolver(solverLLM, adapter.NewPythonExecutor(fsAdapter, cfg.Exec.Python, cfg.Exec.Timeout))

	workflow = domain.NewWorkflow(fsAdapter, labeler, solver, ui,
		domain.WithCounter(counter),
		domain.WithHistory(adapter.NewSQLHistoryStore(database)),
		domain.WithReportStore(adapter.NewReportStore(fsAdapter)),
		domain.WithRequestTimeout(cfg.RequestTimeout),
	)

	slog.Debug("workflow ready",
		"labeler", cfg.Labeler.Provider+"/"+cfg.Labeler.Model,
		"solver", cfg.Solver.Provider+"/"+cfg.Solver.Model,
		"reference", reference != "",
		"counter", cfg.CounterBackend,
	)

	return nil
}

// loadReference treats a missing labels file as "no reference".
func loadReference(fsAdapter adapter.TextFSAdapter, path m.Path) (string, error) {
	reference, err := adapter.NewFileReferenceLoader(fsAdapter, path).Load()
	if err == nil {
		return reference, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("reference labels not found, falling back to dummy labels", "path", path)
		return "", nil
	}

	return "", err
}

func newCounterStore(cfg *config.Config, fsAdapter adapter.TextFSAdapter, db *gorm.DB) (adapter.CounterStore, error) {
	switch cfg.CounterBackend {
	case config.CounterBackendSQLite:
		return adapter.NewSQLCounterStore(db, "prompts"), nil
	case config.CounterBackendFile:
		return adapter.NewFileCounterStore(fsAdapter, m.Path(cfg.Files.Counter)), nil
	default:
		return nil, fmt.Errorf("unknown counter backend %q", cfg.CounterBackend)
	}
}

func closeDatabase() {
	if database == nil {
		return
	}

	sqlDB, err := database.DB()
	if err != nil {
		return
	}

	if err := sqlDB.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}
