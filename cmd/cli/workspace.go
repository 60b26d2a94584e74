package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/berrnk/bdz1/pkg/config"
	"github.com/berrnk/bdz1/pkg/encoder"
	"github.com/berrnk/bdz1/pkg/executors"
	"github.com/berrnk/bdz1/pkg/importer"
	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/parser"
	"github.com/berrnk/bdz1/pkg/service"
	"github.com/berrnk/bdz1/pkg/store"
)

// workspace is the ledger of one CLI run, loaded from and saved to the
// ledger file of the data dir.
type workspace struct {
	cfg      *config.Config
	logger   *log.Logger
	ids      *models.Allocator
	ledger   *service.Ledger
	importer *importer.Importer
	executor *executors.Executor
}

func openWorkspace(cfg *config.Config, logger *log.Logger) (*workspace, error) {
	s := store.New()
	ids := models.NewAllocator()
	w := &workspace{
		cfg:      cfg,
		logger:   logger,
		ids:      ids,
		ledger:   service.New(s, models.NewFactory(ids), logger),
		importer: importer.New(s, parser.New(logger), logger),
	}
	w.executor = executors.New(logger, w.ledger)

	if err := w.loadMarks(); err != nil {
		return nil, err
	}
	path := cfg.LedgerPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no ledger file yet", "path", path)
		return w, nil
	}
	report := w.importer.ImportFile(path, cfg.DocumentFormat())
	if report.Failed() {
		return nil, fmt.Errorf("failed to load ledger %s: %s", path, report.Failure)
	}
	w.ledger.SyncIdentifiers()
	logger.Debug("ledger loaded", "path", path, "objects", report.Total())
	return w, nil
}

// save writes the whole ledger back as a single document.
func (w *workspace) save() error {
	enc, err := encoder.New(w.cfg.DocumentFormat())
	if err != nil {
		return err
	}
	w.ledger.ExportData(enc)
	if err := os.MkdirAll(w.cfg.DataDir, 0o755); err != nil {
		return err
	}
	path := w.cfg.LedgerPath()
	if err := encoder.WriteFile(enc, path); err != nil {
		return err
	}
	if err := w.saveMarks(); err != nil {
		return err
	}
	w.logger.Debug("ledger saved", "path", path)
	return nil
}

// idMarks are the highest ids ever handed out per kind. They outlive the
// entities, so ids of deleted entities are not issued again by a later run.
type idMarks struct {
	Accounts   int64 `yaml:"accounts"`
	Categories int64 `yaml:"categories"`
	Operations int64 `yaml:"operations"`
}

func (w *workspace) marksPath() string { return w.cfg.LedgerPath() + ".ids" }

func (w *workspace) loadMarks() error {
	path := w.marksPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var m idMarks
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to read id marks %s: %w", path, err)
	}
	w.ids.Observe(models.AccountEntity, m.Accounts)
	w.ids.Observe(models.CategoryEntity, m.Categories)
	w.ids.Observe(models.OperationEntity, m.Operations)
	return nil
}

func (w *workspace) saveMarks() error {
	data, err := yaml.Marshal(idMarks{
		Accounts:   w.ids.Last(models.AccountEntity),
		Categories: w.ids.Last(models.CategoryEntity),
		Operations: w.ids.Last(models.OperationEntity),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(w.marksPath(), data, 0o644)
}
