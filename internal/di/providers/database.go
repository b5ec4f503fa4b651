package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/glossyapp/glossy-server/internal/config"
	"github.com/glossyapp/glossy-server/internal/logger"
	"github.com/glossyapp/glossy-server/internal/store"
	"github.com/glossyapp/glossy-server/internal/store/sqlite"
)

// StoreHandle wraps the document store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Document store initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// HistoryHandle wraps the interaction history store with shutdown capability.
type HistoryHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *HistoryHandle) Shutdown() error {
	return h.Close()
}

// ProvideHistory provides the interaction history store.
func ProvideHistory(i do.Injector) (*HistoryHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "history.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("History store initialized", "path", dbPath)

	return &HistoryHandle{Store: db}, nil
}
