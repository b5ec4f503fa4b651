package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/glossyapp/glossy-server/internal/api"
	"github.com/glossyapp/glossy-server/internal/config"
	"github.com/glossyapp/glossy-server/internal/logger"
	"github.com/glossyapp/glossy-server/internal/media/images"
	"github.com/glossyapp/glossy-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	historyHandle := do.MustInvoke[*HistoryHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:        do.MustInvoke[*service.AuthService](i),
		Session:     do.MustInvoke[*service.SessionService](i),
		Magazine:    do.MustInvoke[*service.MagazineService](i),
		Interaction: do.MustInvoke[*service.InteractionService](i),
		Follow:      do.MustInvoke[*service.FollowService](i),
		Profile:     do.MustInvoke[*service.ProfileService](i),
	}

	server := api.NewServer(cfg, storeHandle.Store, historyHandle.Store, storage, services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
