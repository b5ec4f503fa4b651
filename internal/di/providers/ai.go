package providers

import (
	"github.com/samber/do/v2"

	"github.com/glossyapp/glossy-server/internal/ai"
	"github.com/glossyapp/glossy-server/internal/config"
	"github.com/glossyapp/glossy-server/internal/logger"
)

// AIClientHandle wraps the generation backend client with shutdown capability.
type AIClientHandle struct {
	*ai.Client
}

// Shutdown implements do.Shutdownable.
func (h *AIClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAIClient provides the generation backend client.
func ProvideAIClient(i do.Injector) (*AIClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := ai.New(cfg.AI, log.Logger)

	if cfg.AI.Endpoint == "" {
		log.Warn("No AI endpoint configured - interaction requests will fail until one is set")
	} else {
		log.Info("AI backend configured",
			"endpoint", cfg.AI.Endpoint,
			"transport", cfg.AI.Transport,
			"requests_per_minute", cfg.AI.RequestsPerMinute,
		)
	}

	return &AIClientHandle{Client: client}, nil
}
