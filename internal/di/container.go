// Package di provides dependency injection configuration for the Glossy server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/glossyapp/glossy-server/internal/auth"
	"github.com/glossyapp/glossy-server/internal/config"
	"github.com/glossyapp/glossy-server/internal/di/providers"
	"github.com/glossyapp/glossy-server/internal/logger"
	"github.com/glossyapp/glossy-server/internal/media/images"
	"github.com/glossyapp/glossy-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Persistence layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideHistory)

	// Media layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageProcessor)
	do.Provide(injector, providers.ProvideMaterializer)

	// AI backend
	do.Provide(injector, providers.ProvideAIClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideMagazineService)
	do.Provide(injector, providers.ProvideInteractionService)
	do.Provide(injector, providers.ProvideFollowService)
	do.Provide(injector, providers.ProvideProfileService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.HistoryHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*images.Processor](injector)
	_ = do.MustInvoke[*images.Materializer](injector)
	_ = do.MustInvoke[*providers.AIClientHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.MagazineService](injector)
	_ = do.MustInvoke[*service.InteractionService](injector)
	_ = do.MustInvoke[*service.FollowService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
