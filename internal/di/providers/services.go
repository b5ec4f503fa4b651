package providers

import (
	"github.com/samber/do/v2"

	"github.com/glossyapp/glossy-server/internal/auth"
	"github.com/glossyapp/glossy-server/internal/logger"
	"github.com/glossyapp/glossy-server/internal/media/images"
	"github.com/glossyapp/glossy-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideMagazineService provides the magazine document service.
func ProvideMagazineService(i do.Injector) (*service.MagazineService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMagazineService(storeHandle.Store, processor, log.Logger), nil
}

// ProvideInteractionService provides the AI interaction orchestrator.
func ProvideInteractionService(i do.Injector) (*service.InteractionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	historyHandle := do.MustInvoke[*HistoryHandle](i)
	clientHandle := do.MustInvoke[*AIClientHandle](i)
	materializer := do.MustInvoke[*images.Materializer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInteractionService(storeHandle.Store, historyHandle.Store, clientHandle.Client, materializer, log.Logger), nil
}

// ProvideFollowService provides the follow graph service.
func ProvideFollowService(i do.Injector) (*service.FollowService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFollowService(storeHandle.Store, log.Logger), nil
}

// ProvideProfileService provides the user profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, processor, log.Logger), nil
}
