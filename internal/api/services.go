package api

import (
	"github.com/glossyapp/glossy-server/internal/service"
)

// Services groups the service layer dependencies for the API server.
type Services struct {
	Auth        *service.AuthService
	Session     *service.SessionService
	Magazine    *service.MagazineService
	Interaction *service.InteractionService
	Follow      *service.FollowService
	Profile     *service.ProfileService
}
