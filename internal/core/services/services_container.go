package services

import (
	portsrepo "github.com/paintworks/pw_backend/internal/core/ports/repositories"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Project = NewProjectService(repos.ProjectRepo, repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)
	container.Session = NewSessionService(cfg, container.User)

	return container
}
