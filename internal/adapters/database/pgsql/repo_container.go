package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/paintworks/pw_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgreSQL repositories into the provider
// consumed by the service container.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProjectRepo: NewProjectRepository(dbPool),
		UserRepo:    NewUserRepository(dbPool),
	}
}
