package postgres

import (
	repo "github.com/gcclean/waste-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users     repo.Users
	Entries   repo.Entries
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:     &usersRepo{pool},
		Entries:   &entriesRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
