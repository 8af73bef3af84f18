package repository

import "github.com/gcclean/waste-backend/internal/models"

type Users interface {
	Create(name, email, passwordHash, department string) (models.User, error)
	GetByID(id string) (models.User, error)
	GetByEmail(email string) (models.User, error)
	List() ([]models.User, error)
}

type Entries interface {
	Create(e models.Entry) (models.Entry, error)
	GetByID(id string) (models.Entry, error)
	Update(id string, u models.EntryUpdate) error
	Delete(id string) error
	ListByUser(userID string) ([]models.Entry, error)
	ListAll() ([]models.Entry, error)
	ExistsByCollector(name string) (bool, error)
}

type AuditLogs interface {
	Create(l models.AuditLog) error
}
