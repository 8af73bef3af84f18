package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gcclean/waste-backend/internal/leaderboard"
	"github.com/gcclean/waste-backend/internal/metrics"
	"github.com/gcclean/waste-backend/internal/models"
	repo "github.com/gcclean/waste-backend/internal/repository"
	"github.com/gcclean/waste-backend/internal/validate"
	"github.com/gcclean/waste-backend/internal/worker"
	"github.com/jackc/pgx/v5"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrNotOwner      = errors.New("entry belongs to another user")
)

type Dashboard struct {
	Entries []models.Entry `json:"entries"`
	Total   float64        `json:"total"`
}

type EntryService struct {
	entries repo.Entries
	audits  repo.AuditLogs
	wp      *worker.Pool
	strict  bool
}

func NewEntryService(entries repo.Entries, audits repo.AuditLogs, wp *worker.Pool, strict bool) *EntryService {
	return &EntryService{entries: entries, audits: audits, wp: wp, strict: strict}
}

// Create validates a submission and persists it. Owner and department come
// from the session claims, never from the form. The collector-name race
// between the uniqueness read and the insert is closed by the unique index;
// a violation there reports like any other collector field error.
func (s *EntryService) Create(userID, department string, in validate.EntryInput) (models.Entry, validate.Fields, error) {
	e, errs, err := validate.ValidateEntry(in, s.entries.ExistsByCollector, validate.Options{Strict: s.strict})
	if err != nil {
		return models.Entry{}, nil, err
	}
	if errs != nil {
		countFailures(errs)
		return models.Entry{}, errs, nil
	}

	e.UserID = userID
	e.Department = department

	created, err := s.entries.Create(e)
	if err != nil {
		if isUniqueViolation(err) {
			metrics.ValidationFailures.WithLabelValues("collector").Inc()
			return models.Entry{}, validate.Fields{"collector": "Collector name already exists."}, nil
		}
		return models.Entry{}, nil, err
	}

	metrics.EntriesCreated.Inc()
	s.audit(created.ID, "created", fmt.Sprintf("entry by %s", created.Collector))
	return created, nil, nil
}

// Update edits the mutable fields of an entry the caller owns. The
// collector is never re-validated or changed on edit.
func (s *EntryService) Update(userID, id string, in validate.EntryInput) (models.Entry, validate.Fields, error) {
	e, err := s.getOwned(userID, id)
	if err != nil {
		return models.Entry{}, nil, err
	}

	upd, errs := validate.ValidateEntryUpdate(in, validate.Options{Strict: s.strict})
	if errs != nil {
		countFailures(errs)
		return models.Entry{}, errs, nil
	}

	if err := s.entries.Update(id, upd); err != nil {
		return models.Entry{}, nil, err
	}

	e.Type = upd.Type
	e.Quantity = upd.Quantity
	e.Location = upd.Location
	e.Date = upd.Date

	s.audit(id, "updated", "")
	return e, nil, nil
}

// Delete removes an entry the caller owns.
func (s *EntryService) Delete(userID, id string) error {
	if _, err := s.getOwned(userID, id); err != nil {
		return err
	}
	if err := s.entries.Delete(id); err != nil {
		return err
	}
	s.audit(id, "deleted", "")
	return nil
}

// Dashboard returns the caller's entries with their summed quantity.
func (s *EntryService) Dashboard(userID string) (Dashboard, error) {
	list, err := s.entries.ListByUser(userID)
	if err != nil {
		return Dashboard{}, err
	}
	var total float64
	for _, e := range list {
		total += e.Quantity
	}
	if list == nil {
		list = []models.Entry{}
	}
	return Dashboard{Entries: list, Total: total}, nil
}

// Leaderboard ranks collectors across every user's entries, optionally
// scoped to one department.
func (s *EntryService) Leaderboard(dept string) (leaderboard.Result, error) {
	list, err := s.entries.ListAll()
	if err != nil {
		return leaderboard.Result{}, err
	}
	records := make([]leaderboard.Record, 0, len(list))
	for _, e := range list {
		records = append(records, leaderboard.Record{
			Collector:  e.Collector,
			Quantity:   e.Quantity,
			Department: e.Department,
		})
	}
	metrics.LeaderboardRequests.Inc()
	return leaderboard.Compute(records, dept), nil
}

// CollectorExists backs the live name checker on the entry form.
func (s *EntryService) CollectorExists(name string) (bool, error) {
	return s.entries.ExistsByCollector(strings.TrimSpace(name))
}

func (s *EntryService) getOwned(userID, id string) (models.Entry, error) {
	e, err := s.entries.GetByID(id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return models.Entry{}, err
	}
	if e.UserID != userID {
		return models.Entry{}, ErrNotOwner
	}
	return e, nil
}

func (s *EntryService) audit(entryID, action, details string) {
	id := entryID
	var det map[string]any
	if details != "" {
		det = map[string]any{"message": details}
	}
	s.wp.Submit(func() {
		_ = s.audits.Create(models.AuditLog{
			EntityType: "entry",
			EntityID:   &id,
			Action:     action,
			Details:    det,
		})
	})
}

func countFailures(errs validate.Fields) {
	for field := range errs {
		metrics.ValidationFailures.WithLabelValues(field).Inc()
	}
}
