package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gcclean/waste-backend/internal/auth"
	"github.com/gcclean/waste-backend/internal/config"
	"github.com/gcclean/waste-backend/internal/models"
	"github.com/gcclean/waste-backend/internal/services"
	"github.com/gcclean/waste-backend/internal/worker"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// in-memory stand-ins for the postgres repositories

type stubUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func (s *stubUsers) Create(name, email, hash, department string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: fmt.Sprintf("u%d", len(s.byEmail)+1), Name: name, Email: email, PasswordHash: hash, Department: department}
	s.byEmail[email] = u
	return u, nil
}

func (s *stubUsers) GetByID(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, pgx.ErrNoRows
}

func (s *stubUsers) GetByEmail(email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return models.User{}, pgx.ErrNoRows
}

func (s *stubUsers) List() ([]models.User, error) { return nil, nil }

type stubEntries struct {
	mu    sync.Mutex
	items map[string]models.Entry
}

func (s *stubEntries) Create(e models.Entry) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = fmt.Sprintf("e%d", len(s.items)+1)
	}
	s.items[e.ID] = e
	return e, nil
}

func (s *stubEntries) GetByID(id string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		return e, nil
	}
	return models.Entry{}, pgx.ErrNoRows
}

func (s *stubEntries) Update(id string, u models.EntryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.items[id]
	e.Type, e.Quantity, e.Location, e.Date = u.Type, u.Quantity, u.Location, u.Date
	s.items[id] = e
	return nil
}

func (s *stubEntries) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *stubEntries) ListByUser(userID string) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entry
	for _, e := range s.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEntries) ListAll() ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entry
	for _, e := range s.items {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubEntries) ExistsByCollector(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.Collector == name {
			return true, nil
		}
	}
	return false, nil
}

type stubAudits struct{}

func (stubAudits) Create(models.AuditLog) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{Env: "dev", StrictMode: true, RateRPS: 1000}
	tm := auth.NewTokenManager("a-secret", "r-secret", "waste-backend", time.Hour, 24*time.Hour)
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	us := services.NewUserService(&stubUsers{byEmail: map[string]models.User{}}, tm, cfg.StrictMode)
	es := services.NewEntryService(&stubEntries{items: map[string]models.Entry{}}, stubAudits{}, wp, cfg.StrictMode)

	srv := httptest.NewServer(NewRouter(cfg, tm, us, es))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRouter_FullFlow(t *testing.T) {
	srv := newTestServer(t)

	// register
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Maria Santos", "email": "202311512@gordoncollege.edu.ph",
		"password": "hunter22", "department": "CCS",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// login
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "202311512@gordoncollege.edu.ph", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}](t, resp)
	require.NotEmpty(t, login.AccessToken)

	// create an entry
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/entries", login.AccessToken, map[string]string{
		"type": "Plastic", "quantity": "5", "location": "Main Gate",
		"date": "2024-02-01", "collector": "Juan Dela Cruz",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Entry](t, resp)
	assert.Equal(t, "CCS", created.Department)
	assert.Equal(t, "u1", created.UserID)

	// duplicate collector rejected with a field error
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/entries", login.AccessToken, map[string]string{
		"type": "Paper", "quantity": "2", "location": "Library",
		"date": "2024-02-02", "collector": "Juan Dela Cruz",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	apiErr := decode[struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}](t, resp)
	assert.Equal(t, "validation_failed", apiErr.Code)
	assert.Equal(t, "Collector name already exists.", apiErr.Details["collector"])

	// live checker sees the taken name
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/entries/check-collector?name=Juan%20Dela%20Cruz", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	check := decode[map[string]bool](t, resp)
	assert.True(t, check["exists"])

	// dashboard
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/entries", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dash := decode[services.Dashboard](t, resp)
	require.Len(t, dash.Entries, 1)
	assert.Equal(t, 5.0, dash.Total)

	// leaderboard
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/leaderboard?dept=all", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lb := decode[struct {
		Ranked []struct {
			Collector string  `json:"collector"`
			Total     float64 `json:"total"`
		} `json:"ranked"`
		Departments []string `json:"departments"`
	}](t, resp)
	require.Len(t, lb.Ranked, 1)
	assert.Equal(t, "Juan Dela Cruz", lb.Ranked[0].Collector)
	assert.Equal(t, []string{"CCS"}, lb.Departments)

	// delete own entry
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/entries/"+created.ID, login.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestRouter_AuthRequired(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_ValidationRulesPublic(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/validation/rules")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rules := decode[[]struct {
		Field   string `json:"field"`
		MinDate string `json:"min_date"`
	}](t, resp)
	require.Len(t, rules, 5)

	var dateRule *struct {
		Field   string `json:"field"`
		MinDate string `json:"min_date"`
	}
	for i := range rules {
		if rules[i].Field == "date" {
			dateRule = &rules[i]
		}
	}
	require.NotNil(t, dateRule)
	assert.Equal(t, "2024-01-01", dateRule.MinDate)
}

func TestRouter_DeleteOthersEntryForbidden(t *testing.T) {
	srv := newTestServer(t)

	register := func(email string) string {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
			"name": "Some Student", "email": email, "password": "hunter22", "department": "CCS",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
			"email": email, "password": "hunter22",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[struct {
			AccessToken string `json:"access_token"`
		}](t, resp).AccessToken
	}

	owner := register("202311512@gordoncollege.edu.ph")
	intruder := register("202399999@gordoncollege.edu.ph")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/entries", owner, map[string]string{
		"type": "Plastic", "quantity": "5", "location": "Main Gate",
		"date": "2024-02-01", "collector": "Juan Dela Cruz",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Entry](t, resp)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/entries/"+created.ID, intruder, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
