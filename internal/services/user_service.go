package services

import (
	"errors"
	"strings"
	"time"

	"github.com/gcclean/waste-backend/internal/auth"
	"github.com/gcclean/waste-backend/internal/models"
	repo "github.com/gcclean/waste-backend/internal/repository"
	"github.com/gcclean/waste-backend/internal/validate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserService struct {
	users  repo.Users
	tm     *auth.TokenManager
	strict bool
}

func NewUserService(users repo.Users, tm *auth.TokenManager, strict bool) *UserService {
	return &UserService{users: users, tm: tm, strict: strict}
}

// Register creates an account. Field problems (including a taken email)
// come back in the Fields map; only store faults surface as errors.
func (s *UserService) Register(in validate.RegisterInput) (models.User, validate.Fields, error) {
	if errs := validate.ValidateRegister(in, s.strict); errs != nil {
		return models.User{}, errs, nil
	}

	email := validate.NormalizeEmail(in.Email)
	_, err := s.users.GetByEmail(email)
	if err == nil {
		return models.User{}, validate.Fields{"email": "Email already registered."}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, nil, err
	}

	u, err := s.users.Create(strings.TrimSpace(in.Name), email, hash, strings.TrimSpace(in.Department))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, validate.Fields{"email": "Email already registered."}, nil
		}
		return models.User{}, nil, err
	}
	return u, nil, nil
}

// Login verifies credentials and mints a token pair. Unknown email and bad
// password report on their own fields, matching the form behavior.
func (s *UserService) Login(in validate.LoginInput) (TokenPair, models.User, validate.Fields, error) {
	if errs := validate.ValidateLogin(in, s.strict); errs != nil {
		return TokenPair{}, models.User{}, errs, nil
	}

	u, err := s.users.GetByEmail(validate.NormalizeEmail(in.Email))
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenPair{}, models.User{}, validate.Fields{"email": "No account found with that email."}, nil
	}
	if err != nil {
		return TokenPair{}, models.User{}, nil, err
	}

	if auth.VerifyPassword(in.Password, u.PasswordHash) != nil {
		return TokenPair{}, models.User{}, validate.Fields{"password": "Incorrect password."}, nil
	}

	access, refresh, exp, err := s.tm.GeneratePair(u.ID, u.Name, u.Department)
	if err != nil {
		return TokenPair{}, models.User{}, nil, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, u, nil, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
