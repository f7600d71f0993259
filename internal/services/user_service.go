package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/utils"
)

// UserRepository is satisfied by both the Mongo and the Postgres user stores.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type RegisterInput struct {
	Name      string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type userService struct {
	users  UserRepository
	tokens TokenService
}

func NewUserService(users UserRepository, tokens TokenService) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "UserService.Register"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName))
	}
	email := normalizeEmail(in.Email)

	var v utils.Violations
	if name == "" {
		v.Add("name", "Name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		v.Add("email", "Please provide a valid email")
	}
	if len(in.Password) < utils.MinPasswordLength {
		v.Add("password", "Password must be at least 6 characters")
	}
	if err := v.Err(op); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "User already exists", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return s.authResult(u)
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "UserService.Login"

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, utils.Validation(op,
			utils.FieldError{Field: "email", Message: "Email and password are required"})
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Invalid credentials", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if !utils.PasswordMatches(u.PasswordHash, password) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Invalid credentials", nil)
	}
	return s.authResult(u)
}

func (s *userService) Me(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Me"

	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "User not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return u, nil
}

func (s *userService) authResult(u *models.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, User: u}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
