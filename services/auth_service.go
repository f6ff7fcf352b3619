package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/repository"
	"github.com/yeremiapane/restaurant-api/utils"
)

type SignupInput struct {
	Email       string
	Password    string
	IsAdmin     bool
	Name        *string
	PhoneNumber *string
}

type LoginResult struct {
	Token  string       `json:"token"`
	UserID uint         `json:"userId"`
	User   *models.User `json:"user"`
}

// AuthService registers staff accounts and exchanges credentials for session tokens.
type AuthService struct {
	repo   *repository.Repository
	hasher utils.PasswordHasher
	tokens *utils.TokenService
	log    logrus.FieldLogger
}

func NewAuthService(repo *repository.Repository, hasher utils.PasswordHasher, tokens *utils.TokenService, log logrus.FieldLogger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, utils.Internal(err)
	}
	if exists {
		return nil, utils.Conflict("The user entered already exist")
	}

	hashed, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, utils.Internal(fmt.Errorf("hash password: %w", err))
	}

	role := models.RoleWaiter
	if in.IsAdmin {
		role = models.RoleAdmin
	}

	user := &models.User{
		Email:       email,
		Password:    hashed,
		Role:        role,
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("The user entered already exist")
		}
		return nil, utils.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("User not found.")
		}
		return nil, utils.Internal(err)
	}

	if !s.hasher.CheckPassword(password, user.Password) {
		return nil, utils.NotFound("Invalid password.")
	}

	token, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, utils.Internal(err)
	}

	return &LoginResult{Token: token, UserID: user.ID, User: user}, nil
}

// FindUserByEmail resolves the account behind a verified token.
func (s *AuthService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindUserByEmail(ctx, normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
