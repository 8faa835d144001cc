package services

import (
	"context"
	"errors"
	"fmt"

	"quizbuilder/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db         *gorm.DB
	sessions   *SessionService
	bcryptCost int
}

func NewAuthService(db *gorm.DB, sessions *SessionService, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		db:         db,
		sessions:   sessions,
		bcryptCost: bcryptCost,
	}
}

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

const CredentialsRequired = "Email and password are required"

// Identity is the public view of a user.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserProfile is an identity together with the quizzes it owns.
type UserProfile struct {
	ID      string        `json:"id"`
	Email   string        `json:"email"`
	Quizzes []models.Quiz `json:"quizzes"`
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	User  Identity
	Token string
}

func (s *AuthService) SignUp(ctx context.Context, req *CredentialsRequest) (*AuthResult, error) {
	if err := validateInput(req, CredentialsRequired, &req.Email); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if count > 0 {
		return nil, newError(ErrConflict, "Email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		// A concurrent sign-up with the same email loses on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(ErrConflict, "Email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authenticated(&user)
}

func (s *AuthService) SignIn(ctx context.Context, req *CredentialsRequest) (*AuthResult, error) {
	if err := validateInput(req, CredentialsRequired, &req.Email); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrInvalidCredentials, "Invalid Credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, newError(ErrInvalidCredentials, "Invalid Credentials")
	}

	return s.authenticated(&user)
}

func (s *AuthService) authenticated(user *models.User) (*AuthResult, error) {
	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &AuthResult{
		User:  Identity{ID: user.ID, Email: user.Email},
		Token: token,
	}, nil
}

// SignOut revokes the token if it still resolves. It never reports an
// authentication failure.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", userID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	quizzes := user.Quizzes
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}
	return &UserProfile{ID: user.ID, Email: user.Email, Quizzes: quizzes}, nil
}

// CheckAuth reports whether token resolves to an existing user. Unlike the
// auth middleware it verifies the user row.
func (s *AuthService) CheckAuth(ctx context.Context, token string) (bool, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", session.UserID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return count > 0, nil
}
