package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendwise/spendwise/internal/media"
)

// avatarFolder is the CDN folder profile images are uploaded under.
const avatarFolder = "users"

// Service manages account lifecycle.
type Service struct {
	repo     Repository
	uploader media.Uploader
}

// NewService creates a new identity service.
func NewService(repo Repository, uploader media.Uploader) *Service {
	if uploader == nil {
		uploader = media.StaticUploader{}
	}
	return &Service{repo: repo, uploader: uploader}
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if !strings.Contains(email, "@") {
		return User{}, errors.New("a valid email is required")
	}
	if len(creds.Password) < 6 {
		return User{}, errors.New("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  creds.DisplayName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies credentials and records the login time.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, errors.New("invalid email or password")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return User{}, err
	}
	user.LastLogin = now

	return user, nil
}

// ProfileInput captures a profile edit.
type ProfileInput struct {
	UserID      string
	DisplayName string
	Photo       string
}

// UpdateProfile stores the display name and uploads a new avatar when the
// photo reference is not already hosted.
func (s *Service) UpdateProfile(ctx context.Context, input ProfileInput) (User, error) {
	user, err := s.repo.FindByID(ctx, input.UserID)
	if err != nil {
		return User{}, err
	}

	photo := user.PhotoURL
	if input.Photo != "" {
		photo, err = s.uploader.Upload(ctx, input.Photo, avatarFolder)
		if err != nil {
			return User{}, err
		}
	}

	name := input.DisplayName
	if name == "" {
		name = user.DisplayName
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, name, photo); err != nil {
		return User{}, err
	}

	user.DisplayName = name
	user.PhotoURL = photo
	return user, nil
}
