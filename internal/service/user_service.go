package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"flocknet/internal/domain"
	"flocknet/internal/repository"
	"flocknet/internal/storage"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

// ProfileUpdate carries the requested profile changes. Nil fields are left
// untouched. ProfileImg and CoverImg are base64 data URIs.
type ProfileUpdate struct {
	FullName        *string
	Username        *string
	Email           *string
	Bio             *string
	Link            *string
	CurrentPassword *string
	NewPassword     *string
	ProfileImg      *string
	CoverImg        *string
}

// UserService describes account lifecycle and profile operations.
type UserService interface {
	Register(ctx context.Context, fullName, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.User, error)
}

type userService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	images  storage.Service
}

// NewUserService builds a UserService. images may be nil, in which case
// profile and cover image changes are rejected.
func NewUserService(users repository.UserRepository, follows repository.FollowRepository, images storage.Service) UserService {
	return &userService{
		users:   users,
		follows: follows,
		images:  images,
	}
}

func (s *userService) Register(ctx context.Context, fullName, username, email, password string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Followers:    []string{},
		Following:    []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.loadEdges(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.loadEdges(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.loadEdges(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fields repository.UserUpdate

	if (upd.CurrentPassword == nil) != (upd.NewPassword == nil) {
		return nil, fmt.Errorf("%w: provide both your current password and a new password", ErrInvalidInput)
	}
	if upd.CurrentPassword != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*upd.CurrentPassword)); err != nil {
			return nil, fmt.Errorf("%w: current password is incorrect", ErrInvalidInput)
		}
		if len(*upd.NewPassword) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		fields.PasswordHash = &hashed
	}

	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
		}
		if username != user.Username {
			if _, err := s.users.GetByUsername(ctx, username); err == nil {
				return nil, ErrUsernameTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			fields.Username = &username
		}
	}

	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if !emailPattern.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
		}
		if email != user.Email {
			if _, err := s.users.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			fields.Email = &email
		}
	}

	if upd.FullName != nil {
		fullName := strings.TrimSpace(*upd.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
		}
		fields.FullName = &fullName
	}
	fields.Bio = upd.Bio
	fields.Link = upd.Link

	if upd.ProfileImg != nil {
		url, err := s.replaceImage(ctx, *upd.ProfileImg, user.ProfileImg)
		if err != nil {
			return nil, err
		}
		fields.ProfileImg = &url
	}
	if upd.CoverImg != nil {
		url, err := s.replaceImage(ctx, *upd.CoverImg, user.CoverImg)
		if err != nil {
			return nil, err
		}
		fields.CoverImg = &url
	}

	if err := s.users.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadEdges(ctx, updated); err != nil {
		return nil, err
	}
	return sanitizeUser(updated), nil
}

func (s *userService) replaceImage(ctx context.Context, dataURI, previousURL string) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image storage is not configured", ErrInvalidInput)
	}

	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	url, err := s.images.UploadImage(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	// best effort; the new image is already in place
	if previousURL != "" {
		_ = s.images.DeleteImage(ctx, previousURL)
	}
	return url, nil
}

// decodeDataURI splits a "data:<type>;base64,<payload>" URI into its content
// type and decoded payload.
func decodeDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("image must be a base64 data URI")
	}
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URI must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %v", err)
	}
	return contentType, data, nil
}

func (s *userService) loadEdges(ctx context.Context, user *domain.User) error {
	followers, err := s.follows.Followers(ctx, user.ID)
	if err != nil {
		return err
	}
	following, err := s.follows.Following(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Followers = followers
	user.Following = following
	return nil
}

// sanitizeUser strips the password credential before a user leaves the
// service layer.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	if clean.Followers == nil {
		clean.Followers = []string{}
	}
	if clean.Following == nil {
		clean.Following = []string{}
	}
	return &clean
}
