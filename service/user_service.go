package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
	"time"

	"github.com/lib/pq"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
)

const profileCacheTTL = 10 * time.Minute

// UserService handles registration and profile reads/updates, with a
// cache-aside Redis layer in front of profile lookups.
type UserService struct {
	userRepo repository.IUserRepository
	cache    ICacheClient
}

func NewUserService(userRepo repository.IUserRepository, cache ICacheClient) *UserService {
	return &UserService{userRepo: userRepo, cache: cache}
}

func profileCacheKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// Register hashes the password and creates the account. Registering an
// already-taken id is rejected instead of silently overwriting the record.
func (s *UserService) Register(req model.SignUpRequest) error {
	_, err := s.userRepo.GetByUserID(req.UserID)
	if err == nil {
		return ErrUserAlreadyExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		UserID:   req.UserID,
		Password: hashedPassword,
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		PhoneNum: req.PhoneNum,
		Height:   req.Height,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Two concurrent signups for the same id can both pass the
		// existence check; the loser hits the primary key instead.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrUserAlreadyExists
		}
		return err
	}

	logger.Log.WithField("user_id", user.UserID).Info("New user registered")
	return nil
}

// GetProfile returns a user's profile, utilizing a cache-aside strategy.
// The cached copy is the JSON view of the record, so the password digest
// and the refresh token never reach the cache.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	cacheKey := profileCacheKey(userID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var user model.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	}

	user, err := s.userRepo.GetByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		s.cache.Set(ctx, cacheKey, data, profileCacheTTL)
	}

	return user, nil
}

// UpdateProfile copies the mutable fields onto the stored record and
// invalidates the cached profile. The target id comes from the
// authenticated context of the caller.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) error {
	user, err := s.userRepo.GetByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	user.Name = req.Name
	user.Age = req.Age
	user.Email = req.Email
	user.PhoneNum = req.PhoneNum
	user.Height = req.Height

	if err := s.userRepo.UpdateProfile(user); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	s.cache.Del(ctx, profileCacheKey(userID))

	logger.Log.WithField("user_id", userID).Info("User profile updated")
	return nil
}
