package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamflow-app/teamflow-backend/internal/db"
	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

const (
	searchQueryMinLength = 3
	searchResultLimit    = 10
	searchCacheTTL       = 60 * time.Second
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)

	// SearchByEmail finds invitation candidates by case-insensitive
	// partial email match. Only active users, non-sensitive fields,
	// at most 10 results.
	SearchByEmail(ctx context.Context, query string) ([]models.UserSummary, error)
}

type userService struct {
	userRepo repository.UserRepository
	cache    *db.RedisDB // optional
}

func NewUserService(userRepo repository.UserRepository, cache *db.RedisDB) UserService {
	return &userService{userRepo: userRepo, cache: cache}
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) SearchByEmail(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < searchQueryMinLength {
		return nil, fmt.Errorf("%w: search query must be at least %d characters", ErrBadRequest, searchQueryMinLength)
	}

	cacheKey := "user_search:" + query
	if s.cache != nil {
		var cached []models.UserSummary
		if s.cache.GetCache(ctx, cacheKey, &cached) {
			return cached, nil
		}
	}

	users, err := s.userRepo.SearchActiveByEmail(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}

	results := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		results = append(results, models.UserSummary{
			ID:             u.ID,
			Name:           u.Name,
			Email:          u.Email,
			ProfilePicture: u.ProfilePicture,
		})
	}

	if s.cache != nil {
		_ = s.cache.SetCache(ctx, cacheKey, results, searchCacheTTL)
	}
	return results, nil
}
