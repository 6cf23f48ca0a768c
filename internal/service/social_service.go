package service

import (
	"context"
	"errors"
	"fmt"

	"flocknet/internal/domain"
	"flocknet/internal/repository"
)

const (
	suggestedSampleSize = 10
	suggestedMax        = 4
)

// SocialService mutates the follow graph.
type SocialService interface {
	// ToggleFollow flips the follow edge actor->target and reports the
	// resulting state. A follow notification is recorded on the
	// not-following -> following transition only.
	ToggleFollow(ctx context.Context, actorID, targetID string) (domain.FollowState, error)
	// SuggestedUsers returns up to four users the caller does not follow yet,
	// drawn from a random sample. An empty result is valid.
	SuggestedUsers(ctx context.Context, callerID string) ([]*domain.User, error)
}

type socialService struct {
	users         repository.UserRepository
	follows       repository.FollowRepository
	notifications NotificationService
}

func NewSocialService(users repository.UserRepository, follows repository.FollowRepository, notifications NotificationService) SocialService {
	return &socialService{
		users:         users,
		follows:       follows,
		notifications: notifications,
	}
}

func (s *socialService) ToggleFollow(ctx context.Context, actorID, targetID string) (domain.FollowState, error) {
	if actorID == targetID {
		return "", ErrSelfAction
	}

	for _, id := range []string{targetID, actorID} {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrNotFound
			}
			return "", err
		}
	}

	following, err := s.follows.Toggle(ctx, actorID, targetID)
	if err != nil {
		return "", fmt.Errorf("toggle follow: %w", err)
	}
	if !following {
		return domain.Unfollowed, nil
	}

	if err := s.notifications.RecordFollow(ctx, actorID, targetID); err != nil {
		// the edge is already in place; surface the failure
		return "", fmt.Errorf("record follow notification: %w", err)
	}
	return domain.Followed, nil
}

func (s *socialService) SuggestedUsers(ctx context.Context, callerID string) ([]*domain.User, error) {
	following, err := s.follows.Following(ctx, callerID)
	if err != nil {
		return nil, err
	}
	followed := make(map[string]struct{}, len(following))
	for _, id := range following {
		followed[id] = struct{}{}
	}

	sample, err := s.users.SampleOthers(ctx, callerID, suggestedSampleSize)
	if err != nil {
		return nil, err
	}

	suggested := []*domain.User{}
	for _, user := range sample {
		if _, ok := followed[user.ID]; ok {
			continue
		}
		suggested = append(suggested, sanitizeUser(user))
		if len(suggested) == suggestedMax {
			break
		}
	}
	return suggested, nil
}
