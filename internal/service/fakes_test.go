package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"flocknet/internal/domain"
	"flocknet/internal/repository"
)

// -------- in-memory fakes --------

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		copied := *u
		r.users[u.ID] = &copied
	}
	return r
}

func (r *fakeUserRepo) Init(ctx context.Context) error { return nil }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("insert user: %w", repository.ErrConflict)
		}
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id string, upd repository.UserUpdate) error {
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.FullName, upd.FullName)
	set(&u.Username, upd.Username)
	set(&u.Email, upd.Email)
	set(&u.Bio, upd.Bio)
	set(&u.Link, upd.Link)
	set(&u.ProfileImg, upd.ProfileImg)
	set(&u.CoverImg, upd.CoverImg)
	set(&u.PasswordHash, upd.PasswordHash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUserRepo) SampleOthers(ctx context.Context, excludeID string, limit int) ([]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		if id != excludeID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		copied := *r.users[id]
		out = append(out, &copied)
	}
	return out, nil
}

type edge struct{ follower, followee string }

type fakeFollowRepo struct {
	edges     map[edge]bool
	toggleErr error
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[edge]bool{}}
}

func (r *fakeFollowRepo) Init(ctx context.Context) error { return nil }

func (r *fakeFollowRepo) Toggle(ctx context.Context, followerID, followeeID string) (bool, error) {
	if r.toggleErr != nil {
		return false, r.toggleErr
	}
	e := edge{followerID, followeeID}
	if r.edges[e] {
		delete(r.edges, e)
		return false, nil
	}
	r.edges[e] = true
	return true, nil
}

func (r *fakeFollowRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return r.edges[edge{followerID, followeeID}], nil
}

func (r *fakeFollowRepo) Followers(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	for e := range r.edges {
		if e.followee == userID {
			ids = append(ids, e.follower)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeFollowRepo) Following(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	for e := range r.edges {
		if e.follower == userID {
			ids = append(ids, e.followee)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeNotificationRepo struct {
	created   []*domain.Notification
	createErr error
}

func (r *fakeNotificationRepo) Init(ctx context.Context) error { return nil }

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(ctx context.Context, userID string) ([]*domain.Notification, error) {
	out := []*domain.Notification{}
	for _, n := range r.created {
		if n.ToID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.created {
		if n.ToID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByRecipient(ctx context.Context, userID string) error {
	kept := r.created[:0]
	for _, n := range r.created {
		if n.ToID != userID {
			kept = append(kept, n)
		}
	}
	r.created = kept
	return nil
}

type fakeImageStore struct {
	uploads []string
	deleted []string
	uploadN int
}

func (s *fakeImageStore) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	s.uploadN++
	s.uploads = append(s.uploads, contentType)
	return fmt.Sprintf("https://img.example.com/%d", s.uploadN), nil
}

func (s *fakeImageStore) DeleteImage(ctx context.Context, objectURL string) error {
	s.deleted = append(s.deleted, objectURL)
	return nil
}
