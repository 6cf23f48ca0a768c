package repository

import "context"

// FollowRepository persists directed follow edges. An edge is stored exactly
// once, so the follower and following views of it can never disagree.
type FollowRepository interface {
	Init(ctx context.Context) error
	// Toggle flips the edge follower->followee and reports whether the edge
	// exists after the call. The flip is a single atomic statement pair
	// (delete, then insert-if-absent), not a read-modify-write.
	Toggle(ctx context.Context, followerID, followeeID string) (following bool, err error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
}
