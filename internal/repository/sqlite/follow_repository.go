package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"flocknet/internal/repository"
)

const createFollowsTable = `
CREATE TABLE IF NOT EXISTS follows (
	follower_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	followee_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (follower_id, followee_id),
	CHECK (follower_id != followee_id)
);
CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id);
`

// FollowRepository stores each directed edge as one row, so the "followers"
// and "following" views of an edge cannot drift apart.
type FollowRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) repository.FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFollowsTable); err != nil {
		return fmt.Errorf("create follows table: %w", err)
	}
	return nil
}

func (r *FollowRepository) Toggle(ctx context.Context, followerID, followeeID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("delete follow edge: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle rows affected: %w", err)
	}

	following := false
	if deleted == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, ?)`,
			followerID, followeeID, time.Now().UTC()); err != nil {
			return false, fmt.Errorf("insert follow edge: %w", err)
		}
		following = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return following, nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query follow edge: %w", err)
	}
	return true, nil
}

func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	return r.edgeIDs(ctx,
		`SELECT follower_id FROM follows WHERE followee_id = ?`, userID)
}

func (r *FollowRepository) Following(ctx context.Context, userID string) ([]string, error) {
	return r.edgeIDs(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = ?`, userID)
}

func (r *FollowRepository) edgeIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query follow edges: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan follow edge: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query follow edges: %w", err)
	}
	return ids, nil
}
