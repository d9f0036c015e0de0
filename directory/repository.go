package directory

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UserRepository persists users via Postgres.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository wraps the given database handle.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts the user or refreshes its profile fields.
func (r *UserRepository) Upsert(ctx context.Context, u User) error {
	const q = `
		INSERT INTO users (id, username, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, q, u.ID, u.Username, u.FirstName, u.LastName); err != nil {
		return fmt.Errorf("directory: upsert user %d: %w", u.ID, err)
	}
	return nil
}

// List returns all known users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("directory: list users: %w", err)
	}
	return users, nil
}

// Count returns the number of known users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("directory: count users: %w", err)
	}
	return n, nil
}

// GroupRepository persists group chats via Postgres.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository wraps the given database handle.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Upsert inserts the group or refreshes its title, marking it active.
func (r *GroupRepository) Upsert(ctx context.Context, g Group) error {
	const q = `
		INSERT INTO groups (id, title, active, created_at, updated_at)
		VALUES ($1, $2, TRUE, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			active = TRUE,
			updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, q, g.ID, g.Title); err != nil {
		return fmt.Errorf("directory: upsert group %d: %w", g.ID, err)
	}
	return nil
}

// SetActive flips the active flag for a group.
func (r *GroupRepository) SetActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE groups SET active = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, active); err != nil {
		return fmt.Errorf("directory: set group %d active=%t: %w", id, active, err)
	}
	return nil
}

// ListActive returns all groups the bot is still a member of.
func (r *GroupRepository) ListActive(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := r.db.SelectContext(ctx, &groups, `SELECT * FROM groups WHERE active ORDER BY id`); err != nil {
		return nil, fmt.Errorf("directory: list active groups: %w", err)
	}
	return groups, nil
}

// CountActive returns the number of active groups.
func (r *GroupRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM groups WHERE active`); err != nil {
		return 0, fmt.Errorf("directory: count active groups: %w", err)
	}
	return n, nil
}
