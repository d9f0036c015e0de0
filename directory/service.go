package directory

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/calcbot/core/logger"
)

// Users is the persistence port for user records.
type Users interface {
	Upsert(ctx context.Context, u User) error
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}

// Groups is the persistence port for group records.
type Groups interface {
	Upsert(ctx context.Context, g Group) error
	SetActive(ctx context.Context, id int64, active bool) error
	ListActive(ctx context.Context) ([]Group, error)
	CountActive(ctx context.Context) (int, error)
}

const componentName = "service.directory"

// Stats aggregates directory counters for /stats.
type Stats struct {
	Users  int
	Groups int
}

// Service exposes directory operations to handlers. Tracking errors are
// logged and swallowed so a broken database never blocks a reply.
type Service struct {
	users  Users
	groups Groups
}

// NewService builds a Service over Postgres-backed repositories.
func NewService(db *sqlx.DB) *Service {
	return &Service{
		users:  NewUserRepository(db),
		groups: NewGroupRepository(db),
	}
}

// NewServiceWith builds a Service over explicit ports, used in tests.
func NewServiceWith(users Users, groups Groups) *Service {
	return &Service{users: users, groups: groups}
}

// TrackUser records a user sighting. Failures are logged, not returned.
func (s *Service) TrackUser(ctx context.Context, u User) {
	if err := s.users.Upsert(ctx, u); err != nil {
		logger.Warn(ctx, componentName, "track.user.fail",
			slog.Int64("user_id", u.ID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return
	}
	logger.Debug(ctx, componentName, "track.user",
		slog.Int64("user_id", u.ID),
	)
}

// TrackGroup records a group sighting. Failures are logged, not returned.
func (s *Service) TrackGroup(ctx context.Context, g Group) {
	if err := s.groups.Upsert(ctx, g); err != nil {
		logger.Warn(ctx, componentName, "track.group.fail",
			slog.Int64("chat_id", g.ID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return
	}
	logger.Debug(ctx, componentName, "track.group",
		slog.Int64("chat_id", g.ID),
	)
}

// DeactivateGroup marks a group inactive after the bot leaves or is kicked.
func (s *Service) DeactivateGroup(ctx context.Context, id int64) {
	if err := s.groups.SetActive(ctx, id, false); err != nil {
		logger.Warn(ctx, componentName, "group.deactivate.fail",
			slog.Int64("chat_id", id),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return
	}
	logger.Info(ctx, componentName, "group.deactivate",
		slog.Int64("chat_id", id),
	)
}

// ListUsers returns every known user.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// ListActiveGroups returns every group still holding the bot.
func (s *Service) ListActiveGroups(ctx context.Context) ([]Group, error) {
	return s.groups.ListActive(ctx)
}

// Counts returns user and active group totals.
func (s *Service) Counts(ctx context.Context) (Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	groups, err := s.groups.CountActive(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: users, Groups: groups}, nil
}
