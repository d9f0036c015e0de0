package directory

import (
	"context"
	"errors"
	"testing"
)

type fakeUsers struct {
	upserts []User
	err     error
}

func (f *fakeUsers) Upsert(_ context.Context, u User) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, u)
	return nil
}

func (f *fakeUsers) List(context.Context) ([]User, error) { return f.upserts, f.err }
func (f *fakeUsers) Count(context.Context) (int, error)   { return len(f.upserts), f.err }

type fakeGroups struct {
	upserts     []Group
	deactivated []int64
	err         error
}

func (f *fakeGroups) Upsert(_ context.Context, g Group) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, g)
	return nil
}

func (f *fakeGroups) SetActive(_ context.Context, id int64, active bool) error {
	if f.err != nil {
		return f.err
	}
	if !active {
		f.deactivated = append(f.deactivated, id)
	}
	return nil
}

func (f *fakeGroups) ListActive(context.Context) ([]Group, error) { return f.upserts, f.err }
func (f *fakeGroups) CountActive(context.Context) (int, error)    { return len(f.upserts), f.err }

func TestTrackUserRecords(t *testing.T) {
	users := &fakeUsers{}
	svc := NewServiceWith(users, &fakeGroups{})

	svc.TrackUser(context.Background(), User{ID: 42, Username: "answer"})

	if len(users.upserts) != 1 || users.upserts[0].ID != 42 {
		t.Fatalf("expected one tracked user with id 42, got %+v", users.upserts)
	}
}

func TestTrackUserSwallowsError(t *testing.T) {
	users := &fakeUsers{err: errors.New("db down")}
	svc := NewServiceWith(users, &fakeGroups{})

	// Must not panic or propagate.
	svc.TrackUser(context.Background(), User{ID: 1})
}

func TestDeactivateGroup(t *testing.T) {
	groups := &fakeGroups{}
	svc := NewServiceWith(&fakeUsers{}, groups)

	svc.DeactivateGroup(context.Background(), -100123)

	if len(groups.deactivated) != 1 || groups.deactivated[0] != -100123 {
		t.Fatalf("expected group -100123 deactivated, got %v", groups.deactivated)
	}
}

func TestCounts(t *testing.T) {
	users := &fakeUsers{}
	groups := &fakeGroups{}
	svc := NewServiceWith(users, groups)

	ctx := context.Background()
	svc.TrackUser(ctx, User{ID: 1})
	svc.TrackUser(ctx, User{ID: 2})
	svc.TrackGroup(ctx, Group{ID: -1, Title: "math club"})

	stats, err := svc.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if stats.Users != 2 || stats.Groups != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCountsPropagatesError(t *testing.T) {
	svc := NewServiceWith(&fakeUsers{err: errors.New("boom")}, &fakeGroups{})
	if _, err := svc.Counts(context.Background()); err == nil {
		t.Fatal("expected error from Counts")
	}
}
