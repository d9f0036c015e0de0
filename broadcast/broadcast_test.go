package broadcast

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/calcbot/directory"
)

type fakeSender struct {
	sent   []int64
	failAt map[int64]error
}

func (f *fakeSender) SendTo(chatID int64, _ string) error {
	if err, ok := f.failAt[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

type staticUsers struct{ users []directory.User }

func (s staticUsers) Upsert(context.Context, directory.User) error { return nil }
func (s staticUsers) List(context.Context) ([]directory.User, error) {
	return s.users, nil
}
func (s staticUsers) Count(context.Context) (int, error) { return len(s.users), nil }

type staticGroups struct{ groups []directory.Group }

func (s staticGroups) Upsert(context.Context, directory.Group) error        { return nil }
func (s staticGroups) SetActive(context.Context, int64, bool) error         { return nil }
func (s staticGroups) ListActive(context.Context) ([]directory.Group, error) {
	return s.groups, nil
}
func (s staticGroups) CountActive(context.Context) (int, error) { return len(s.groups), nil }

func testDirectory(userIDs, groupIDs []int64) *directory.Service {
	users := staticUsers{}
	for _, id := range userIDs {
		users.users = append(users.users, directory.User{ID: id})
	}
	groups := staticGroups{}
	for _, id := range groupIDs {
		groups.groups = append(groups.groups, directory.Group{ID: id, Active: true})
	}
	return directory.NewServiceWith(users, groups)
}

func TestRunTalliesSumToRecipients(t *testing.T) {
	dir := testDirectory([]int64{1, 2, 3}, []int64{-10, -20})
	sender := &fakeSender{failAt: map[int64]error{
		2:   errors.New("blocked"),
		-20: errors.New("kicked"),
	}}

	report, err := New(dir, sender, Config{}).Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Recipients != 5 {
		t.Fatalf("recipients = %d, want 5", report.Recipients)
	}
	if report.Sent != 3 || report.Failed != 2 {
		t.Fatalf("sent/failed = %d/%d, want 3/2", report.Sent, report.Failed)
	}
	if report.Sent+report.Failed != report.Recipients {
		t.Fatalf("tally does not sum: %+v", report)
	}
}

func TestRunSingleAttemptPerRecipient(t *testing.T) {
	dir := testDirectory([]int64{7}, nil)
	sender := &fakeSender{}

	if _, err := New(dir, sender, Config{}).Run(context.Background(), "once"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sender.sent) != 1 || sender.sent[0] != 7 {
		t.Fatalf("expected exactly one send to 7, got %v", sender.sent)
	}
}

func TestRunCancelledContext(t *testing.T) {
	dir := testDirectory([]int64{1, 2, 3}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(dir, &fakeSender{}, Config{}).Run(ctx, "late")
	if err == nil {
		t.Fatal("expected context error")
	}
	if report.Sent+report.Failed != report.Recipients {
		t.Fatalf("partial tally does not sum: %+v", report)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	dir := testDirectory(nil, nil)

	report, err := New(dir, &fakeSender{}, Config{}).Run(context.Background(), "void")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Recipients != 0 || report.Sent != 0 || report.Failed != 0 {
		t.Fatalf("expected zero report, got %+v", report)
	}
}
