package notification

import (
	"context"
	"testing"

	"github.com/jdblank/fire-backend/internal/user"
)

type fakeRepo struct {
	Repository
	inApp  []InAppNotification
	tokens []string
	logs   []NotificationLog
}

func (f *fakeRepo) CreateInAppBatch(ctx context.Context, notifications []InAppNotification) error {
	f.inApp = append(f.inApp, notifications...)
	return nil
}

func (f *fakeRepo) ActiveTokensForUsers(ctx context.Context, userIDs []uint) ([]string, error) {
	return f.tokens, nil
}

func (f *fakeRepo) CreateLog(ctx context.Context, entry *NotificationLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}

type fakeUserRepo struct {
	user.Repository
	byRole map[string][]uint
}

func (f *fakeUserRepo) IDsByRole(roleName string) ([]uint, error) {
	return f.byRole[roleName], nil
}

func (f *fakeUserRepo) EmailsByRole(roleName string) ([]string, error) {
	return nil, nil
}

func TestBroadcastFansOutToEveryRoleMemberOnce(t *testing.T) {
	repo := &fakeRepo{}
	users := &fakeUserRepo{byRole: map[string][]uint{
		"member":    {1, 2, 3},
		"organizer": {3, 4}, // user 3 holds both roles
	}}
	svc := &service{repo: repo, userRepo: users}

	err := svc.BroadcastToRoles(context.Background(), []string{"member", "organizer"},
		"New Event", "Something is happening", "event")
	if err != nil {
		t.Fatal(err)
	}

	if len(repo.inApp) != 4 {
		t.Fatalf("got %d in-app notifications, want 4 (deduplicated)", len(repo.inApp))
	}
	seen := map[uint]bool{}
	for _, n := range repo.inApp {
		if seen[n.UserID] {
			t.Errorf("user %d notified twice", n.UserID)
		}
		seen[n.UserID] = true
		if n.Title != "New Event" || n.Category != "event" {
			t.Errorf("unexpected notification %+v", n)
		}
	}

	if len(repo.logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(repo.logs))
	}
	if repo.logs[0].Recipients != 4 {
		t.Errorf("log recipients = %d, want 4", repo.logs[0].Recipients)
	}
}

func TestBroadcastNoMatchingUsersIsANoOp(t *testing.T) {
	repo := &fakeRepo{}
	svc := &service{repo: repo, userRepo: &fakeUserRepo{byRole: map[string][]uint{}}}

	err := svc.BroadcastToRoles(context.Background(), []string{"member"}, "Title", "Body", "event")
	if err != nil {
		t.Fatal(err)
	}
	if len(repo.inApp) != 0 || len(repo.logs) != 0 {
		t.Error("expected no notifications or logs for empty audience")
	}
}
