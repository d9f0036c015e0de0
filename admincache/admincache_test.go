package admincache

import (
	"context"
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestIsAdminCachesPositiveProbe(t *testing.T) {
	probes := 0
	cache := New(func(int64) (tele.MemberStatus, error) {
		probes++
		return tele.Administrator, nil
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if !cache.IsAdmin(ctx, -100) {
			t.Fatal("expected admin")
		}
	}
	if probes != 1 {
		t.Fatalf("probes = %d, want 1", probes)
	}
}

func TestIsAdminCachesNegativeProbe(t *testing.T) {
	probes := 0
	cache := New(func(int64) (tele.MemberStatus, error) {
		probes++
		return tele.Member, nil
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if cache.IsAdmin(ctx, -100) {
			t.Fatal("expected non-admin")
		}
	}
	if probes != 1 {
		t.Fatalf("probes = %d, want 1", probes)
	}
}

func TestIsAdminDoesNotCacheErrors(t *testing.T) {
	probes := 0
	cache := New(func(int64) (tele.MemberStatus, error) {
		probes++
		if probes == 1 {
			return "", errors.New("api timeout")
		}
		return tele.Creator, nil
	})

	ctx := context.Background()
	if cache.IsAdmin(ctx, -5) {
		t.Fatal("failed probe should report non-admin")
	}
	if !cache.IsAdmin(ctx, -5) {
		t.Fatal("second probe should succeed and report admin")
	}
	if probes != 2 {
		t.Fatalf("probes = %d, want 2", probes)
	}
}

func TestInvalidateForcesReprobe(t *testing.T) {
	role := tele.Administrator
	probes := 0
	cache := New(func(int64) (tele.MemberStatus, error) {
		probes++
		return role, nil
	})

	ctx := context.Background()
	if !cache.IsAdmin(ctx, -7) {
		t.Fatal("expected admin")
	}

	role = tele.Member
	cache.Invalidate(-7)

	if cache.IsAdmin(ctx, -7) {
		t.Fatal("expected demotion to be observed after invalidate")
	}
	if probes != 2 {
		t.Fatalf("probes = %d, want 2", probes)
	}
}
