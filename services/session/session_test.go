package sessionsvc

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	store := &memoryStore{revoked: make(map[string]time.Time), now: func() time.Time { return now }}

	if err := store.Revoke(ctx, "active", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}
	if err := store.Revoke(ctx, "expired", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}

	tests := []struct {
		jti  string
		want bool
	}{
		{"active", true},
		{"expired", false},
		{"unknown", false},
	}
	for _, tc := range tests {
		got, err := store.IsRevoked(ctx, tc.jti)
		if err != nil {
			t.Fatalf("IsRevoked(%s) failed: %v", tc.jti, err)
		}
		if got != tc.want {
			t.Errorf("IsRevoked(%s) = %v; want %v", tc.jti, got, tc.want)
		}
	}

	// once the token expires, it is no longer tracked
	now = now.Add(2 * time.Hour)
	if revoked, _ := store.IsRevoked(ctx, "active"); revoked {
		t.Error("IsRevoked(active) = true after expiry; want false")
	}
	_ = store.Revoke(ctx, "other", now.Add(time.Hour))
	if _, ok := store.revoked["active"]; ok {
		t.Error("expired entry was not dropped")
	}
}
