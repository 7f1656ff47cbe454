package auth

import (
	"context"
	"testing"

	"github.com/shelfmark/shelfmark/internal/model"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	t.Parallel()

	id := &model.Identity{UserID: "user-123", Email: "alice@example.com"}
	ctx := ContextWithIdentity(context.Background(), id)

	got := IdentityFromContext(ctx)
	if got == nil {
		t.Fatal("expected identity in context")
	}
	if got.UserID != "user-123" || got.Email != "alice@example.com" {
		t.Errorf("unexpected identity: %+v", got)
	}

	if UserIDFromContext(ctx) != "user-123" {
		t.Errorf("unexpected user ID: %s", UserIDFromContext(ctx))
	}
}

func TestIdentityFromContext_Missing(t *testing.T) {
	t.Parallel()

	if IdentityFromContext(context.Background()) != nil {
		t.Error("expected nil identity for bare context")
	}
	if UserIDFromContext(context.Background()) != "" {
		t.Error("expected empty user ID for bare context")
	}
}
