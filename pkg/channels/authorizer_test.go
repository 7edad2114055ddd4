package channels

import (
	"context"
	"testing"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAuthorizer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	dir := store.Directory()

	require.NoError(t, dir.CreateOrganization(ctx, &model.Organization{ID: "org-1", Name: "Acme"}))
	require.NoError(t, dir.CreatePulse(ctx, &model.Pulse{ID: "pulse-1", OrganizationID: "org-1", Name: "Design"}))
	require.NoError(t, dir.AddMembership(ctx, model.Membership{UserID: "member", OrganizationID: "org-1", PulseID: "pulse-1", Role: model.RoleMember}))
	require.NoError(t, dir.AddMembership(ctx, model.Membership{UserID: "org-only", OrganizationID: "org-1"}))

	require.NoError(t, store.Sessions().Create(ctx, &model.Session{ID: "s-1", PulseID: "pulse-1", UserID: "creator"}))
	_, err := store.Attendees().AddAll(ctx, "s-1", []model.Attendee{
		{UserID: "guest", Email: "guest@example.com"},
		{Email: "external@example.com", External: true},
	})
	require.NoError(t, err)

	a := NewStoreAuthorizer(store)

	tests := []struct {
		user    string
		channel Channel
		want    bool
	}{
		{"creator", Session("s-1"), true},
		{"guest", Session("s-1"), true},
		{"member", Session("s-1"), true},
		{"org-only", Session("s-1"), false},
		{"stranger", Session("s-1"), false},
		{"creator", Session("missing"), false},
		{"member", Pulse("pulse-1"), true},
		{"org-only", Pulse("pulse-1"), false},
		{"org-only", Organization("org-1"), true},
		{"member", Organization("org-1"), true},
		{"stranger", Organization("org-1"), false},
		{"member", UserNotification("member"), true},
		{"member", UserNotification("guest"), false},
		{"", UserNotification(""), false},
	}

	for _, tt := range tests {
		got, err := a.Authorize(ctx, tt.user, tt.channel)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s on %s", tt.user, tt.channel)
	}
}

func TestStoreAuthorizerUnknownResource(t *testing.T) {
	a := NewStoreAuthorizer(memory.NewStore())
	_, err := a.Authorize(context.Background(), "u", Channel{Resource: "task", ID: "1"})
	assert.True(t, IsInvalidChannel(err))
}
