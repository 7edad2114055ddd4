package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedFile = `
organizations:
  - id: org-1
    name: Acme
    pulses:
      - id: pulse-1
        name: Engineering
      - id: pulse-2
        name: Alice
        category: personal
users:
  - id: user-1
    email: " Alice@Example.com "
    name: Alice
    memberships:
      - organization: org-1
        pulse: pulse-2
        role: owner
  - id: user-2
    email: bob@example.com
    timezone: Asia/Tokyo
    memberships:
      - organization: org-1
      - organization: org-1
        pulse: pulse-1
`

func TestSeedApply(t *testing.T) {
	seed, err := ReadSeed(strings.NewReader(seedFile))
	require.NoError(t, err)

	ctx := context.Background()
	store := memory.NewStore()

	n, err := seed.Apply(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	dir := store.Directory()

	p, err := dir.FindPulseByID(ctx, "pulse-1")
	require.NoError(t, err)
	assert.Equal(t, model.PulseCategoryTeam, p.Category)

	owner, err := dir.PulseOwner(ctx, "pulse-2")
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner.ID)

	users, err := dir.FindUsersByEmails(ctx, []string{"alice@example.com"})
	require.NoError(t, err)
	assert.Contains(t, users, "alice@example.com")

	bob, err := dir.FindUserByID(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", bob.Timezone)

	ok, err := dir.IsPulseMember(ctx, "pulse-1", "user-2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.IsOrganizationMember(ctx, "org-1", "user-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadSeedRejectsUnknownKeys(t *testing.T) {
	_, err := ReadSeed(strings.NewReader("organisations: []\n"))
	assert.Error(t, err)
}

func TestSeedApplyRollsBack(t *testing.T) {
	seed := &Seed{
		Organizations: []SeedOrganization{{ID: "org-1", Name: "Acme"}},
		Users:         []SeedUser{{ID: "user-1"}},
	}

	ctx := context.Background()
	store := memory.NewStore()

	_, err := seed.Apply(ctx, store)
	require.Error(t, err)

	_, err = store.Directory().FindOrganizationByID(ctx, "org-1")
	assert.Error(t, err)
}
