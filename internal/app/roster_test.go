package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YF-George/rosterd/internal/auth"
	"github.com/YF-George/rosterd/internal/domain"
	"github.com/YF-George/rosterd/internal/store"
)

func newTestRoster(t *testing.T) *Roster {
	t.Helper()
	return NewRoster(NewRegistry(store.NewMemory()), auth.NewHasher("test-salt"))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func cellEdit(row, col int, value string) domain.EditAction {
	return domain.EditAction{Type: "cell-edit", Row: intPtr(row), Col: intPtr(col), Value: strPtr(value)}
}

func TestAppendEditAndList(t *testing.T) {
	r := newTestRoster(t)
	ctx := context.Background()

	id, err := r.AppendEdit(ctx, "winter-raid", "Lina", "secret-phrase", cellEdit(1, 2, "warrior"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	edits, err := r.Edits(ctx, "winter-raid")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, id, edits[0].ID)
	assert.Equal(t, "Lina", edits[0].DisplayName)
	// hashes are server-side only
	assert.Empty(t, edits[0].PseudonymHash)
	assert.NotEmpty(t, edits[0].CreatedAt)
}

func TestAppendEditValidation(t *testing.T) {
	r := newTestRoster(t)
	ctx := context.Background()

	long := make([]byte, maxEditContentLen+1)
	for i := range long {
		long[i] = 'x'
	}

	cases := []struct {
		name        string
		form        domain.FormID
		displayName string
		pseudonym   string
		action      domain.EditAction
		wantErr     error
	}{
		{"missing form", "", "", "p", cellEdit(0, 0, "v"), ErrMissingFields},
		{"missing pseudonym", "f", "", "", cellEdit(0, 0, "v"), ErrMissingFields},
		{"missing action type", "f", "", "p", domain.EditAction{}, ErrMissingFields},
		{"bad form id", "no spaces allowed", "", "p", cellEdit(0, 0, "v"), ErrInvalidFormID},
		{"bad display name", "f", "evil@example.com", "p", cellEdit(0, 0, "v"), ErrInvalidName},
		{"cell edit without coords", "f", "", "p", domain.EditAction{Type: "cell-edit", Value: strPtr("v")}, ErrInvalidAction},
		{"text edit without content", "f", "", "p", domain.EditAction{Type: "edit"}, ErrInvalidAction},
		{"unknown action type", "f", "", "p", domain.EditAction{Type: "drop-table"}, ErrInvalidAction},
		{"value too long", "f", "", "p", cellEdit(0, 0, string(long)), ErrContentTooLong},
		{"content too long", "f", "", "p", domain.EditAction{Type: "edit", Content: strPtr(string(long))}, ErrContentTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.AppendEdit(ctx, tc.form, tc.displayName, tc.pseudonym, tc.action)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAppendEditDefaultsToAnonymous(t *testing.T) {
	r := newTestRoster(t)
	ctx := context.Background()

	_, err := r.AppendEdit(ctx, "f", "   ", "p", cellEdit(0, 0, "v"))
	require.NoError(t, err)

	edits, err := r.Edits(ctx, "f")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "Anonymous", edits[0].DisplayName)
}

func validMembers() []domain.GroupMember {
	members := make([]domain.GroupMember, domain.GroupSize)
	for i := range members {
		members[i] = domain.GroupMember{Name: "m", Profession: "mage", Weapon: "staff", GearScore: 5000}
	}
	return members
}

func TestAppendGroupAndList(t *testing.T) {
	r := newTestRoster(t)
	ctx := context.Background()

	id, err := r.AppendGroup(ctx, "winter-raid", "Team One", "", validMembers())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	groups, err := r.Groups(ctx, "winter-raid")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Team One", groups[0].DisplayName)
	assert.Len(t, groups[0].Members, domain.GroupSize)
}

func TestAppendGroupValidation(t *testing.T) {
	r := newTestRoster(t)
	ctx := context.Background()

	_, err := r.AppendGroup(ctx, "", "", "", validMembers())
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = r.AppendGroup(ctx, "f", "", "", validMembers()[:5])
	assert.ErrorIs(t, err, ErrInvalidMembers)

	broken := validMembers()
	broken[3].Weapon = ""
	_, err = r.AppendGroup(ctx, "f", "", "", broken)
	assert.ErrorIs(t, err, ErrInvalidMembers)
}

func TestEmptyFormLoadsEmpty(t *testing.T) {
	r := newTestRoster(t)
	ctx := context.Background()

	edits, err := r.Edits(ctx, "never-touched")
	require.NoError(t, err)
	assert.Empty(t, edits)

	groups, err := r.Groups(ctx, "never-touched")
	require.NoError(t, err)
	assert.Empty(t, groups)
}
