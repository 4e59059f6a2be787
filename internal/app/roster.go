package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/YF-George/rosterd/internal/auth"
	"github.com/YF-George/rosterd/internal/domain"
)

const maxEditContentLen = 10000

var (
	ErrMissingFields  = errors.New("missing fields")
	ErrInvalidFormID  = errors.New("invalid formId")
	ErrInvalidName    = errors.New("invalid displayName")
	ErrInvalidAction  = errors.New("invalid action format")
	ErrContentTooLong = errors.New("content too long")
	ErrInvalidMembers = errors.New("invalid members")
)

var formIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,100}$`)

// Roster manages the per-form edit log and submitted groups. Both are
// append-only lists in the kv store, read-modify-written as whole
// snapshots like the admission state.
type Roster struct {
	reg    *Registry
	hasher *auth.Hasher
	now    func() time.Time
}

func NewRoster(reg *Registry, hasher *auth.Hasher) *Roster {
	return &Roster{reg: reg, hasher: hasher, now: time.Now}
}

func editsKey(form domain.FormID) string {
	return fmt.Sprintf("form:%s:edits", form)
}

func groupsKey(form domain.FormID) string {
	return fmt.Sprintf("form:%s:groups", form)
}

// Edits returns the edit log for a form with pseudonym hashes
// stripped; hashes are server-side only.
func (r *Roster) Edits(ctx context.Context, form domain.FormID) ([]domain.Edit, error) {
	var edits []domain.Edit
	if err := r.reg.get(ctx, editsKey(form), &edits); err != nil {
		return nil, err
	}
	if edits == nil {
		edits = []domain.Edit{}
	}
	for i := range edits {
		edits[i].PseudonymHash = ""
	}
	return edits, nil
}

// AppendEdit validates and stores one edit, returning its id.
func (r *Roster) AppendEdit(ctx context.Context, form domain.FormID, displayName, pseudonym string, action domain.EditAction) (string, error) {
	if form == "" || pseudonym == "" || action.Type == "" {
		return "", ErrMissingFields
	}
	if !formIDRe.MatchString(string(form)) {
		return "", ErrInvalidFormID
	}

	cleanName := domain.SanitizeDisplayName(displayName)
	if cleanName == "" {
		cleanName = "Anonymous"
	}
	if cleanName != "Anonymous" {
		if err := domain.ValidateDisplayName(cleanName); err != nil {
			return "", ErrInvalidName
		}
	}

	if err := validateAction(action); err != nil {
		return "", err
	}

	var edits []domain.Edit
	if err := r.reg.get(ctx, editsKey(form), &edits); err != nil {
		return "", err
	}
	entry := domain.Edit{
		ID:            uuid.NewString(),
		FormID:        form,
		DisplayName:   cleanName,
		PseudonymHash: r.hasher.Hash(pseudonym),
		Action:        action,
		CreatedAt:     r.now().UTC().Format(time.RFC3339),
	}
	edits = append(edits, entry)
	if err := r.reg.set(ctx, editsKey(form), edits); err != nil {
		return "", err
	}
	log.Info().Str("module", "app.roster").Str("form", string(form)).Str("edit", entry.ID).Str("type", action.Type).Msg("edit appended")
	return entry.ID, nil
}

func validateAction(a domain.EditAction) error {
	switch a.Type {
	case "cell-edit":
		if a.Row == nil || a.Col == nil || a.Value == nil {
			return ErrInvalidAction
		}
		if len(*a.Value) > maxEditContentLen {
			return ErrContentTooLong
		}
	case "edit":
		if a.Content == nil {
			return ErrInvalidAction
		}
		if len(*a.Content) > maxEditContentLen {
			return ErrContentTooLong
		}
	default:
		return ErrInvalidAction
	}
	return nil
}

// Groups returns every submitted group for a form.
func (r *Roster) Groups(ctx context.Context, form domain.FormID) ([]domain.GroupEntry, error) {
	var groups []domain.GroupEntry
	if err := r.reg.get(ctx, groupsKey(form), &groups); err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []domain.GroupEntry{}
	}
	return groups, nil
}

// AppendGroup validates and stores one full roster of GroupSize
// members.
func (r *Roster) AppendGroup(ctx context.Context, form domain.FormID, displayName, pseudonym string, members []domain.GroupMember) (string, error) {
	if form == "" || members == nil {
		return "", ErrMissingFields
	}
	if len(members) != domain.GroupSize {
		return "", ErrInvalidMembers
	}
	for _, m := range members {
		if m.Name == "" || m.Profession == "" || m.Weapon == "" {
			return "", ErrInvalidMembers
		}
	}

	// Group submissions use looser naming than edits: trimmed, at
	// most 50 chars, anything printable.
	cleanName := strings.TrimSpace(displayName)
	if len([]rune(cleanName)) > 50 {
		return "", ErrInvalidName
	}

	chosen := cleanName
	if chosen == "" {
		chosen = "Anonymous"
	}
	if pseudonym == "" {
		pseudonym = chosen
	}

	var groups []domain.GroupEntry
	if err := r.reg.get(ctx, groupsKey(form), &groups); err != nil {
		return "", err
	}
	entry := domain.GroupEntry{
		ID:            uuid.NewString(),
		FormID:        form,
		DisplayName:   cleanName,
		PseudonymHash: r.hasher.Hash(pseudonym),
		Members:       members,
		CreatedAt:     r.now().UTC().Format(time.RFC3339),
	}
	groups = append(groups, entry)
	if err := r.reg.set(ctx, groupsKey(form), groups); err != nil {
		return "", err
	}
	log.Info().Str("module", "app.roster").Str("form", string(form)).Str("group", entry.ID).Msg("group appended")
	return entry.ID, nil
}
