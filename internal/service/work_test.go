package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestWorkService_CreateAndGet(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "author@example.com")
	actor := claimsFor(t, svc, "author@example.com")

	tag, err := svc.Tag.Create(ctx, actor, TagRequest{Name: "poetry"})
	require.NoError(t, err)

	work, err := svc.Work.Create(ctx, actor, CreateWorkRequest{
		Theme:  "Autumn",
		Text:   "Leaves fall slowly.",
		Price:  500,
		TagIDs: []string{tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, work.UserID)

	got, err := svc.Work.Get(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Autumn", got.Theme)
	assert.Equal(t, []string{tag.ID}, got.TagIDs)
}

func TestWorkService_Create_UnknownTag(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "author@example.com")
	actor := claimsFor(t, svc, "author@example.com")

	_, err := svc.Work.Create(ctx, actor, CreateWorkRequest{
		Theme:  "Theme",
		Text:   "Text",
		TagIDs: []string{"tag-missing"},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestWorkService_Create_NegativePrice(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "author@example.com")
	actor := claimsFor(t, svc, "author@example.com")

	_, err := svc.Work.Create(ctx, actor, CreateWorkRequest{
		Theme: "Theme",
		Text:  "Text",
		Price: -1,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestWorkService_Update_OwnerOnly(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	// First registered user is admin; register a decoy so both actors below
	// are plain members.
	registerUser(t, svc, "admin@example.com")
	registerUser(t, svc, "owner@example.com")
	registerUser(t, svc, "intruder@example.com")

	owner := claimsFor(t, svc, "owner@example.com")
	intruder := claimsFor(t, svc, "intruder@example.com")
	admin := claimsFor(t, svc, "admin@example.com")

	work, err := svc.Work.Create(ctx, owner, CreateWorkRequest{
		Theme: "Original",
		Text:  "Text",
	})
	require.NoError(t, err)

	req := UpdateWorkRequest{Theme: "Changed", Text: "Text"}

	_, err = svc.Work.Update(ctx, intruder, work.ID, req)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	_, err = svc.Work.Update(ctx, owner, work.ID, req)
	require.NoError(t, err)

	// Admins may edit anyone's work.
	_, err = svc.Work.Update(ctx, admin, work.ID, UpdateWorkRequest{
		Theme: "Admin edit", Text: "Text",
	})
	require.NoError(t, err)
}

func TestWorkService_Update_ReplacesTagSet(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "author@example.com")
	actor := claimsFor(t, svc, "author@example.com")

	old, err := svc.Tag.Create(ctx, actor, TagRequest{Name: "old"})
	require.NoError(t, err)
	fresh, err := svc.Tag.Create(ctx, actor, TagRequest{Name: "fresh"})
	require.NoError(t, err)

	work, err := svc.Work.Create(ctx, actor, CreateWorkRequest{
		Theme:  "Theme",
		Text:   "Text",
		TagIDs: []string{old.ID},
	})
	require.NoError(t, err)

	updated, err := svc.Work.Update(ctx, actor, work.ID, UpdateWorkRequest{
		Theme:  "Theme",
		Text:   "Text",
		TagIDs: []string{fresh.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{fresh.ID}, updated.TagIDs)

	got, err := svc.Work.Get(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fresh.ID}, got.TagIDs)
}

func TestWorkService_Delete_SoftAndFiltered(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "author@example.com")
	actor := claimsFor(t, svc, "author@example.com")

	work, err := svc.Work.Create(ctx, actor, CreateWorkRequest{
		Theme: "Theme",
		Text:  "Text",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Work.Delete(ctx, actor, work.ID))

	// Gone from listings, reachable by ID.
	works, err := svc.Work.List(ctx, store.DefaultPaginationParams(), store.WorkFilter{})
	require.NoError(t, err)
	assert.Empty(t, works)

	got, err := svc.Work.Get(ctx, work.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted())

	// Editing a deleted work is refused.
	_, err = svc.Work.Update(ctx, actor, work.ID, UpdateWorkRequest{
		Theme: "Theme", Text: "Text",
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestWorkService_List_Filters(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "alice@example.com")
	registerUser(t, svc, "bob@example.com")
	alice := claimsFor(t, svc, "alice@example.com")
	bob := claimsFor(t, svc, "bob@example.com")

	tag, err := svc.Tag.Create(ctx, alice, TagRequest{Name: "shared"})
	require.NoError(t, err)

	tagged, err := svc.Work.Create(ctx, alice, CreateWorkRequest{
		Theme: "Tagged", Text: "Text", TagIDs: []string{tag.ID},
	})
	require.NoError(t, err)
	_, err = svc.Work.Create(ctx, bob, CreateWorkRequest{Theme: "Plain", Text: "Text"})
	require.NoError(t, err)

	byUser, err := svc.Work.List(ctx, store.DefaultPaginationParams(),
		store.WorkFilter{UserID: alice.UserID})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, tagged.ID, byUser[0].ID)

	byTag, err := svc.Work.List(ctx, store.DefaultPaginationParams(),
		store.WorkFilter{TagID: tag.ID})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, tagged.ID, byTag[0].ID)
}
