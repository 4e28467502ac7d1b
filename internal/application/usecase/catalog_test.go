package usecase

import (
	"context"
	"testing"

	"techcatalog/internal/domain"
	"techcatalog/internal/infrastructure/cache"
	"techcatalog/internal/infrastructure/repository"

	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (*CatalogService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewCatalogService(repository.NewTechRepo(store), nil, nil, 0), store
}

func strPtr(s string) *string { return &s }

func TestCreate_RequiresNameAndDescription(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateTechInput{Name: "", Description: "x"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, domain.CreateTechInput{Name: "X", Description: ""})
	require.ErrorIs(t, err, domain.ErrValidation)

	// только пробелы — тоже пусто
	_, err = svc.Create(ctx, domain.CreateTechInput{Name: "   ", Description: "x"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_RejectsNonAlphanumericName(t *testing.T) {
	svc, _ := newCatalog(t)

	_, err := svc.Create(context.Background(), domain.CreateTechInput{Name: "!!!", Description: "x"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_TrimsAndDefaults(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{
		Name:        "  Long Jump!!  Boost  ",
		Description: " gap clearing trick ",
		Tags:        []string{" Flip ", "", "basics"},
		Aka:         []string{"", "  "},
		VideoURL:    "  ",
	})
	require.NoError(t, err)
	require.Equal(t, "longjumpboost", id)

	tech, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Long Jump!!  Boost", tech.Name)
	require.Equal(t, "gap clearing trick", tech.Description)
	require.Equal(t, domain.DifficultyUnrated, tech.Difficulty)
	require.Equal(t, []string{"flip", "basics"}, tech.Tags)
	require.Nil(t, tech.Aka)
	require.Empty(t, tech.VideoURL)
	require.False(t, tech.CreatedAt.IsZero())
}

func TestCreate_OptionalFieldsAbsentWhenEmpty(t *testing.T) {
	svc, store := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{Name: "Gainer", Description: "x"})
	require.NoError(t, err)

	fields, err := store.Get(ctx, repository.TechCollection, id)
	require.NoError(t, err)
	require.NotContains(t, fields, repository.FieldTags)
	require.NotContains(t, fields, repository.FieldAka)
	require.NotContains(t, fields, repository.FieldVideoURL)
}

func TestCreate_ResolvesCollisions(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{Name: "Flip", Description: "x"})
	require.NoError(t, err)
	require.Equal(t, "flip", id)

	id, err = svc.Create(ctx, domain.CreateTechInput{Name: "FLIP", Description: "y"})
	require.NoError(t, err)
	require.Equal(t, "flip2", id)

	id, err = svc.Create(ctx, domain.CreateTechInput{Name: "flip!", Description: "z"})
	require.NoError(t, err)
	require.Equal(t, "flip3", id)
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string) (func(), error) {
	return nil, cache.ErrLockHeld
}

func TestCreate_BusyWhenLockHeld(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCatalogService(repository.NewTechRepo(store), nil, heldLocker{}, 0)

	_, err := svc.Create(context.Background(), domain.CreateTechInput{Name: "Flip", Description: "x"})
	require.ErrorIs(t, err, ErrCreateBusy)
}

func TestUpdate_PartialAndClearing(t *testing.T) {
	svc, store := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{
		Name:        "Cork",
		Description: "off-axis flip",
		Difficulty:  "7",
		Tags:        []string{"twist"},
		VideoURL:    "https://example.com/cork",
	})
	require.NoError(t, err)

	err = svc.Update(ctx, id, domain.UpdateTechInput{
		Description: strPtr(" updated description "),
		Tags:        &[]string{},
		VideoURL:    strPtr(""),
	})
	require.NoError(t, err)

	fields, err := store.Get(ctx, repository.TechCollection, id)
	require.NoError(t, err)
	require.Equal(t, "updated description", fields[repository.FieldDescription])
	// пустые опциональные поля удаляются, а не хранятся пустыми контейнерами
	require.NotContains(t, fields, repository.FieldTags)
	require.NotContains(t, fields, repository.FieldVideoURL)
	// не присланные поля не тронуты
	require.Equal(t, "Cork", fields[repository.FieldName])
	require.Equal(t, "7", fields[repository.FieldDifficulty])
	require.Contains(t, fields, repository.FieldUpdatedAt)
}

func TestUpdate_RenameKeepsID(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{Name: "Cork", Description: "x"})
	require.NoError(t, err)

	err = svc.Update(ctx, id, domain.UpdateTechInput{Name: strPtr("Corkscrew 720")})
	require.NoError(t, err)

	tech, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "cork", tech.ID)
	require.Equal(t, "Corkscrew 720", tech.Name)
}

func TestUpdate_ValidationAndNotFound(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{Name: "Cork", Description: "x"})
	require.NoError(t, err)

	err = svc.Update(ctx, id, domain.UpdateTechInput{Name: strPtr("  ")})
	require.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Update(ctx, "ghost", domain.UpdateTechInput{Description: strPtr("y")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_DifficultyNormalized(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{Name: "Cork", Description: "x", Difficulty: "7"})
	require.NoError(t, err)

	blank := domain.DifficultyInput(" ")
	err = svc.Update(ctx, id, domain.UpdateTechInput{Difficulty: &blank})
	require.NoError(t, err)

	tech, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.DifficultyUnrated, tech.Difficulty)
}

func TestDelete_Idempotent(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateTechInput{Name: "Cork", Description: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, "never-existed"))

	_, err = svc.GetByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_AppliesSpec(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateTechInput{Name: "Backflip", Description: "x", Difficulty: "3", Tags: []string{"flip"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateTechInput{Name: "Cork", Description: "y", Difficulty: "7", Tags: []string{"twist"}})
	require.NoError(t, err)

	techs, err := svc.List(ctx, domain.QuerySpec{Tags: []string{"twist"}})
	require.NoError(t, err)
	require.Len(t, techs, 1)
	require.Equal(t, "cork", techs[0].ID)
}
