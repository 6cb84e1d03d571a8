package management

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/shell/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Construction Tests
// =============================================================================

func TestNewHiveService_NilStore(t *testing.T) {
	svc, err := NewHiveService(nil, testProfile(), nil, nil)

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestNewHiveService_NilMapper(t *testing.T) {
	_, err := NewHiveService(setupStore(t), nil, nil, nil)
	assert.ErrorIs(t, err, ErrNilMapper)
}

func TestNewHiveService_NilUserIsAnonymous(t *testing.T) {
	s := setupStore(t)
	svc, err := NewHiveService(s, testProfile(), nil, nil)
	require.NoError(t, err)

	created, err := svc.CreateHive(context.Background(), mapping.UpdateHiveRequest{Name: "Anon", Code: "ANON"})
	require.NoError(t, err)

	hive, err := s.GetHive(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, hive.CreatedBy)
}

// =============================================================================
// Query Tests
// =============================================================================

func TestListHives_ReturnsAllOrderedWithCounts(t *testing.T) {
	svc, _ := setupHiveService(t)

	hives, err := svc.ListHives(context.Background())
	require.NoError(t, err)

	require.Len(t, hives, 5)
	for i, h := range hives {
		assert.Equal(t, i+1, h.ID)
	}
	assert.Equal(t, "hive1", hives[0].Code)
	assert.Equal(t, "hive3", hives[2].Code)
	assert.Equal(t, "hive5", hives[4].Code)
	assert.Equal(t, 2, hives[0].HiveSectionCount)
	assert.Equal(t, 3, hives[1].HiveSectionCount)
	assert.Equal(t, 0, hives[2].HiveSectionCount)
}

func TestListHives_IncludesDeleted(t *testing.T) {
	svc, _ := setupHiveService(t)
	ctx := context.Background()
	require.NoError(t, svc.SetHiveStatus(ctx, 4, true))

	hives, err := svc.ListHives(ctx)
	require.NoError(t, err)
	require.Len(t, hives, 5)
	assert.True(t, hives[3].IsDeleted)
}

func TestListHives_StoreError(t *testing.T) {
	boom := errors.New("boom")
	svc, err := NewHiveService(failingStore{err: boom}, testProfile(), nil, discardLogger())
	require.NoError(t, err)

	_, err = svc.ListHives(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGetHive_Found(t *testing.T) {
	svc, _ := setupHiveService(t)

	hive, err := svc.GetHive(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, hive.ID)
	assert.Equal(t, "hive3", hive.Code)
}

func TestGetHive_NotFound(t *testing.T) {
	svc, _ := setupHiveService(t)

	_, err := svc.GetHive(context.Background(), 10)

	svcErr := requireServiceError(t, err, ErrNotFound)
	assert.Equal(t, EntityHive, svcErr.Entity)
	assert.Equal(t, 10, svcErr.ID)
}

func TestListHiveSections_OfHive(t *testing.T) {
	svc, _ := setupHiveService(t)

	sections, err := svc.ListHiveSections(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, sections, 3)
	assert.Equal(t, []string{"sect3", "sect4", "sect5"}, []string{sections[0].Code, sections[1].Code, sections[2].Code})
}

func TestListHiveSections_EmptyHive(t *testing.T) {
	svc, _ := setupHiveService(t)

	sections, err := svc.ListHiveSections(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestListHiveSections_UnknownHive(t *testing.T) {
	svc, _ := setupHiveService(t)

	_, err := svc.ListHiveSections(context.Background(), 10)
	svcErr := requireServiceError(t, err, ErrNotFound)
	assert.Equal(t, EntityHive, svcErr.Entity)
}

// =============================================================================
// Create / Update Tests
// =============================================================================

func TestCreateHive_ExistingCode_Conflict(t *testing.T) {
	svc, s := setupHiveService(t)

	_, err := svc.CreateHive(context.Background(), mapping.UpdateHiveRequest{Name: "Dup", Code: "hive1"})

	svcErr := requireServiceError(t, err, ErrConflict)
	assert.Equal(t, FieldCode, svcErr.Field)

	hives, err := s.ListHives(context.Background())
	require.NoError(t, err)
	assert.Len(t, hives, 5, "no mutation on conflict")
}

func TestCreateHive_CodeOfDeletedHive_Conflict(t *testing.T) {
	svc, _ := setupHiveService(t)
	ctx := context.Background()
	require.NoError(t, svc.SetHiveStatus(ctx, 1, true))

	_, err := svc.CreateHive(ctx, mapping.UpdateHiveRequest{Name: "Dup", Code: "hive1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateHive_NewCode(t *testing.T) {
	svc, s := setupHiveService(t)
	ctx := context.Background()

	created, err := svc.CreateHive(ctx, mapping.UpdateHiveRequest{Name: "Test", Code: "TEST1", Address: "Somewhere"})
	require.NoError(t, err)

	assert.Equal(t, 6, created.ID)
	assert.Equal(t, "Test", created.Name)
	assert.Equal(t, "TEST1", created.Code)
	assert.Equal(t, "Somewhere", created.Address)
	assert.False(t, created.IsDeleted)

	got, err := svc.GetHive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Code, got.Code)
	assert.Equal(t, created.Name, got.Name)

	stored, err := s.GetHive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.CreatedBy)
	assert.Equal(t, 7, stored.LastUpdatedBy)
}

func TestUpdateHive_Success(t *testing.T) {
	svc, s := setupHiveService(t)
	ctx := context.Background()

	updated, err := svc.UpdateHive(ctx, 1, mapping.UpdateHiveRequest{Name: "Renamed", Code: "TEST1", Address: "New"})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "TEST1", updated.Code)
	assert.Equal(t, "New", updated.Address)

	stored, err := s.GetHive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "TEST1", stored.Code)
	assert.True(t, fixtureTime.Equal(stored.CreatedAt))
	assert.True(t, stored.LastUpdated.After(stored.CreatedAt))
}

func TestUpdateHive_KeepOwnCode(t *testing.T) {
	svc, _ := setupHiveService(t)

	updated, err := svc.UpdateHive(context.Background(), 2, mapping.UpdateHiveRequest{Name: "Same code", Code: "hive2"})
	require.NoError(t, err)
	assert.Equal(t, "hive2", updated.Code)
}

func TestUpdateHive_OtherHivesCode_Conflict(t *testing.T) {
	svc, s := setupHiveService(t)
	ctx := context.Background()

	_, err := svc.UpdateHive(ctx, 2, mapping.UpdateHiveRequest{Name: "x", Code: "hive1"})
	requireServiceError(t, err, ErrConflict)

	stored, err := s.GetHive(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "hive2", stored.Code)
	assert.Equal(t, "Hive hive2", stored.Name)
}

func TestUpdateHive_NotFound(t *testing.T) {
	svc, _ := setupHiveService(t)

	_, err := svc.UpdateHive(context.Background(), 10, mapping.UpdateHiveRequest{Name: "x", Code: "x"})
	requireServiceError(t, err, ErrNotFound)
}

func TestUpdateHive_StoreFailure(t *testing.T) {
	boom := errors.New("database is locked")
	svc, err := NewHiveService(failingStore{err: boom}, testProfile(), nil, discardLogger())
	require.NoError(t, err)

	_, err = svc.UpdateHive(context.Background(), 1, mapping.UpdateHiveRequest{Name: "x", Code: "x"})

	assert.ErrorIs(t, err, boom)
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "UpdateHive", svcErr.Op)
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestSetHiveStatus_NotFound(t *testing.T) {
	svc, _ := setupHiveService(t)
	requireServiceError(t, svc.SetHiveStatus(context.Background(), 10, true), ErrNotFound)
}

func TestSetHiveStatus_Toggle(t *testing.T) {
	svc, _ := setupHiveService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetHiveStatus(ctx, 3, true))
	hive, err := svc.GetHive(ctx, 3)
	require.NoError(t, err)
	assert.True(t, hive.IsDeleted)

	// Idempotent
	require.NoError(t, svc.SetHiveStatus(ctx, 3, true))

	require.NoError(t, svc.SetHiveStatus(ctx, 3, false))
	hive, err = svc.GetHive(ctx, 3)
	require.NoError(t, err)
	assert.False(t, hive.IsDeleted)
}

func TestDeleteHive_NotFound(t *testing.T) {
	svc, _ := setupHiveService(t)
	requireServiceError(t, svc.DeleteHive(context.Background(), 10), ErrNotFound)
}

func TestDeleteHive_NotSoftDeleted_Conflict(t *testing.T) {
	svc, _ := setupHiveService(t)
	ctx := context.Background()

	svcErr := requireServiceError(t, svc.DeleteHive(ctx, 3), ErrConflict)
	assert.Equal(t, FieldStatus, svcErr.Field)

	_, err := svc.GetHive(ctx, 3)
	assert.NoError(t, err)
}

func TestDeleteHive_AfterSoftDelete(t *testing.T) {
	svc, _ := setupHiveService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetHiveStatus(ctx, 3, true))
	require.NoError(t, svc.DeleteHive(ctx, 3))

	_, err := svc.GetHive(ctx, 3)
	requireServiceError(t, err, ErrNotFound)
}

func TestDeleteHive_RemovesOwnedSections(t *testing.T) {
	svc, s := setupHiveService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetHiveStatus(ctx, 1, true))
	require.NoError(t, svc.DeleteHive(ctx, 1))

	_, err := svc.GetHive(ctx, 1)
	requireServiceError(t, err, ErrNotFound)

	for _, id := range []int{1, 2} {
		_, err := s.GetHiveSection(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound, "section %d", id)
	}

	remaining, err := s.ListHiveSections(ctx, store.SectionFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
}

func TestCreateHive_ConcurrentSameCode(t *testing.T) {
	svc, s := setupHiveService(t)
	ctx := context.Background()

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.CreateHive(ctx, mapping.UpdateHiveRequest{Name: "Race", Code: "RACE"})
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		requireServiceError(t, err, ErrConflict)
	}
	assert.Equal(t, 1, created)

	hives, err := s.ListHives(ctx)
	require.NoError(t, err)
	assert.Len(t, hives, 6)
}

func TestHiveOperations_CancelledContext(t *testing.T) {
	svc, _ := setupHiveService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateHive(ctx, mapping.UpdateHiveRequest{Name: "x", Code: "X1"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}
