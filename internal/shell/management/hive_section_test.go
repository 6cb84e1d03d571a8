package management

import (
	"context"
	"sync"
	"testing"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/shell/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHiveSectionService_NilStore(t *testing.T) {
	svc, err := NewHiveSectionService(nil, nil, nil, nil)

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrNilStore)
}

// =============================================================================
// Query Tests
// =============================================================================

func TestListHiveSections_All(t *testing.T) {
	svc, _ := setupHiveSectionService(t)

	sections, err := svc.ListHiveSections(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, sections, 5)
	assert.Equal(t, "sect1", sections[0].Code)
	assert.Equal(t, "sect3", sections[2].Code)
	assert.Equal(t, "sect5", sections[4].Code)
}

func TestListHiveSections_FilteredByHive(t *testing.T) {
	svc, _ := setupHiveSectionService(t)
	hiveID := 2

	sections, err := svc.ListHiveSections(context.Background(), &hiveID)
	require.NoError(t, err)

	require.Len(t, sections, 3)
	for i, s := range sections {
		assert.Equal(t, hiveID, s.HiveID)
		if i > 0 {
			assert.Greater(t, s.ID, sections[i-1].ID)
		}
	}
}

func TestListHiveSections_FilterUnknownHive(t *testing.T) {
	svc, _ := setupHiveSectionService(t)
	hiveID := 10

	sections, err := svc.ListHiveSections(context.Background(), &hiveID)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestGetHiveSection_Found(t *testing.T) {
	svc, _ := setupHiveSectionService(t)

	section, err := svc.GetHiveSection(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, section.ID)
	assert.Equal(t, 2, section.HiveID)
}

func TestGetHiveSection_NotFound(t *testing.T) {
	svc, _ := setupHiveSectionService(t)

	_, err := svc.GetHiveSection(context.Background(), 10)
	svcErr := requireServiceError(t, err, ErrNotFound)
	assert.Equal(t, EntityHiveSection, svcErr.Entity)
}

// =============================================================================
// Create / Update Tests
// =============================================================================

func TestCreateHiveSection_Success(t *testing.T) {
	svc, _ := setupHiveSectionService(t)
	ctx := context.Background()

	created, err := svc.CreateHiveSection(ctx, mapping.UpdateHiveSectionRequest{Name: "CreateName", Code: "TEST1", HiveID: 2})
	require.NoError(t, err)

	assert.Equal(t, "CreateName", created.Name)
	assert.Equal(t, "TEST1", created.Code)
	assert.Equal(t, 2, created.HiveID)
	assert.False(t, created.IsDeleted)

	got, err := svc.GetHiveSection(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "TEST1", got.Code)
}

func TestCreateHiveSection_InSoftDeletedHive(t *testing.T) {
	svc, s := setupHiveSectionService(t)
	ctx := context.Background()
	hive, err := s.GetHive(ctx, 4)
	require.NoError(t, err)
	hive.IsDeleted = true
	require.NoError(t, s.ReplaceHive(ctx, hive))

	_, err = svc.CreateHiveSection(ctx, mapping.UpdateHiveSectionRequest{Name: "x", Code: "S4", HiveID: 4})
	assert.NoError(t, err)
}

func TestCreateHiveSection_ExistingCode_Conflict(t *testing.T) {
	svc, s := setupHiveSectionService(t)
	ctx := context.Background()

	_, err := svc.CreateHiveSection(ctx, mapping.UpdateHiveSectionRequest{Name: "CreateName", Code: "sect1", HiveID: 2})
	svcErr := requireServiceError(t, err, ErrConflict)
	assert.Equal(t, FieldCode, svcErr.Field)

	count, err := s.CountHiveSections(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCreateHiveSection_UnknownHive_NotFound(t *testing.T) {
	svc, s := setupHiveSectionService(t)
	ctx := context.Background()

	_, err := svc.CreateHiveSection(ctx, mapping.UpdateHiveSectionRequest{Name: "CreateName", Code: "TEST7", HiveID: 10})

	svcErr := requireServiceError(t, err, ErrNotFound)
	assert.Equal(t, EntityHive, svcErr.Entity)
	assert.Equal(t, FieldHiveID, svcErr.Field)
	assert.Equal(t, 10, svcErr.ID)

	exists, err := s.HiveSectionCodeExists(ctx, "TEST7", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateHiveSection_Success(t *testing.T) {
	svc, _ := setupHiveSectionService(t)

	updated, err := svc.UpdateHiveSection(context.Background(), 1, mapping.UpdateHiveSectionRequest{Name: "UpdateName", Code: "TEST1", HiveID: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "UpdateName", updated.Name)
	assert.Equal(t, "TEST1", updated.Code)
	assert.Equal(t, 2, updated.HiveID)
}

func TestUpdateHiveSection_OtherSectionsCode_Conflict(t *testing.T) {
	svc, s := setupHiveSectionService(t)
	ctx := context.Background()

	_, err := svc.UpdateHiveSection(ctx, 3, mapping.UpdateHiveSectionRequest{Name: "UpdateName", Code: "sect1", HiveID: 2})
	requireServiceError(t, err, ErrConflict)

	stored, err := s.GetHiveSection(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "sect3", stored.Code)
}

func TestUpdateHiveSection_NotFound(t *testing.T) {
	svc, _ := setupHiveSectionService(t)

	_, err := svc.UpdateHiveSection(context.Background(), 10, mapping.UpdateHiveSectionRequest{Name: "UpdateName", Code: "TEST2", HiveID: 2})
	svcErr := requireServiceError(t, err, ErrNotFound)
	assert.Equal(t, EntityHiveSection, svcErr.Entity)
}

func TestUpdateHiveSection_UnknownHive_NotFound(t *testing.T) {
	svc, s := setupHiveSectionService(t)
	ctx := context.Background()

	_, err := svc.UpdateHiveSection(ctx, 1, mapping.UpdateHiveSectionRequest{Name: "UpdateName", Code: "TEST2", HiveID: 10})
	svcErr := requireServiceError(t, err, ErrNotFound)
	assert.Equal(t, EntityHive, svcErr.Entity)

	stored, err := s.GetHiveSection(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.HiveID)
	assert.Equal(t, "sect1", stored.Code)
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestSetHiveSectionStatus(t *testing.T) {
	svc, _ := setupHiveSectionService(t)
	ctx := context.Background()

	requireServiceError(t, svc.SetHiveSectionStatus(ctx, 10, true), ErrNotFound)

	require.NoError(t, svc.SetHiveSectionStatus(ctx, 2, true))
	section, err := svc.GetHiveSection(ctx, 2)
	require.NoError(t, err)
	assert.True(t, section.IsDeleted)

	require.NoError(t, svc.SetHiveSectionStatus(ctx, 2, false))
	section, err = svc.GetHiveSection(ctx, 2)
	require.NoError(t, err)
	assert.False(t, section.IsDeleted)
}

func TestDeleteHiveSection_NotSoftDeleted_Conflict(t *testing.T) {
	svc, _ := setupHiveSectionService(t)

	svcErr := requireServiceError(t, svc.DeleteHiveSection(context.Background(), 3), ErrConflict)
	assert.Equal(t, FieldStatus, svcErr.Field)
}

func TestDeleteHiveSection_NotFound(t *testing.T) {
	svc, _ := setupHiveSectionService(t)
	requireServiceError(t, svc.DeleteHiveSection(context.Background(), 10), ErrNotFound)
}

func TestDeleteHiveSection_AfterSoftDelete(t *testing.T) {
	svc, _ := setupHiveSectionService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetHiveSectionStatus(ctx, 3, true))
	require.NoError(t, svc.DeleteHiveSection(ctx, 3))

	_, err := svc.GetHiveSection(ctx, 3)
	requireServiceError(t, err, ErrNotFound)
}

func TestCreateHiveSection_ConcurrentSameCode(t *testing.T) {
	svc, s := setupHiveSectionService(t)
	ctx := context.Background()

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.CreateHiveSection(ctx, mapping.UpdateHiveSectionRequest{
				Name:   "Race",
				Code:   "RACE",
				HiveID: 1 + i%2,
			})
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

	sections, err := s.ListHiveSections(ctx, store.SectionFilter{})
	require.NoError(t, err)
	assert.Len(t, sections, 6)
}
