// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
)

func testUser(id, email string) *User {
	now := time.Now().UTC().Truncate(time.Second)
	return &User{
		ID:        id,
		Email:     email,
		Name:      "Test Member",
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewRepository(store)
	ctx := context.Background()

	u := testUser("id-1", "jo@example.com")
	require.NoError(t, repo.Create(ctx, u, "hash-1"))

	got, err := repo.GetByEmail(ctx, "jo@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Name, got.Name)

	got, err = repo.GetByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", got.Email)

	hash, err := repo.GetCredentialHash(ctx, "jo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", hash)
}

func TestRepository_EmailLookupIsNormalized(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("id-1", "jo@example.com"), "h"))

	got, err := repo.GetByEmail(ctx, "  JO@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
}

func TestRepository_CreateDuplicate(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("id-1", "jo@example.com"), "h1"))

	err := repo.Create(ctx, testUser("id-2", "jo@example.com"), "h2")
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	// the loser must not clobber the winner's profile
	got, err := repo.GetByEmail(ctx, "jo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
}

func TestRepository_GetByIDScanFallback(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("id-1", "jo@example.com"), "h"))

	// simulate a profile written before the id index existed
	require.NoError(t, store.Delete(ctx, "userid:id-1"))

	got, err := repo.GetByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", got.Email)
}

func TestRepository_GetByIDMissing(t *testing.T) {
	repo := NewRepository(kv.NewMemoryStore())

	_, err := repo.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_Swap(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewRepository(store)
	ctx := context.Background()

	u := testUser("id-1", "jo@example.com")
	require.NoError(t, repo.Create(ctx, u, "h"))

	stored, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)

	next := *stored
	next.EcoPoints = 10

	ok, err := repo.Swap(ctx, stored, &next)
	require.NoError(t, err)
	assert.True(t, ok)

	// a second swap from the same snapshot must lose
	next2 := *stored
	next2.EcoPoints = 20
	ok, err = repo.Swap(ctx, stored, &next2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, 10, got.EcoPoints)
}

func TestRepository_Count(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewRepository(store)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Create(ctx, testUser("id-1", "a@example.com"), "h"))
	require.NoError(t, repo.Create(ctx, testUser("id-2", "b@example.com"), "h"))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
