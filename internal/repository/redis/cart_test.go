package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
)

func newTestRepo(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCartRepository(client, time.Hour), mr
}

func testCart(userID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		UserID: userID,
		Items: []domain.CartItem{
			{ItemID: "item-1", Name: "hoodie", Price: 2999, Quantity: 2},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCartGet_Missing(t *testing.T) {
	repo, _ := newTestRepo(t)

	cart, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestCartSaveAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := testCart("user-1")
	cart.Version = 3
	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, 3, got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "item-1", got.Items[0].ItemID)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCartSaveIfVersion_FreshCart(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := testCart("user-1")
	saved, err := repo.SaveIfVersion(ctx, cart, 0)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 1, cart.Version)

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Version)
}

func TestCartSaveIfVersion_MatchingVersion(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := testCart("user-1")
	cart.Version = 2
	require.NoError(t, repo.Save(ctx, cart))

	updated := testCart("user-1")
	updated.Items[0].Quantity = 5
	saved, err := repo.SaveIfVersion(ctx, updated, 2)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 3, updated.Version)

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestCartSaveIfVersion_StaleVersion(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := testCart("user-1")
	cart.Version = 4
	require.NoError(t, repo.Save(ctx, cart))

	stale := testCart("user-1")
	saved, err := repo.SaveIfVersion(ctx, stale, 2)
	require.NoError(t, err)
	assert.False(t, saved)

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Version)
}

func TestCartSaveIfVersion_CartVanished(t *testing.T) {
	repo, _ := newTestRepo(t)

	cart := testCart("user-1")
	saved, err := repo.SaveIfVersion(context.Background(), cart, 3)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestCartDelete(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testCart("user-1")))
	require.NoError(t, repo.Delete(ctx, "user-1"))

	assert.False(t, mr.Exists(cartKeyPrefix+"user-1"))
}

func TestCartSave_AppliesTTL(t *testing.T) {
	repo, mr := newTestRepo(t)

	require.NoError(t, repo.Save(context.Background(), testCart("user-1")))

	ttl := mr.TTL(cartKeyPrefix + "user-1")
	assert.Equal(t, time.Hour, ttl)
}
