package repo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/db/dbtest"
	"github.com/Skotchmaster/shop_api/internal/models"
)

func newTestRepo(t *testing.T) (*GormRepo, []models.Product) {
	t.Helper()

	gdb := dbtest.New(t)
	products := dbtest.SeedProducts(t, gdb)
	return New(gdb), products
}

func createUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()

	u := &models.User{Username: "u_" + email, Email: email, PasswordHash: "hash"}
	require.NoError(t, r.CreateUserIfNotExists(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func TestCreateUserIfNotExists_Conflict(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	first := createUser(t, r, "a@x.com")

	dup := &models.User{Username: "other", Email: "a@x.com", PasswordHash: "hash2"}
	err := r.CreateUserIfNotExists(ctx, dup)
	require.ErrorIs(t, err, ErrUserAlreadyExist)

	stored, err := r.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "hash", stored.PasswordHash)
}

func TestGetUser_NotFound(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetUserByEmail(ctx, "nobody@x.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = r.GetUserByID(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestListProducts_OrderedByID(t *testing.T) {
	r, products := newTestRepo(t)

	got, err := r.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(products))
	for i := range products {
		assert.Equal(t, products[i].ID, got[i].ID)
		assert.Equal(t, products[i].Name, got[i].Name)
		assert.Equal(t, products[i].Price, got[i].Price)
		assert.Equal(t, products[i].Image, got[i].Image)
	}

	ok, err := r.ProductExists(context.Background(), products[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.ProductExists(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddToCart_IncrementsSingleRow(t *testing.T) {
	r, products := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "a@x.com")

	item, err := r.AddToCart(ctx, u.ID, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), item.Quantity)

	item, err = r.AddToCart(ctx, u.ID, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", u.ID, products[0].ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	lines, err := r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, item.ID, lines[0].ID)
	assert.Equal(t, products[0].ID, lines[0].ProductID)
	assert.Equal(t, products[0].Name, lines[0].Name)
	assert.Equal(t, products[0].Price, lines[0].Price)
	assert.Equal(t, products[0].Image, lines[0].Image)
	assert.Equal(t, uint(2), lines[0].Quantity)
}

func TestDecreaseFromCart(t *testing.T) {
	r, products := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "a@x.com")

	_, err := r.AddToCart(ctx, u.ID, products[1].ID)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, u.ID, products[1].ID)
	require.NoError(t, err)

	deleted, err := r.DecreaseFromCart(ctx, u.ID, products[1].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	item, err := r.GetCartItem(ctx, u.ID, products[1].ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), item.Quantity)

	deleted, err = r.DecreaseFromCart(ctx, u.ID, products[1].ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = r.GetCartItem(ctx, u.ID, products[1].ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	lines, err := r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = r.DecreaseFromCart(ctx, u.ID, products[1].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestGetCart_IsolatedPerUser(t *testing.T) {
	r, products := newTestRepo(t)
	ctx := context.Background()
	alice := createUser(t, r, "a@x.com")
	bob := createUser(t, r, "b@x.com")

	_, err := r.AddToCart(ctx, alice.ID, products[0].ID)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, bob.ID, products[1].ID)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, bob.ID, products[2].ID)
	require.NoError(t, err)

	aliceCart, err := r.GetCart(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceCart, 1)
	assert.Equal(t, products[0].ID, aliceCart[0].ProductID)

	bobCart, err := r.GetCart(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobCart, 2)
	assert.Equal(t, products[1].ID, bobCart[0].ProductID)
	assert.Equal(t, products[2].ID, bobCart[1].ProductID)

	_, err = r.DecreaseFromCart(ctx, alice.ID, products[1].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestAddToCart_ConcurrentAddsKeepOneRow(t *testing.T) {
	gdb := dbtest.NewFile(t)
	products := dbtest.SeedProducts(t, gdb)
	r := New(gdb)
	ctx := context.Background()
	u := createUser(t, r, "a@x.com")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.AddToCart(ctx, u.ID, products[0].ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var items []models.CartItem
	require.NoError(t, r.DB.Where("user_id = ? AND product_id = ?", u.ID, products[0].ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, uint(workers), items[0].Quantity)
}

func TestAddToCart_UnknownProductRejected(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "a@x.com")

	_, err := r.AddToCart(ctx, u.ID, 12345)
	require.Error(t, err)

	_, err = r.AddToCart(ctx, 999, 1)
	require.Error(t, err)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCartItems_CascadeOnDelete(t *testing.T) {
	r, products := newTestRepo(t)
	ctx := context.Background()
	alice := createUser(t, r, "a@x.com")
	bob := createUser(t, r, "b@x.com")

	for _, p := range products[:2] {
		_, err := r.AddToCart(ctx, alice.ID, p.ID)
		require.NoError(t, err)
		_, err = r.AddToCart(ctx, bob.ID, p.ID)
		require.NoError(t, err)
	}

	require.NoError(t, r.DB.Delete(&models.User{}, alice.ID).Error)
	lines, err := r.GetCart(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, r.DB.Delete(&models.Product{}, products[0].ID).Error)
	lines, err = r.GetCart(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, products[1].ID, lines[0].ProductID)

	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
