// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshkart/grocery-backend/internal/models"
)

func TestCartAddReplacesQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	user := createTestUser(t, db, "open-id-cart-1")
	category := createTestCategory(t, db, "fruits")
	product := createTestProduct(t, db, category.ID, "Apples", 10000, 50)

	first, err := svc.Add(user.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	// Adding the same product again replaces the quantity in place
	// rather than accumulating or duplicating the row.
	second, err := svc.Add(user.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	user := createTestUser(t, db, "open-id-cart-2")
	category := createTestCategory(t, db, "fruits")
	product := createTestProduct(t, db, category.ID, "Bananas", 4500, 50)

	item, err := svc.Add(user.ID, &AddCartItemRequest{ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestCartAddInactiveProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	user := createTestUser(t, db, "open-id-cart-3")
	category := createTestCategory(t, db, "fruits")
	product := createTestProduct(t, db, category.ID, "Ghost", 100, 10)
	require.NoError(t, db.Model(product).Update("is_active", false).Error)

	_, err := svc.Add(user.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartUpdateScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	owner := createTestUser(t, db, "open-id-cart-4")
	other := createTestUser(t, db, "open-id-cart-5")
	category := createTestCategory(t, db, "fruits")
	product := createTestProduct(t, db, category.ID, "Oranges", 6000, 50)

	item, err := svc.Add(owner.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Update(other.ID, item.ID, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	updated, err := svc.Update(owner.ID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	_, err = svc.Update(owner.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartRemoveAndClear(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	user := createTestUser(t, db, "open-id-cart-6")
	category := createTestCategory(t, db, "fruits")
	a := createTestProduct(t, db, category.ID, "A", 100, 10)
	b := createTestProduct(t, db, category.ID, "B", 200, 10)

	itemA, err := svc.Add(user.ID, &AddCartItemRequest{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(user.ID, &AddCartItemRequest{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(user.ID, itemA.ID))
	assert.ErrorIs(t, svc.Remove(user.ID, itemA.ID), ErrCartItemNotFound)

	require.NoError(t, svc.Clear(user.ID))
	items, err := svc.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	user := createTestUser(t, db, "open-id-wish-1")
	category := createTestCategory(t, db, "fruits")
	product := createTestProduct(t, db, category.ID, "Mangoes", 12000, 20)

	_, err := svc.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)

	_, err = svc.AddToWishlist(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrAlreadyInWishlist)

	var count int64
	db.Model(&models.WishlistItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestWishlistRemoveScopedToProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	user := createTestUser(t, db, "open-id-wish-2")
	category := createTestCategory(t, db, "fruits")
	keep := createTestProduct(t, db, category.ID, "Keep", 100, 10)
	drop := createTestProduct(t, db, category.ID, "Drop", 200, 10)

	_, err := svc.AddToWishlist(user.ID, keep.ID)
	require.NoError(t, err)
	_, err = svc.AddToWishlist(user.ID, drop.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromWishlist(user.ID, drop.ID))

	// Removing one product leaves the user's other entries untouched.
	items, err := svc.ListWishlist(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ProductID)

	assert.ErrorIs(t, svc.RemoveFromWishlist(user.ID, drop.ID), ErrWishlistItemNotFound)
}
