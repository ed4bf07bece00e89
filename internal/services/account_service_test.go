// internal/services/account_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshkart/grocery-backend/internal/models"
)

func TestCreateAddressDefaultsType(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "open-id-addr-1")

	address, err := svc.CreateAddress(user.ID, &CreateAddressRequest{
		Name:    "Asha",
		Phone:   "9999999999",
		Line1:   "12 Market Road",
		City:    "Pune",
		Pincode: "411001",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AddressTypeHome, address.Type)
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "open-id-addr-2")

	first, err := svc.CreateAddress(user.ID, &CreateAddressRequest{
		Name: "A", Phone: "1", Line1: "x", City: "Pune", Pincode: "411001", IsDefault: true,
	})
	require.NoError(t, err)

	second, err := svc.CreateAddress(user.ID, &CreateAddressRequest{
		Name: "B", Phone: "2", Line1: "y", City: "Pune", Pincode: "411002", IsDefault: true,
	})
	require.NoError(t, err)

	var stored models.Address
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.False(t, stored.IsDefault)

	require.NoError(t, db.First(&stored, second.ID).Error)
	assert.True(t, stored.IsDefault)
}

func TestUpdateAddressScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	owner := createTestUser(t, db, "open-id-addr-3")
	other := createTestUser(t, db, "open-id-addr-4")
	address := createTestAddress(t, db, owner.ID)

	city := "Mumbai"
	_, err := svc.UpdateAddress(other.ID, address.ID, &UpdateAddressRequest{City: &city})
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = svc.UpdateAddress(owner.ID, address.ID, &UpdateAddressRequest{City: &city})
	require.NoError(t, err)

	var stored models.Address
	require.NoError(t, db.First(&stored, address.ID).Error)
	assert.Equal(t, "Mumbai", stored.City)
}

func TestDeleteAddress(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "open-id-addr-5")
	address := createTestAddress(t, db, user.ID)

	require.NoError(t, svc.DeleteAddress(user.ID, address.ID))
	assert.ErrorIs(t, svc.DeleteAddress(user.ID, address.ID), ErrAddressNotFound)
}

func TestPaymentMethodsStoreMaskedDataOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "open-id-pm-1")

	method, err := svc.CreatePaymentMethod(user.ID, &CreatePaymentMethodRequest{
		Type:      "card",
		CardLast4: "4242",
		CardBrand: "visa",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "4242", method.CardLast4)

	upi, err := svc.CreatePaymentMethod(user.ID, &CreatePaymentMethodRequest{
		Type:      "upi",
		UPIHandle: "asha@upi",
		IsDefault: true,
	})
	require.NoError(t, err)

	// The newest default unsets the previous one.
	var stored models.PaymentMethod
	require.NoError(t, db.First(&stored, method.ID).Error)
	assert.False(t, stored.IsDefault)

	methods, err := svc.ListPaymentMethods(user.ID)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, upi.ID, methods[0].ID)

	require.NoError(t, svc.DeletePaymentMethod(user.ID, method.ID))
	assert.ErrorIs(t, svc.DeletePaymentMethod(user.ID, method.ID), ErrPaymentMethodNotFound)
}
