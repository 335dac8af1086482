package models

import (
	"path/filepath"
	"testing"

	"restaurant-delivery-lab/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "delivery.db"))
	require.NoError(t, err)
	require.NoError(t, SetupModels(db))
	require.NoError(t, CreateSecondaryIndexes(db))
	return db
}

func seedBase(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&Customer{ID: 1, Name: "John Doe", Email: "john@example.com"}).Error)
	require.NoError(t, db.Create(&Restaurant{ID: 1, Name: "Pasta Palace"}).Error)
	require.NoError(t, db.Create(&Dish{ID: 1, RestaurantID: 1, Name: "Spaghetti", Price: 12.99}).Error)
	require.NoError(t, db.Create(&Courier{ID: 1, Name: "Alex Rider", VehicleType: "Bike"}).Error)
}

func TestSchemaSetupIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SetupModels(db))
	require.NoError(t, CreateSecondaryIndexes(db))
	require.NoError(t, DropSecondaryIndexes(db))
	require.NoError(t, DropSecondaryIndexes(db))
	require.NoError(t, CreateSecondaryIndexes(db))
}

func TestNegativeDishPriceRejected(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	var before int64
	require.NoError(t, db.Model(&Dish{}).Count(&before).Error)

	err := db.Create(&Dish{RestaurantID: 1, Name: "Bad Dish", Price: -0.01}).Error
	require.Error(t, err)

	var after int64
	require.NoError(t, db.Model(&Dish{}).Count(&after).Error)
	require.Equal(t, before, after)
}

func TestDuplicateCustomerEmailRejected(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	err := db.Create(&Customer{Name: "Clone", Email: "john@example.com"}).Error
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&Customer{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestOrderRequiresExistingReferences(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	err := db.Create(&Order{CustomerID: 42, RestaurantID: 1, TotalAmount: 10, Status: "Pending"}).Error
	require.Error(t, err)

	err = db.Create(&Order{CustomerID: 1, RestaurantID: 42, TotalAmount: 10, Status: "Pending"}).Error
	require.Error(t, err)

	require.NoError(t, db.Create(&Order{CustomerID: 1, RestaurantID: 1, TotalAmount: 10, Status: "Pending"}).Error)
}

func TestVehicleTypeConstrained(t *testing.T) {
	db := setupTestDB(t)

	err := db.Create(&Courier{Name: "Pat Sky", VehicleType: "Plane"}).Error
	require.Error(t, err)
}

func TestDeliveryAndPaymentUniquePerOrder(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	order := Order{CustomerID: 1, RestaurantID: 1, TotalAmount: 12.99, Status: "Pending"}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, db.Create(&Payment{OrderID: order.ID, Amount: 12.99, Method: "Cash"}).Error)
	require.Error(t, db.Create(&Payment{OrderID: order.ID, Amount: 12.99, Method: "Online"}).Error)

	require.NoError(t, db.Create(&Delivery{OrderID: order.ID, Status: "Out for Delivery"}).Error)
	require.Error(t, db.Create(&Delivery{OrderID: order.ID, Status: "Out for Delivery"}).Error)
}

func TestCourierDeleteSetsDeliveryNull(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	order := Order{CustomerID: 1, RestaurantID: 1, TotalAmount: 12.99, Status: "Pending"}
	require.NoError(t, db.Create(&order).Error)

	courierID := uint(1)
	require.NoError(t, db.Create(&Delivery{OrderID: order.ID, CourierID: &courierID}).Error)

	require.NoError(t, db.Delete(&Courier{}, 1).Error)

	var delivery Delivery
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&delivery).Error)
	require.Nil(t, delivery.CourierID)
}

func TestRestaurantDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	order := Order{CustomerID: 1, RestaurantID: 1, TotalAmount: 12.99, Status: "Pending"}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&OrderItem{OrderID: order.ID, DishID: 1, Quantity: 1, Subtotal: 12.99}).Error)

	require.NoError(t, db.Delete(&Restaurant{}, 1).Error)

	var dishes, orders, items int64
	require.NoError(t, db.Model(&Dish{}).Count(&dishes).Error)
	require.NoError(t, db.Model(&Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&OrderItem{}).Count(&items).Error)
	require.Zero(t, dishes)
	require.Zero(t, orders)
	require.Zero(t, items)
}

func TestCustomerDeleteCascadesToOrders(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	order := Order{CustomerID: 1, RestaurantID: 1, TotalAmount: 12.99, Status: "Pending"}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, db.Delete(&Customer{}, 1).Error)

	var orders int64
	require.NoError(t, db.Model(&Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestNegativeQuantityAndSubtotalRejected(t *testing.T) {
	db := setupTestDB(t)
	seedBase(t, db)

	order := Order{CustomerID: 1, RestaurantID: 1, TotalAmount: 12.99, Status: "Pending"}
	require.NoError(t, db.Create(&order).Error)

	require.Error(t, db.Create(&OrderItem{OrderID: order.ID, DishID: 1, Quantity: 0, Subtotal: 12.99}).Error)
	require.Error(t, db.Create(&OrderItem{OrderID: order.ID, DishID: 1, Quantity: 1, Subtotal: -1}).Error)
}
