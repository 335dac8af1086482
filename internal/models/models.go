package models

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Customer represents a registered customer
type Customer struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Orders  []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// Restaurant represents a restaurant in the synthetic catalog
type Restaurant struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Dishes  []Dish  `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	Orders  []Order `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
}

// Dish represents a menu item owned by a restaurant
type Dish struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RestaurantID uint    `gorm:"not null" json:"restaurant_id"`
	Name         string  `gorm:"not null" json:"name"`
	Price        float64 `gorm:"check:price >= 0" json:"price"`
}

// Order represents a customer order at a restaurant
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"not null" json:"customer_id"`
	RestaurantID uint      `gorm:"not null" json:"restaurant_id"`
	OrderDate    time.Time `gorm:"autoCreateTime" json:"order_date"`
	TotalAmount  float64   `gorm:"check:total_amount >= 0" json:"total_amount"`
	Status       string    `gorm:"default:'Pending'" json:"status"`
}

// OrderItem is a line item of an order; the key is (order, dish)
type OrderItem struct {
	OrderID  uint    `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	DishID   uint    `gorm:"primaryKey;autoIncrement:false" json:"dish_id"`
	Quantity int     `gorm:"check:quantity > 0" json:"quantity"`
	Subtotal float64 `gorm:"check:subtotal >= 0" json:"subtotal"`
	Order    Order   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Dish     Dish    `gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE" json:"-"`
}

// Courier represents a delivery courier
type Courier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	VehicleType string `gorm:"check:vehicle_type IN ('Car','Bike','Scooter','Other')" json:"vehicle_type"`
}

// Delivery tracks the delivery of a single order. Removing a courier keeps
// the delivery and clears the reference.
type Delivery struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OrderID      uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	CourierID    *uint      `json:"courier_id"`
	DeliveryTime *time.Time `json:"delivery_time"`
	Status       string     `gorm:"default:'Out for Delivery'" json:"status"`
	Order        Order      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Courier      *Courier   `gorm:"foreignKey:CourierID;constraint:OnDelete:SET NULL" json:"-"`
}

// Payment records the payment of a single order
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	Amount      float64   `gorm:"check:amount >= 0" json:"amount"`
	Method      string    `gorm:"check:method IN ('Credit Card','Debit Card','Cash','Online')" json:"method"`
	Status      string    `gorm:"default:'Pending'" json:"status"`
	PaymentDate time.Time `gorm:"autoCreateTime" json:"payment_date"`
	Order       Order     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

// SetupModels applies the synthetic delivery schema. AutoMigrate only
// creates what is missing, so repeated runs are safe; any DDL failure
// aborts setup before the store is treated as ready.
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Customer{},
		&Restaurant{},
		&Dish{},
		&Order{},
		&OrderItem{},
		&Courier{},
		&Delivery{},
		&Payment{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
