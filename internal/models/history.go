package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// The historical recommender schema is independent from the synthetic
// delivery schema and lives in its own store file. The two are never joined.

// HistoryRestaurant is a deduplicated store catalog entry derived from the
// historical dataset. Keyed by the external store identifier.
type HistoryRestaurant struct {
	RestaurantID int64    `gorm:"primaryKey;autoIncrement:false;column:restaurant_id" json:"restaurant_id"`
	CuisineType  *string  `gorm:"column:cuisine_type" json:"cuisine_type"`
	Location     *int64   `gorm:"column:location" json:"location"`
	AvgPrice     *float64 `gorm:"column:avg_price" json:"avg_price"`
}

// TableName keeps the historical table naming
func (HistoryRestaurant) TableName() string { return "restaurants" }

// HistoryOrder is one order row of the historical dataset, mapped
// column-verbatim with nulls for missing source values. Timestamps stay
// textual so SQLite date functions apply directly.
type HistoryOrder struct {
	OrderID                int64    `gorm:"primaryKey;column:order_id" json:"order_id"`
	RestaurantID           *int64   `gorm:"column:restaurant_id" json:"restaurant_id"`
	OrderDatetime          *string  `gorm:"column:order_datetime" json:"order_datetime"`
	DeliveryTime           *string  `gorm:"column:delivery_time" json:"delivery_time"`
	Subtotal               *float64 `gorm:"column:subtotal" json:"subtotal"`
	TotalItems             *int64   `gorm:"column:total_items" json:"total_items"`
	NumDistinctItems       *int64   `gorm:"column:num_distinct_items" json:"num_distinct_items"`
	MinItemPrice           *float64 `gorm:"column:min_item_price" json:"min_item_price"`
	MaxItemPrice           *float64 `gorm:"column:max_item_price" json:"max_item_price"`
	TotalOnshiftDashers    *float64 `gorm:"column:total_onshift_dashers" json:"total_onshift_dashers"`
	TotalBusyDashers       *float64 `gorm:"column:total_busy_dashers" json:"total_busy_dashers"`
	TotalOutstandingOrders *float64 `gorm:"column:total_outstanding_orders" json:"total_outstanding_orders"`
	EstimatedPlaceDuration *float64 `gorm:"column:estimated_order_place_duration" json:"estimated_order_place_duration"`
	EstimatedDriveDuration *float64 `gorm:"column:estimated_store_to_consumer_driving_duration" json:"estimated_store_to_consumer_driving_duration"`
}

// TableName keeps the historical table naming
func (HistoryOrder) TableName() string { return "orders" }

// SetupHistoryModels applies the historical recommender schema
func SetupHistoryModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&HistoryRestaurant{},
		&HistoryOrder{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run history migrations")
	}

	return nil
}
