package models

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SecondaryIndex is a named single-column index on the synthetic schema.
// The evaluation harness drops and recreates these to compare query latency;
// they never affect query results.
type SecondaryIndex struct {
	Name   string
	Table  string
	Column string
}

// SecondaryIndexes lists every secondary index of the delivery store
var SecondaryIndexes = []SecondaryIndex{
	{Name: "idx_orders_customer_id", Table: "orders", Column: "customer_id"},
	{Name: "idx_orders_restaurant_id", Table: "orders", Column: "restaurant_id"},
	{Name: "idx_order_items_dish_id", Table: "order_items", Column: "dish_id"},
	{Name: "idx_deliveries_courier_id", Table: "deliveries", Column: "courier_id"},
	{Name: "idx_payments_order_id", Table: "payments", Column: "order_id"},
}

// CreateSecondaryIndexes creates all secondary indexes, skipping any that
// already exist
func CreateSecondaryIndexes(db *gorm.DB) error {
	for _, idx := range SecondaryIndexes {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", idx.Name, idx.Table, idx.Column)
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrapf(err, "failed to create index %s", idx.Name)
		}
	}
	return nil
}

// DropSecondaryIndexes drops all secondary indexes, skipping any that are
// already absent
func DropSecondaryIndexes(db *gorm.DB) error {
	for _, idx := range SecondaryIndexes {
		stmt := fmt.Sprintf("DROP INDEX IF EXISTS %s", idx.Name)
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrapf(err, "failed to drop index %s", idx.Name)
		}
	}
	return nil
}
