package seed

import (
	"math/rand"
	"time"

	"restaurant-delivery-lab/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Epoch is the fixed start of the synthetic 300-day order window
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	orderStatuses  = []string{"Pending", "Delivered", "Cancelled"}
	paymentMethods = []string{"Credit Card", "Debit Card", "Cash", "Online"}
)

// Generator populates the synthetic delivery store
type Generator struct {
	db        *gorm.DB
	rng       *rand.Rand
	batchSize int
}

// NewGenerator creates a seed generator over an open delivery store
func NewGenerator(db *gorm.DB, batchSize int) *Generator {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Generator{
		db:        db,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		batchSize: batchSize,
	}
}

// NewGeneratorWithSource creates a generator with a caller-supplied random
// source, so runs can be reproduced
func NewGeneratorWithSource(db *gorm.DB, batchSize int, src rand.Source) *Generator {
	g := NewGenerator(db, batchSize)
	g.rng = rand.New(src)
	return g
}

// SeedCatalogs inserts the literal base catalogs and commits them before any
// order generation starts. Rows carry explicit IDs, so reruns hit the primary
// key and are silently ignored, first write wins.
func (g *Generator) SeedCatalogs() error {
	customers := []models.Customer{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Phone: "555-1234", Address: "123 Elm St"},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Phone: "555-5678", Address: "456 Oak Ave"},
		{ID: 3, Name: "Mike Johnson", Email: "mike@example.com", Phone: "555-4321", Address: "789 Pine Rd"},
		{ID: 4, Name: "Emily Brown", Email: "emily@example.com", Phone: "555-8765", Address: "101 Maple Blvd"},
		{ID: 5, Name: "Chris Lee", Email: "chris@example.com", Phone: "555-9988", Address: "505 Cedar Ln"},
	}

	restaurants := []models.Restaurant{
		{ID: 1, Name: "Pasta Palace", Address: "10 Main St", Phone: "555-9876"},
		{ID: 2, Name: "Burger Haven", Address: "22 Market St", Phone: "555-6543"},
		{ID: 3, Name: "Sushi World", Address: "33 Ocean Ave", Phone: "555-2468"},
		{ID: 4, Name: "Taco Town", Address: "44 Fiesta Rd", Phone: "555-1357"},
		{ID: 5, Name: "Pizza Planet", Address: "55 Space Way", Phone: "555-9753"},
	}

	dishes := []models.Dish{
		{ID: 1, RestaurantID: 1, Name: "Spaghetti", Price: 12.99},
		{ID: 2, RestaurantID: 1, Name: "Fettuccine Alfredo", Price: 14.99},
		{ID: 3, RestaurantID: 2, Name: "Cheeseburger", Price: 10.99},
		{ID: 4, RestaurantID: 2, Name: "Fries", Price: 3.99},
		{ID: 5, RestaurantID: 3, Name: "Salmon Roll", Price: 13.49},
		{ID: 6, RestaurantID: 3, Name: "Tuna Sashimi", Price: 15.49},
		{ID: 7, RestaurantID: 4, Name: "Chicken Taco", Price: 4.99},
		{ID: 8, RestaurantID: 4, Name: "Beef Burrito", Price: 8.99},
		{ID: 9, RestaurantID: 5, Name: "Pepperoni Pizza", Price: 11.99},
		{ID: 10, RestaurantID: 5, Name: "Veggie Pizza", Price: 10.49},
	}

	couriers := []models.Courier{
		{ID: 1, Name: "Alex Rider", VehicleType: "Bike"},
		{ID: 2, Name: "Sam Rivers", VehicleType: "Car"},
		{ID: 3, Name: "Jordan West", VehicleType: "Scooter"},
		{ID: 4, Name: "Taylor King", VehicleType: "Bike"},
	}

	return g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&customers).Error; err != nil {
			return errors.Wrap(err, "failed to seed customers")
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&restaurants).Error; err != nil {
			return errors.Wrap(err, "failed to seed restaurants")
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dishes).Error; err != nil {
			return errors.Wrap(err, "failed to seed dishes")
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&couriers).Error; err != nil {
			return errors.Wrap(err, "failed to seed couriers")
		}
		return nil
	})
}

// GenerateOrders synthesizes n random orders plus one item, payment and
// delivery per order.
//
// The order total is the sum of 1-3 dish prices sampled without replacement
// from the full catalog, ignoring which restaurant the order targets; the
// line item is then re-drawn independently, so item subtotals do not
// reconcile with order totals. Both are deliberate properties of the
// generated dataset, carried over unchanged.
func (g *Generator) GenerateOrders(n int) error {
	var dishes []models.Dish
	if err := g.db.Order("id").Find(&dishes).Error; err != nil {
		return errors.Wrap(err, "failed to load dish catalog")
	}
	if len(dishes) == 0 {
		return errors.New("dish catalog is empty, seed catalogs first")
	}

	var customerIDs, restaurantIDs, courierIDs []uint
	if err := g.db.Model(&models.Customer{}).Pluck("id", &customerIDs).Error; err != nil {
		return errors.Wrap(err, "failed to load customer ids")
	}
	if err := g.db.Model(&models.Restaurant{}).Pluck("id", &restaurantIDs).Error; err != nil {
		return errors.Wrap(err, "failed to load restaurant ids")
	}
	if err := g.db.Model(&models.Courier{}).Pluck("id", &courierIDs).Error; err != nil {
		return errors.Wrap(err, "failed to load courier ids")
	}
	if len(customerIDs) == 0 || len(restaurantIDs) == 0 || len(courierIDs) == 0 {
		return errors.New("base catalogs are empty, seed catalogs first")
	}

	log.Info().Int("orders", n).Msg("Generating random orders")

	orders := make([]models.Order, n)
	for i := range orders {
		orders[i] = models.Order{
			CustomerID:   customerIDs[g.rng.Intn(len(customerIDs))],
			RestaurantID: restaurantIDs[g.rng.Intn(len(restaurantIDs))],
			OrderDate:    Epoch.AddDate(0, 0, g.rng.Intn(301)),
			TotalAmount:  g.sampleTotal(dishes),
			Status:       orderStatuses[g.rng.Intn(len(orderStatuses))],
		}
	}

	// Orders commit as one batch before any dependent rows reference them
	err := g.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&orders, g.batchSize).Error
	})
	if err != nil {
		return errors.Wrap(err, "failed to insert orders")
	}

	items := make([]models.OrderItem, 0, n)
	payments := make([]models.Payment, 0, n)
	deliveries := make([]models.Delivery, 0, n)

	for _, o := range orders {
		dish := dishes[g.rng.Intn(len(dishes))]
		quantity := 1 + g.rng.Intn(3)
		subtotal := dish.Price * float64(quantity)
		items = append(items, models.OrderItem{
			OrderID:  o.ID,
			DishID:   dish.ID,
			Quantity: quantity,
			Subtotal: subtotal,
		})

		paymentStatus := "Completed"
		if g.rng.Float64() <= 0.05 {
			paymentStatus = "Failed"
		}
		payments = append(payments, models.Payment{
			OrderID: o.ID,
			Amount:  subtotal,
			Method:  paymentMethods[g.rng.Intn(len(paymentMethods))],
			Status:  paymentStatus,
		})

		deliveryStatus := "Delivered"
		if paymentStatus == "Failed" {
			deliveryStatus = "Cancelled"
		}
		courierID := courierIDs[g.rng.Intn(len(courierIDs))]
		deliveryTime := Epoch.AddDate(0, 0, g.rng.Intn(301))
		deliveries = append(deliveries, models.Delivery{
			OrderID:      o.ID,
			CourierID:    &courierID,
			DeliveryTime: &deliveryTime,
			Status:       deliveryStatus,
		})
	}

	// Items, payments and deliveries commit together
	err = g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&items, g.batchSize).Error; err != nil {
			return errors.Wrap(err, "failed to insert order items")
		}
		if err := tx.CreateInBatches(&payments, g.batchSize).Error; err != nil {
			return errors.Wrap(err, "failed to insert payments")
		}
		if err := tx.CreateInBatches(&deliveries, g.batchSize).Error; err != nil {
			return errors.Wrap(err, "failed to insert deliveries")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("orders", n).Msg("Synthetic dataset generated")
	return nil
}

// sampleTotal sums the prices of 1-3 dishes drawn without replacement
func (g *Generator) sampleTotal(dishes []models.Dish) float64 {
	k := 1 + g.rng.Intn(3)
	if k > len(dishes) {
		k = len(dishes)
	}
	total := 0.0
	for _, i := range g.rng.Perm(len(dishes))[:k] {
		total += dishes[i].Price
	}
	return total
}
