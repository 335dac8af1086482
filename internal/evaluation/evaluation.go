// Package evaluation drives the query catalog and the store's integrity
// rules under controlled conditions and tabulates the outcome.
package evaluation

import (
	"fmt"
	"time"

	"restaurant-delivery-lab/internal/models"
	"restaurant-delivery-lab/internal/queries"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Result is one flat evaluation record
type Result struct {
	Name      string
	Condition string
	Value     string
}

// Harness runs the evaluation suite against the synthetic delivery store
type Harness struct {
	db          *gorm.DB
	catalog     *queries.DeliveryQueries
	repetitions int
	bulkSizes   []int
	runID       uuid.UUID
}

// NewHarness creates a harness over an open delivery store
func NewHarness(db *gorm.DB, repetitions int, bulkSizes []int) *Harness {
	if repetitions <= 0 {
		repetitions = 5
	}
	if len(bulkSizes) == 0 {
		bulkSizes = []int{1000, 10000, 50000}
	}
	return &Harness{
		db:          db,
		catalog:     queries.NewDeliveryQueries(db),
		repetitions: repetitions,
		bulkSizes:   bulkSizes,
		runID:       uuid.New(),
	}
}

// RunAll executes every check and returns the combined result list
func (h *Harness) RunAll() ([]Result, error) {
	log.Info().Str("run_id", h.runID.String()).Msg("Starting evaluation run")

	var results []Result

	latency, err := h.QueryLatency()
	if err != nil {
		return nil, err
	}
	results = append(results, latency...)

	tx, err := h.Transactions()
	if err != nil {
		return nil, err
	}
	results = append(results, tx...)

	bulk, err := h.BulkInsert()
	if err != nil {
		return nil, err
	}
	results = append(results, bulk...)

	results = append(results, h.ConstraintProbes()...)

	counts, err := h.TableCounts()
	if err != nil {
		return nil, err
	}
	results = append(results, counts...)

	for _, r := range results {
		log.Info().
			Str("test", r.Name).
			Str("condition", r.Condition).
			Str("result", r.Value).
			Msg("Evaluation result")
	}
	return results, nil
}

// QueryLatency times each catalog query with the secondary indexes dropped,
// then again with them restored. The indexes are always recreated before
// returning, even on a timing error.
func (h *Harness) QueryLatency() ([]Result, error) {
	var results []Result

	if err := models.DropSecondaryIndexes(h.db); err != nil {
		return nil, err
	}
	noIndex, err := h.timeCatalog()
	if restoreErr := models.CreateSecondaryIndexes(h.db); restoreErr != nil {
		return nil, restoreErr
	}
	if err != nil {
		return nil, err
	}
	for _, r := range noIndex {
		results = append(results, Result{Name: r.name, Condition: "no index", Value: formatSeconds(r.mean)})
	}

	indexed, err := h.timeCatalog()
	if err != nil {
		return nil, err
	}
	for _, r := range indexed {
		results = append(results, Result{Name: r.name, Condition: "indexed", Value: formatSeconds(r.mean)})
	}

	return results, nil
}

type timing struct {
	name string
	mean time.Duration
}

func (h *Harness) timeCatalog() ([]timing, error) {
	var timings []timing
	for _, q := range h.catalog.Catalog() {
		var total time.Duration
		for i := 0; i < h.repetitions; i++ {
			start := time.Now()
			if _, err := q.Run(); err != nil {
				return nil, errors.Wrapf(err, "query %q failed", q.Name)
			}
			total += time.Since(start)
		}
		timings = append(timings, timing{name: q.Name, mean: total / time.Duration(h.repetitions)})
	}
	return timings, nil
}

// Transactions exercises one committed and one rolled-back transaction.
// The rolled-back one must leave every affected table's row count unchanged.
func (h *Harness) Transactions() ([]Result, error) {
	var results []Result

	// Committed path: order plus payment, then verify both landed.
	var order models.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		order = models.Order{CustomerID: 1, RestaurantID: 1, OrderDate: time.Now(), TotalAmount: 25.98, Status: "Pending"}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		payment := models.Payment{OrderID: order.ID, Amount: 25.98, Method: "Cash", Status: "Completed"}
		return tx.Create(&payment).Error
	})
	if err != nil {
		results = append(results, Result{Name: "Transaction Commit", Condition: "order+payment", Value: "fail: " + err.Error()})
	} else {
		var n int64
		h.db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&n)
		if n == 1 {
			results = append(results, Result{Name: "Transaction Commit", Condition: "order+payment", Value: "pass"})
		} else {
			results = append(results, Result{Name: "Transaction Commit", Condition: "order+payment", Value: "fail: payment missing"})
		}
		// Remove the probe rows so repeated runs start from the same state
		if err := h.db.Delete(&models.Order{}, order.ID).Error; err != nil {
			return nil, errors.Wrap(err, "failed to clean up committed probe order")
		}
	}

	// Forced failure: the violating statement makes the whole transaction
	// roll back with no partial rows left behind.
	ordersBefore, paymentsBefore, err := h.orderPaymentCounts()
	if err != nil {
		return nil, err
	}
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		o := models.Order{CustomerID: 1, RestaurantID: 1, OrderDate: time.Now(), TotalAmount: 10, Status: "Pending"}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		// Negative amount violates the payment CHECK constraint
		return tx.Create(&models.Payment{OrderID: o.ID, Amount: -5, Method: "Cash"}).Error
	})
	ordersAfter, paymentsAfter, err := h.orderPaymentCounts()
	if err != nil {
		return nil, err
	}
	switch {
	case txErr == nil:
		results = append(results, Result{Name: "Transaction Rollback", Condition: "constraint violation", Value: "fail: violation accepted"})
	case ordersAfter != ordersBefore || paymentsAfter != paymentsBefore:
		results = append(results, Result{Name: "Transaction Rollback", Condition: "constraint violation", Value: "fail: partial rows visible"})
	default:
		results = append(results, Result{Name: "Transaction Rollback", Condition: "constraint violation", Value: "pass"})
	}

	return results, nil
}

func (h *Harness) orderPaymentCounts() (int64, int64, error) {
	var orders, payments int64
	if err := h.db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		return 0, 0, errors.Wrap(err, "failed to count orders")
	}
	if err := h.db.Model(&models.Payment{}).Count(&payments).Error; err != nil {
		return 0, 0, errors.Wrap(err, "failed to count payments")
	}
	return orders, payments, nil
}

// BulkInsert measures the wall-clock cost of inserting increasing order
// batches, deleting the generated rows afterwards so the store is unchanged.
func (h *Harness) BulkInsert() ([]Result, error) {
	var results []Result
	for _, size := range h.bulkSizes {
		var maxID uint
		row := h.db.Raw("SELECT COALESCE(MAX(id), 0) FROM orders").Row()
		if err := row.Scan(&maxID); err != nil {
			return nil, errors.Wrap(err, "failed to read max order id")
		}

		orders := make([]models.Order, size)
		for i := range orders {
			orders[i] = models.Order{CustomerID: 1, RestaurantID: 1, OrderDate: time.Now(), TotalAmount: 9.99, Status: "Pending"}
		}

		start := time.Now()
		err := h.db.Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(&orders, 500).Error
		})
		elapsed := time.Since(start)
		if err != nil {
			return nil, errors.Wrapf(err, "bulk insert of %d rows failed", size)
		}
		results = append(results, Result{
			Name:      "Bulk Insert",
			Condition: fmt.Sprintf("%d rows", size),
			Value:     formatSeconds(elapsed),
		})

		if err := h.db.Where("id > ?", maxID).Delete(&models.Order{}).Error; err != nil {
			return nil, errors.Wrap(err, "failed to clean up bulk insert rows")
		}
	}
	return results, nil
}

// ConstraintProbes attempts a catalog of known-bad writes. Each must be
// rejected by the store itself, not by application checks.
func (h *Harness) ConstraintProbes() []Result {
	probes := []struct {
		name      string
		condition string
		attempt   func(tx *gorm.DB) error
	}{
		{
			name:      "Check Constraint",
			condition: "negative dish price",
			attempt: func(tx *gorm.DB) error {
				return tx.Create(&models.Dish{RestaurantID: 1, Name: "Bad Dish", Price: -1}).Error
			},
		},
		{
			name:      "Unique Constraint",
			condition: "duplicate customer email",
			attempt: func(tx *gorm.DB) error {
				return tx.Create(&models.Customer{Name: "Clone", Email: "john@example.com"}).Error
			},
		},
		{
			name:      "Foreign Key Constraint",
			condition: "dangling order reference",
			attempt: func(tx *gorm.DB) error {
				return tx.Create(&models.Order{CustomerID: 999999, RestaurantID: 1, OrderDate: time.Now(), TotalAmount: 1, Status: "Pending"}).Error
			},
		},
	}

	var results []Result
	for _, p := range probes {
		err := h.db.Transaction(p.attempt)
		if err != nil {
			results = append(results, Result{Name: p.name, Condition: p.condition, Value: "pass"})
		} else {
			results = append(results, Result{Name: p.name, Condition: p.condition, Value: "fail: write accepted"})
		}
	}
	return results
}

// TableCounts records the row count of every synthetic table
func (h *Harness) TableCounts() ([]Result, error) {
	tables := []string{"customers", "restaurants", "dishes", "orders", "order_items", "couriers", "deliveries", "payments"}
	var results []Result
	for _, t := range tables {
		var n int64
		if err := h.db.Table(t).Count(&n).Error; err != nil {
			return nil, errors.Wrapf(err, "failed to count %s", t)
		}
		results = append(results, Result{Name: "Table Count", Condition: t, Value: fmt.Sprintf("%d", n)})
	}
	return results, nil
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.6fs", d.Seconds())
}
