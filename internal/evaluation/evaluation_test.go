package evaluation

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"restaurant-delivery-lab/internal/database"
	"restaurant-delivery-lab/internal/models"
	"restaurant-delivery-lab/internal/seed"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "delivery.db"))
	require.NoError(t, err)
	require.NoError(t, models.SetupModels(db))
	require.NoError(t, models.CreateSecondaryIndexes(db))

	g := seed.NewGeneratorWithSource(db, 50, rand.NewSource(99))
	require.NoError(t, g.SeedCatalogs())
	require.NoError(t, g.GenerateOrders(50))
	return db
}

func resultFor(results []Result, name, condition string) *Result {
	for i := range results {
		if results[i].Name == name && results[i].Condition == condition {
			return &results[i]
		}
	}
	return nil
}

func TestQueryLatency(t *testing.T) {
	db := setupSeededDB(t)
	h := NewHarness(db, 2, []int{10})

	results, err := h.QueryLatency()
	require.NoError(t, err)
	// Each catalog query reports under both index conditions
	require.Len(t, results, 6)
	for _, r := range results {
		require.Contains(t, []string{"no index", "indexed"}, r.Condition)
		require.Regexp(t, `^\d+\.\d{6}s$`, r.Value)
	}
}

func TestTransactions(t *testing.T) {
	db := setupSeededDB(t)
	h := NewHarness(db, 2, []int{10})

	ordersBefore, paymentsBefore, err := h.orderPaymentCounts()
	require.NoError(t, err)

	results, err := h.Transactions()
	require.NoError(t, err)

	commit := resultFor(results, "Transaction Commit", "order+payment")
	require.NotNil(t, commit)
	require.Equal(t, "pass", commit.Value)

	rollback := resultFor(results, "Transaction Rollback", "constraint violation")
	require.NotNil(t, rollback)
	require.Equal(t, "pass", rollback.Value)

	// Both probes clean up after themselves
	ordersAfter, paymentsAfter, err := h.orderPaymentCounts()
	require.NoError(t, err)
	require.Equal(t, ordersBefore, ordersAfter)
	require.Equal(t, paymentsBefore, paymentsAfter)
}

func TestBulkInsertRestoresStore(t *testing.T) {
	db := setupSeededDB(t)
	h := NewHarness(db, 2, []int{25, 50})

	var before int64
	require.NoError(t, db.Model(&models.Order{}).Count(&before).Error)

	results, err := h.BulkInsert()
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "25 rows", results[0].Condition)
	require.Equal(t, "50 rows", results[1].Condition)

	var after int64
	require.NoError(t, db.Model(&models.Order{}).Count(&after).Error)
	require.Equal(t, before, after)
}

func TestConstraintProbes(t *testing.T) {
	db := setupSeededDB(t)
	h := NewHarness(db, 2, []int{10})

	results := h.ConstraintProbes()
	require.Len(t, results, 3)
	for _, r := range results {
		require.Equal(t, "pass", r.Value, "probe %s / %s", r.Name, r.Condition)
	}
}

func TestRunAll(t *testing.T) {
	db := setupSeededDB(t)
	h := NewHarness(db, 2, []int{10})

	results, err := h.RunAll()
	require.NoError(t, err)

	counts := resultFor(results, "Table Count", "orders")
	require.NotNil(t, counts)
	require.Equal(t, "50", counts.Value)
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	results := []Result{
		{Name: "Bulk Insert", Condition: "1000 rows", Value: "0.123456s"},
		{Name: "Check Constraint", Condition: "negative dish price", Value: "pass"},
	}

	require.NoError(t, WriteReport(path, results))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"test", "condition", "result"}, rows[0])
	require.Equal(t, []string{"Bulk Insert", "1000 rows", "0.123456s"}, rows[1])
}
