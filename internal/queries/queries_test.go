package queries

import (
	"fmt"
	"path/filepath"
	"testing"

	"restaurant-delivery-lab/internal/database"
	"restaurant-delivery-lab/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDeliveryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "delivery.db"))
	require.NoError(t, err)
	require.NoError(t, models.SetupModels(db))
	require.NoError(t, models.CreateSecondaryIndexes(db))

	require.NoError(t, db.Create(&models.Customer{ID: 1, Name: "John Doe", Email: "john@example.com"}).Error)
	require.NoError(t, db.Create(&models.Customer{ID: 2, Name: "Jane Smith", Email: "jane@example.com"}).Error)
	require.NoError(t, db.Create(&models.Restaurant{ID: 1, Name: "Pasta Palace"}).Error)
	require.NoError(t, db.Create(&models.Restaurant{ID: 2, Name: "Burger Haven"}).Error)

	orders := []models.Order{
		{ID: 1, CustomerID: 1, RestaurantID: 1, TotalAmount: 12.99, Status: "Delivered"},
		{ID: 2, CustomerID: 1, RestaurantID: 2, TotalAmount: 10.99, Status: "Pending"},
		{ID: 3, CustomerID: 2, RestaurantID: 1, TotalAmount: 14.99, Status: "Delivered"},
	}
	require.NoError(t, db.Create(&orders).Error)

	deliveries := []models.Delivery{
		{OrderID: 1, Status: "Delivered"},
		{OrderID: 2, Status: "Out for Delivery"},
		{OrderID: 3, Status: "Delivered"},
	}
	require.NoError(t, db.Create(&deliveries).Error)

	return db
}

func setupHistoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, models.SetupHistoryModels(db))

	str := func(s string) *string { return &s }
	i64 := func(i int64) *int64 { return &i }
	f64 := func(f float64) *float64 { return &f }

	restaurants := []models.HistoryRestaurant{
		{RestaurantID: 1, CuisineType: str("american"), Location: i64(2), AvgPrice: f64(10)},
		{RestaurantID: 2, CuisineType: str("mexican"), Location: i64(3), AvgPrice: f64(8)},
		{RestaurantID: 3, CuisineType: str("american"), Location: i64(2), AvgPrice: f64(12)},
	}
	require.NoError(t, db.Create(&restaurants).Error)

	// Restaurant 1: 25 orders, 30-minute deliveries, 10 per item.
	// Restaurant 2: 30 orders, 60-minute deliveries, 30 per item.
	// Restaurant 3: 5 orders, below the default support threshold.
	var orders []models.HistoryOrder
	addOrders := func(restaurantID int64, n int, minutes int, subtotal float64, items int64) {
		for i := 0; i < n; i++ {
			day := 1 + i%27
			orders = append(orders, models.HistoryOrder{
				RestaurantID:  i64(restaurantID),
				OrderDatetime: str(fmt.Sprintf("2024-01-%02d 10:00:00", day)),
				DeliveryTime:  str(fmt.Sprintf("2024-01-%02d 10:%02d:00", day, minutes)),
				Subtotal:      f64(subtotal),
				TotalItems:    i64(items),
			})
		}
	}
	addOrders(1, 25, 30, 30, 3)
	addOrders(2, 30, 59, 60, 2)
	addOrders(3, 5, 10, 100, 1)
	require.NoError(t, db.Create(&orders).Error)

	return db
}

func TestCatalogResultsUnaffectedByIndexes(t *testing.T) {
	db := setupDeliveryDB(t)
	q := NewDeliveryQueries(db)

	indexedOrders, err := q.CustomerOrders(1)
	require.NoError(t, err)
	indexedRevenue, err := q.RestaurantRevenue()
	require.NoError(t, err)
	indexedDelivered, err := q.DeliveredOrders()
	require.NoError(t, err)

	require.NoError(t, models.DropSecondaryIndexes(db))

	bareOrders, err := q.CustomerOrders(1)
	require.NoError(t, err)
	bareRevenue, err := q.RestaurantRevenue()
	require.NoError(t, err)
	bareDelivered, err := q.DeliveredOrders()
	require.NoError(t, err)

	require.Equal(t, indexedOrders, bareOrders)
	require.Equal(t, indexedRevenue, bareRevenue)
	require.Equal(t, indexedDelivered, bareDelivered)

	require.NoError(t, models.CreateSecondaryIndexes(db))
}

func TestCustomerOrders(t *testing.T) {
	db := setupDeliveryDB(t)
	q := NewDeliveryQueries(db)

	rows, err := q.CustomerOrders(1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, o := range rows {
		require.EqualValues(t, 1, o.CustomerID)
	}
}

func TestRestaurantRevenue(t *testing.T) {
	db := setupDeliveryDB(t)
	q := NewDeliveryQueries(db)

	rows, err := q.RestaurantRevenue()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Pasta Palace", rows[0].Name)
	require.InDelta(t, 27.98, rows[0].TotalRevenue, 1e-9)
	require.Equal(t, "Burger Haven", rows[1].Name)
	require.InDelta(t, 10.99, rows[1].TotalRevenue, 1e-9)
}

func TestDeliveredOrders(t *testing.T) {
	db := setupDeliveryDB(t)
	q := NewDeliveryQueries(db)

	rows, err := q.DeliveredOrders()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Equal(t, "Delivered", r.Status)
	}
}

func TestFastestDeliveryRanking(t *testing.T) {
	db := setupHistoryDB(t)
	q := NewHistoryQueries(db)

	rows, err := q.FastestDelivery(Filters{})
	require.NoError(t, err)
	// Restaurant 3 is fastest but falls below the support threshold
	require.Len(t, rows, 2)
	require.EqualValues(t, 1, rows[0].RestaurantID)
	require.InDelta(t, 30, rows[0].Score, 0.01)
	require.EqualValues(t, 2, rows[1].RestaurantID)
	require.InDelta(t, 59, rows[1].Score, 0.01)
}

func TestHighestItemValueRanking(t *testing.T) {
	db := setupHistoryDB(t)
	q := NewHistoryQueries(db)

	rows, err := q.HighestItemValue(Filters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.EqualValues(t, 2, rows[0].RestaurantID)
	require.InDelta(t, 30, rows[0].Score, 0.01)
}

func TestMostPopularRanking(t *testing.T) {
	db := setupHistoryDB(t)
	q := NewHistoryQueries(db)

	rows, err := q.MostPopular(Filters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.EqualValues(t, 2, rows[0].RestaurantID)
	require.EqualValues(t, 30, rows[0].Orders)
}

func TestCuisineAndMarketFilters(t *testing.T) {
	db := setupHistoryDB(t)
	q := NewHistoryQueries(db)

	rows, err := q.MostPopular(Filters{Cuisine: "american"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 1, rows[0].RestaurantID)

	rows, err = q.MostPopular(Filters{Market: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 2, rows[0].RestaurantID)

	// A filter with no matching restaurants is a normal empty result
	rows, err = q.MostPopular(Filters{Cuisine: "italian"})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFilterLimitClamping(t *testing.T) {
	f := Filters{Limit: 100}.normalize()
	require.Equal(t, MaxLimit, f.Limit)

	f = Filters{Limit: 1}.normalize()
	require.Equal(t, MinLimit, f.Limit)

	f = Filters{}.normalize()
	require.Equal(t, DefaultLimit, f.Limit)
	require.Equal(t, DefaultMinOrders, f.MinOrders)
	require.Equal(t, CuisineAll, f.Cuisine)
}

func TestRecommendDispatch(t *testing.T) {
	db := setupHistoryDB(t)
	q := NewHistoryQueries(db)

	for _, pref := range []Preference{PreferenceFastest, PreferenceValue, PreferencePopular} {
		rows, err := q.Recommend(pref, Filters{})
		require.NoError(t, err)
		require.NotEmpty(t, rows)
	}

	_, err := q.Recommend("worst", Filters{})
	require.Error(t, err)
}

func TestTopRankingsUseHigherSupport(t *testing.T) {
	db := setupHistoryDB(t)
	q := NewHistoryQueries(db)

	// No restaurant clears the 50-order threshold, so both lists are empty
	rows, err := q.TopFastest(10)
	require.NoError(t, err)
	require.Empty(t, rows)

	rows, err = q.TopValue(10)
	require.NoError(t, err)
	require.Empty(t, rows)
}
