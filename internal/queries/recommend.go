package queries

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Preference selects which recommendation ranking to run
type Preference string

// Supported recommendation rankings
const (
	PreferenceFastest Preference = "fastest"
	PreferenceValue   Preference = "value"
	PreferencePopular Preference = "popular"
)

// CuisineAll disables the cuisine filter
const CuisineAll = "all"

const (
	// DefaultMinOrders excludes low-volume restaurants from rankings
	DefaultMinOrders = 20
	// MinLimit and MaxLimit bound the requested result count
	MinLimit = 5
	MaxLimit = 20
	// DefaultLimit applies when no result count is requested
	DefaultLimit = 10
)

// Filters narrows a recommendation ranking. Zero values mean "no filter".
type Filters struct {
	Cuisine   string
	Market    int64
	MinOrders int
	Limit     int
}

// normalize clamps the limit into its allowed range and fills defaults
func (f Filters) normalize() Filters {
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit < MinLimit {
		f.Limit = MinLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.MinOrders == 0 {
		f.MinOrders = DefaultMinOrders
	}
	if f.Cuisine == "" {
		f.Cuisine = CuisineAll
	}
	return f
}

// RecommendationRow is one ranked restaurant
type RecommendationRow struct {
	RestaurantID int64   `json:"restaurant_id"`
	CuisineType  *string `json:"cuisine_type"`
	Score        float64 `json:"score"`
	Orders       int64   `json:"orders"`
}

// HistoryQueries is the recommendation catalog over the historical store
type HistoryQueries struct {
	db *gorm.DB
}

// NewHistoryQueries creates the catalog over an open recommender store
func NewHistoryQueries(db *gorm.DB) *HistoryQueries {
	return &HistoryQueries{db: db}
}

// Recommend runs the ranking matching the preference
func (q *HistoryQueries) Recommend(pref Preference, f Filters) ([]RecommendationRow, error) {
	switch pref {
	case PreferenceFastest:
		return q.FastestDelivery(f)
	case PreferenceValue:
		return q.HighestItemValue(f)
	case PreferencePopular:
		return q.MostPopular(f)
	default:
		return nil, errors.Errorf("unknown preference %q", pref)
	}
}

// FastestDelivery ranks restaurants by mean delivery minutes, ascending
func (q *HistoryQueries) FastestDelivery(f Filters) ([]RecommendationRow, error) {
	f = f.normalize()
	where, args := f.clauses("o.delivery_time IS NOT NULL")
	return q.ranked(fmt.Sprintf(`
		SELECT r.restaurant_id, r.cuisine_type,
		       AVG((julianday(o.delivery_time) - julianday(o.order_datetime)) * 24 * 60) AS score,
		       COUNT(o.order_id) AS orders
		FROM restaurants r
		JOIN orders o ON r.restaurant_id = o.restaurant_id
		%s
		GROUP BY r.restaurant_id
		HAVING COUNT(o.order_id) > ?
		ORDER BY score ASC
		LIMIT ?
	`, where), append(args, f.MinOrders, f.Limit))
}

// HighestItemValue ranks restaurants by mean per-item order value, descending
func (q *HistoryQueries) HighestItemValue(f Filters) ([]RecommendationRow, error) {
	f = f.normalize()
	where, args := f.clauses()
	return q.ranked(fmt.Sprintf(`
		SELECT r.restaurant_id, r.cuisine_type,
		       AVG(o.subtotal / NULLIF(o.total_items, 0)) AS score,
		       COUNT(o.order_id) AS orders
		FROM restaurants r
		JOIN orders o ON r.restaurant_id = o.restaurant_id
		%s
		GROUP BY r.restaurant_id
		HAVING COUNT(o.order_id) > ?
		ORDER BY score DESC
		LIMIT ?
	`, where), append(args, f.MinOrders, f.Limit))
}

// MostPopular ranks restaurants by order volume, descending
func (q *HistoryQueries) MostPopular(f Filters) ([]RecommendationRow, error) {
	f = f.normalize()
	where, args := f.clauses()
	return q.ranked(fmt.Sprintf(`
		SELECT r.restaurant_id, r.cuisine_type,
		       CAST(COUNT(o.order_id) AS REAL) AS score,
		       COUNT(o.order_id) AS orders
		FROM restaurants r
		JOIN orders o ON r.restaurant_id = o.restaurant_id
		%s
		GROUP BY r.restaurant_id
		HAVING COUNT(o.order_id) > ?
		ORDER BY score DESC
		LIMIT ?
	`, where), append(args, f.MinOrders, f.Limit))
}

// TopFastest ranks all restaurants by mean delivery minutes with a higher
// support threshold, unfiltered
func (q *HistoryQueries) TopFastest(limit int) ([]RecommendationRow, error) {
	return q.FastestDelivery(Filters{MinOrders: 50, Limit: limit})
}

// TopValue ranks all restaurants by mean order subtotal with a higher support
// threshold, unfiltered
func (q *HistoryQueries) TopValue(limit int) ([]RecommendationRow, error) {
	f := Filters{MinOrders: 50, Limit: limit}.normalize()
	where, args := f.clauses()
	return q.ranked(fmt.Sprintf(`
		SELECT r.restaurant_id, r.cuisine_type,
		       AVG(o.subtotal) AS score,
		       COUNT(o.order_id) AS orders
		FROM restaurants r
		JOIN orders o ON r.restaurant_id = o.restaurant_id
		%s
		GROUP BY r.restaurant_id
		HAVING COUNT(o.order_id) > ?
		ORDER BY score DESC
		LIMIT ?
	`, where), append(args, f.MinOrders, f.Limit))
}

// clauses builds the WHERE fragment for the active filters. Only placeholders
// reach the SQL text; every value is bound.
func (f Filters) clauses(fixed ...string) (string, []interface{}) {
	conds := append([]string{}, fixed...)
	var args []interface{}
	if f.Cuisine != CuisineAll {
		conds = append(conds, "r.cuisine_type = ?")
		args = append(args, f.Cuisine)
	}
	if f.Market > 0 {
		conds = append(conds, "r.location = ?")
		args = append(args, f.Market)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (q *HistoryQueries) ranked(sql string, args []interface{}) ([]RecommendationRow, error) {
	var rows []RecommendationRow
	if err := q.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "recommendation query failed")
	}
	return rows, nil
}
