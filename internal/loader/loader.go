package loader

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"restaurant-delivery-lab/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Loader ingests the historical delivery dataset into the recommender store
type Loader struct {
	db        *gorm.DB
	batchSize int
}

// NewLoader creates a loader over an open recommender store
func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db, batchSize: 500}
}

// Stats summarizes a completed load
type Stats struct {
	Rows        int
	Skipped     int
	Restaurants int
	Orders      int
}

// LoadCSV reads the historical file and populates the restaurants and orders
// tables. An unreadable file is fatal; individual malformed rows are skipped
// and malformed fields become nulls.
func (l *Loader) LoadCSV(path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open historical file %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header row")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["store_id"]; !ok {
		return nil, errors.New("historical file has no store_id column")
	}

	stats := &Stats{}
	seen := make(map[int64]bool)
	var restaurants []models.HistoryRestaurant
	var orders []models.HistoryOrder

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, skip and keep loading
			stats.Skipped++
			continue
		}
		stats.Rows++

		field := func(name string) *string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return nil
			}
			v := strings.TrimSpace(record[i])
			if v == "" || strings.EqualFold(v, "na") || strings.EqualFold(v, "nan") {
				return nil
			}
			return &v
		}

		storeID := parseInt(field("store_id"))
		minPrice := parseFloat(field("min_item_price"))
		maxPrice := parseFloat(field("max_item_price"))

		// First occurrence of a store wins; later duplicates are dropped on
		// conflict at insert time as well.
		if storeID != nil && !seen[*storeID] {
			seen[*storeID] = true
			restaurants = append(restaurants, models.HistoryRestaurant{
				RestaurantID: *storeID,
				CuisineType:  field("store_primary_category"),
				Location:     parseInt(field("market_id")),
				AvgPrice:     meanPrice(minPrice, maxPrice),
			})
		}

		orders = append(orders, models.HistoryOrder{
			RestaurantID:           storeID,
			OrderDatetime:          field("created_at"),
			DeliveryTime:           field("actual_delivery_time"),
			Subtotal:               parseFloat(field("subtotal")),
			TotalItems:             parseInt(field("total_items")),
			NumDistinctItems:       parseInt(field("num_distinct_items")),
			MinItemPrice:           minPrice,
			MaxItemPrice:           maxPrice,
			TotalOnshiftDashers:    parseFloat(field("total_onshift_dashers")),
			TotalBusyDashers:       parseFloat(field("total_busy_dashers")),
			TotalOutstandingOrders: parseFloat(field("total_outstanding_orders")),
			EstimatedPlaceDuration: parseFloat(field("estimated_order_place_duration")),
			EstimatedDriveDuration: parseFloat(field("estimated_store_to_consumer_driving_duration")),
		})
	}

	if len(restaurants) > 0 {
		err = l.db.Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(&restaurants, l.batchSize).Error
		if err != nil {
			return nil, errors.Wrap(err, "failed to insert restaurants")
		}
	}
	if len(orders) > 0 {
		if err := l.db.CreateInBatches(&orders, l.batchSize).Error; err != nil {
			return nil, errors.Wrap(err, "failed to insert orders")
		}
	}

	stats.Restaurants = len(restaurants)
	stats.Orders = len(orders)
	log.Info().
		Int("rows", stats.Rows).
		Int("skipped", stats.Skipped).
		Int("restaurants", stats.Restaurants).
		Int("orders", stats.Orders).
		Msg("Historical dataset loaded")
	return stats, nil
}

func parseInt(s *string) *int64 {
	if s == nil {
		return nil
	}
	// Some numeric columns arrive as floats ("3.0")
	if f, err := strconv.ParseFloat(*s, 64); err == nil {
		v := int64(f)
		return &v
	}
	return nil
}

func parseFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	if f, err := strconv.ParseFloat(*s, 64); err == nil {
		return &f
	}
	return nil
}

// meanPrice averages the min/max item prices, tolerating either being absent
func meanPrice(min, max *float64) *float64 {
	switch {
	case min != nil && max != nil:
		v := (*min + *max) / 2
		return &v
	case min != nil:
		return min
	case max != nil:
		return max
	default:
		return nil
	}
}
