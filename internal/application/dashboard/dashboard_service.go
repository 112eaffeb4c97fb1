// Package dashboard serves the sales overview screen: aggregated order
// figures for a day or date range, cached per store with a short TTL so
// the till dashboard can poll without hammering the orders table.
package dashboard

import (
	"context"
	"time"

	"github.com/canteen/backend/internal/domain/order"
	"github.com/canteen/backend/internal/infrastructure/cache"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
	"github.com/google/uuid"
)

// SummaryQuery selects the aggregation window. Zero values default to
// the current day in the server's timezone.
type SummaryQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// SummaryResponse is the dashboard sales summary
type SummaryResponse struct {
	Orders    int64             `json:"orders"`
	Revenue   string            `json:"revenue"`
	ItemsSold int64             `json:"items_sold"`
	ByMethod  map[string]string `json:"by_method"`
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
}

// DashboardService aggregates completed orders for the overview screen
type DashboardService struct {
	orderRepo order.Repository
	cache     *cache.Service
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(orderRepo order.Repository, cacheService *cache.Service) *DashboardService {
	return &DashboardService{
		orderRepo: orderRepo,
		cache:     cacheService,
	}
}

// Summary returns aggregated sales for [from, to). Results are cached
// per store and window for a minute.
func (s *DashboardService) Summary(ctx context.Context, query SummaryQuery) (*SummaryResponse, error) {
	from, to := resolveWindow(query, time.Now())

	// head office reads aggregate across stores under the nil store key
	storeID, err := storescope.ActiveStoreID(ctx)
	if err != nil {
		storeID = uuid.Nil
	}

	key := cache.Key(cache.FamilyDashboard, storeID, "summary",
		from.Format("20060102150405"), to.Format("20060102150405"))

	var resp SummaryResponse
	err = s.cache.Remember(ctx, key, cache.TTLShort, &resp, func(ctx context.Context) (any, error) {
		summary, err := s.orderRepo.Summarize(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return toSummaryResponse(summary), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func resolveWindow(query SummaryQuery, now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)
	if query.From != nil {
		from = *query.From
	}
	if query.To != nil {
		// To is an inclusive date from the query; the repository window
		// is half-open
		to = query.To.AddDate(0, 0, 1)
	}
	return from, to
}

func toSummaryResponse(summary *order.SalesSummary) *SummaryResponse {
	byMethod := make(map[string]string, len(summary.ByMethod))
	for method, revenue := range summary.ByMethod {
		byMethod[string(method)] = revenue.StringFixed(2)
	}
	return &SummaryResponse{
		Orders:    summary.Orders,
		Revenue:   summary.Revenue.StringFixed(2),
		ItemsSold: summary.ItemsSold,
		ByMethod:  byMethod,
		From:      summary.From,
		To:        summary.To,
	}
}
