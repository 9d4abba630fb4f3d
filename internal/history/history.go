package history

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

// ErrOrderClosed rejects edit or cancel of an already-cancelled order.
var ErrOrderClosed = errors.New("order is cancelled")

type SortKey string

const (
	SortDate   SortKey = "date"
	SortTotal  SortKey = "total"
	SortProfit SortKey = "profit"
)

// Orders is the slice of the API client the history view needs.
type Orders interface {
	ListOrders(ctx context.Context, p api.OrderListParams) (*api.OrdersPage, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, req api.UpdateOrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, id string) (*models.Order, error)
}

type FetchResult struct {
	Applied bool
	Err     error
}

// State is the sales-history view state. Status/date/sort/page filters go
// to the backend; the free-text search is applied client-side over the
// fetched page. Fetches follow the same supersede-by-cancellation rule as
// the catalog.
type State struct {
	mu       sync.Mutex
	client   Orders
	pageSize int

	status  string
	from    time.Time
	to      time.Time
	search  string
	sortBy  SortKey
	sortDesc bool
	page    int

	gen    uint64
	cancel context.CancelFunc

	orders    []models.Order
	analytics models.Analytics
	total     int
	loading   bool
	lastErr   error
}

func New(client Orders, pageSize int) *State {
	return &State{
		client:   client,
		pageSize: pageSize,
		sortBy:   SortDate,
		sortDesc: true,
		page:     1,
	}
}

func (s *State) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.page = 1
}

func (s *State) SetDateRange(from, to time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.from, s.to = from, to
	s.page = 1
}

// SetSearch filters the loaded page only; no refetch.
func (s *State) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = q
}

func (s *State) SetSort(key SortKey, desc bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = key
	s.sortDesc = desc
	s.page = 1
}

func (s *State) NextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page*s.pageSize >= s.total {
		return false
	}
	s.page++
	return true
}

func (s *State) PrevPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page <= 1 {
		return false
	}
	s.page--
	return true
}

// Fetch works like catalog.State.Fetch: snapshot parameters, cancel the
// in-flight load, return a blocking closure whose result is dropped when
// a newer fetch has started.
func (s *State) Fetch(ctx context.Context) func() FetchResult {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	gen := s.gen
	dir := "asc"
	if s.sortDesc {
		dir = "desc"
	}
	params := api.OrderListParams{
		From:    s.from,
		To:      s.to,
		Status:  s.status,
		Page:    s.page,
		Limit:   s.pageSize,
		SortBy:  string(s.sortBy),
		SortDir: dir,
	}
	s.loading = true
	s.mu.Unlock()

	return func() FetchResult {
		result, err := s.client.ListOrders(fctx, params)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return FetchResult{}
		}
		s.cancel = nil
		s.loading = false
		if err != nil {
			if api.IsCanceled(err) {
				return FetchResult{}
			}
			s.lastErr = err
			return FetchResult{Err: err}
		}
		s.lastErr = nil
		s.orders = result.Orders
		s.analytics = result.Analytics
		s.total = result.Pagination.TotalCount
		if s.total == 0 {
			s.total = len(result.Orders)
		}
		return FetchResult{Applied: true}
	}
}

// Visible applies the free-text search over the fetched page: order id,
// customer phone and item names, case-insensitive.
func (s *State) Visible() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.search == "" {
		out := make([]models.Order, len(s.orders))
		copy(out, s.orders)
		return out
	}
	needle := strings.ToLower(s.search)
	var out []models.Order
	for _, o := range s.orders {
		if orderMatches(&o, needle) {
			out = append(out, o)
		}
	}
	return out
}

func orderMatches(o *models.Order, needle string) bool {
	if strings.Contains(strings.ToLower(o.ID), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(o.CustomerPhone), needle) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			return true
		}
	}
	return false
}

func (s *State) Analytics() models.Analytics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analytics
}

func (s *State) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *State) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Get loads one order for the edit view.
func (s *State) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.client.GetOrder(ctx, id)
}

// Update persists edits to a still-open order. Cancelled orders are
// terminal and rejected before any request is made.
func (s *State) Update(ctx context.Context, current *models.Order, req api.UpdateOrderRequest) (*models.Order, error) {
	if !current.Editable() {
		return nil, ErrOrderClosed
	}
	return s.client.UpdateOrder(ctx, current.ID, req)
}

// Cancel transitions an order to its terminal state; the backend
// restores inventory. The confirmation step lives in the UI.
func (s *State) Cancel(ctx context.Context, current *models.Order) (*models.Order, error) {
	if !current.Editable() {
		return nil, ErrOrderClosed
	}
	return s.client.CancelOrder(ctx, current.ID)
}
