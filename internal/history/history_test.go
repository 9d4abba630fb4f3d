package history

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

type fakeOrders struct {
	mu          sync.Mutex
	page        *api.OrdersPage
	listParams  []api.OrderListParams
	updates     []string
	cancels     []string
	block       chan struct{}
}

func (f *fakeOrders) ListOrders(ctx context.Context, p api.OrderListParams) (*api.OrdersPage, error) {
	f.mu.Lock()
	f.listParams = append(f.listParams, p)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, context.Canceled
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, context.Canceled
	}
	return f.page, nil
}

func (f *fakeOrders) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	for i := range f.page.Orders {
		if f.page.Orders[i].ID == id {
			return &f.page.Orders[i], nil
		}
	}
	return nil, &api.APIError{StatusCode: 404, Message: "not found"}
}

func (f *fakeOrders) UpdateOrder(ctx context.Context, id string, req api.UpdateOrderRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	return &models.Order{ID: id}, nil
}

func (f *fakeOrders) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels = append(f.cancels, id)
	return &models.Order{ID: id, PaymentStatus: models.StatusCancelled}, nil
}

func TestState_SearchFiltersLoadedPage(t *testing.T) {
	t.Parallel()

	fake := &fakeOrders{page: &api.OrdersPage{Orders: []models.Order{
		{ID: "ORD-100", CustomerPhone: "9876543210"},
		{ID: "ORD-200", Items: []models.OrderItem{{Name: "Blue Runner"}}},
		{ID: "ORD-300"},
	}}}
	s := New(fake, 20)
	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)

	s.SetSearch("ord-2")
	require.Len(t, s.Visible(), 1)
	assert.Equal(t, "ORD-200", s.Visible()[0].ID)

	// matches phone
	s.SetSearch("98765")
	require.Len(t, s.Visible(), 1)
	assert.Equal(t, "ORD-100", s.Visible()[0].ID)

	// matches item name, case-insensitive
	s.SetSearch("blue run")
	require.Len(t, s.Visible(), 1)
	assert.Equal(t, "ORD-200", s.Visible()[0].ID)

	// no request fired for any of the searches
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.listParams, 1)
}

func TestState_FiltersGoToBackend(t *testing.T) {
	t.Parallel()

	fake := &fakeOrders{page: &api.OrdersPage{}}
	s := New(fake, 20)
	s.SetStatus("pending")
	s.SetSort(SortProfit, false)
	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.listParams, 1)
	p := fake.listParams[0]
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, "profit", p.SortBy)
	assert.Equal(t, "asc", p.SortDir)
}

func TestState_SupersededFetchIsDropped(t *testing.T) {
	t.Parallel()

	fake := &fakeOrders{page: &api.OrdersPage{Orders: []models.Order{{ID: "stale"}}}, block: make(chan struct{})}
	s := New(fake, 20)

	stale := s.Fetch(context.Background())
	staleDone := make(chan FetchResult, 1)
	go func() { staleDone <- stale() }()

	fake.mu.Lock()
	fake.block = nil
	fake.page = &api.OrdersPage{Orders: []models.Order{{ID: "fresh"}}}
	fake.mu.Unlock()

	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)
	assert.False(t, (<-staleDone).Applied)

	require.Len(t, s.Visible(), 1)
	assert.Equal(t, "fresh", s.Visible()[0].ID)
}

func TestState_CancelledOrderIsTerminal(t *testing.T) {
	t.Parallel()

	fake := &fakeOrders{page: &api.OrdersPage{}}
	s := New(fake, 20)

	cancelled := &models.Order{ID: "o1", PaymentStatus: models.StatusCancelled}

	_, err := s.Update(context.Background(), cancelled, api.UpdateOrderRequest{})
	assert.ErrorIs(t, err, ErrOrderClosed)

	_, err = s.Cancel(context.Background(), cancelled)
	assert.ErrorIs(t, err, ErrOrderClosed)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Empty(t, fake.updates)
	assert.Empty(t, fake.cancels, "no request may be issued for a terminal order")
}

func TestState_OpenOrderEditAndCancel(t *testing.T) {
	t.Parallel()

	fake := &fakeOrders{page: &api.OrdersPage{}}
	s := New(fake, 20)

	open := &models.Order{ID: "o2", PaymentStatus: models.StatusPending}

	_, err := s.Update(context.Background(), open, api.UpdateOrderRequest{})
	require.NoError(t, err)

	got, err := s.Cancel(context.Background(), open)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.PaymentStatus)
}
