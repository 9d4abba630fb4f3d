package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

// fakeLister answers from canned pages and can hold a request open until
// released, which is how the supersede tests stage a slow fetch.
type fakeLister struct {
	mu          sync.Mutex
	page        *api.ProductPage
	listCalls   []api.ListParams
	searchCalls []string
	block       chan struct{}
}

func (f *fakeLister) ListProducts(ctx context.Context, p api.ListParams) (*api.ProductPage, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, p)
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

func (f *fakeLister) SearchProducts(ctx context.Context, q string, page, limit int) (*api.ProductPage, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, q)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, context.Canceled
	}
	return f.page, nil
}

func somePage(names ...string) *api.ProductPage {
	items := make([]models.Product, len(names))
	for i, n := range names {
		items[i] = models.Product{ID: n, Name: n, Category: "shoes"}
	}
	return &api.ProductPage{Items: items, TotalCount: len(items), Page: 1, Limit: 20}
}

func TestState_FetchAppliesNewestOnly(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: somePage("old"), block: make(chan struct{})}
	s := New(lister, 20)

	stale := s.Fetch(context.Background())

	staleDone := make(chan FetchResult, 1)
	go func() { staleDone <- stale() }()

	// a second fetch supersedes the blocked one
	lister.mu.Lock()
	lister.block = nil
	lister.page = somePage("new-a", "new-b")
	lister.mu.Unlock()

	fresh := s.Fetch(context.Background())
	res := fresh()
	require.NoError(t, res.Err)
	assert.True(t, res.Applied)

	staleRes := <-staleDone
	assert.False(t, staleRes.Applied, "superseded fetch must never apply")

	products := s.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "new-a", products[0].Name)
	assert.Equal(t, 2, s.Total())
}

func TestState_ShortQueryUsesListEndpoint(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: somePage("a")}
	s := New(lister, 20)

	s.SetQuery("x")
	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)

	assert.Len(t, lister.listCalls, 1)
	assert.Empty(t, lister.searchCalls, "a 1-char term is below the minimum")
}

func TestState_LongQueryUsesSearchEndpoint(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: somePage("a")}
	s := New(lister, 20)

	s.SetQuery("shoe")
	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)

	require.Len(t, lister.searchCalls, 1)
	assert.Equal(t, "shoe", lister.searchCalls[0])
	assert.Empty(t, lister.listCalls)
}

func TestState_SetQueryResetsPage(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: somePage("a")}
	s := New(lister, 1)
	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)

	s.SetPage(3)
	s.SetQuery("boots")
	assert.Equal(t, 1, s.Page())
}

func TestState_CategoryFilterIsClientSide(t *testing.T) {
	t.Parallel()

	page := &api.ProductPage{
		Items: []models.Product{
			{ID: "1", Name: "Runner", Category: "shoes"},
			{ID: "2", Name: "Belt", Category: "accessories"},
			{ID: "3", Name: "走 Sandal", Category: "shoes"},
		},
		TotalCount: 3, Page: 1, Limit: 20,
	}
	lister := &fakeLister{page: page}
	s := New(lister, 20)
	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)

	// all categories: everything loaded is visible
	assert.Len(t, s.Visible(), 3)

	s.SetCategory("shoes")
	visible := s.Visible()
	require.Len(t, visible, 2)
	for _, p := range visible {
		assert.Equal(t, "shoes", p.Category)
	}

	// no extra request was made for the filter
	assert.Len(t, lister.listCalls, 1)

	assert.ElementsMatch(t, []string{"shoes", "accessories"}, s.Categories())
}

func TestState_Pagination(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: &api.ProductPage{Items: []models.Product{{ID: "1"}}, TotalCount: 45, Page: 1, Limit: 20}}
	s := New(lister, 20)
	res := s.Fetch(context.Background())()
	require.True(t, res.Applied)

	assert.False(t, s.PrevPage(), "already on the first page")
	require.True(t, s.NextPage())
	assert.Equal(t, 2, s.Page())
	require.True(t, s.NextPage())
	assert.False(t, s.NextPage(), "45 items fit in 3 pages of 20")
}

func TestState_QueryStringRoundTrip(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: somePage("a")}
	s := New(lister, 20)
	s.SetQuery("sneaker")
	s.SetCategory("shoes")
	s.SetSort(SortRetail, true)
	s.SetPage(4)

	restored := New(lister, 20)
	restored.RestoreQuery(s.EncodeQuery())

	assert.Equal(t, "sneaker", restored.Query())
	assert.Equal(t, "shoes", restored.Category())
	key, desc := restored.Sort()
	assert.Equal(t, SortRetail, key)
	assert.True(t, desc)
	assert.Equal(t, 4, restored.Page())
}
