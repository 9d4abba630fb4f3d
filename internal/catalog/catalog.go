package catalog

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

// MinQueryLen is the shortest search term worth sending to the search
// endpoint; anything shorter loads the unfiltered page instead.
const MinQueryLen = 2

// AllCategories is the category filter value that disables filtering.
const AllCategories = ""

type SortKey string

const (
	SortName   SortKey = "name"
	SortRetail SortKey = "retailPrice"
	SortStock  SortKey = "stock"
)

// Lister is the slice of the API client the catalog needs.
type Lister interface {
	ListProducts(ctx context.Context, p api.ListParams) (*api.ProductPage, error)
	SearchProducts(ctx context.Context, query string, page, limit int) (*api.ProductPage, error)
}

// FetchResult reports what happened to one fetch: Applied is false for
// superseded or cancelled fetches, which callers drop silently.
type FetchResult struct {
	Applied bool
	Err     error
}

// State is the catalog view state: search/sort/page parameters plus the
// loaded page. Starting a fetch cancels the one still in flight, so only
// the newest request's response is ever applied.
type State struct {
	mu       sync.Mutex
	client   Lister
	pageSize int

	query    string
	category string
	sortBy   SortKey
	sortDesc bool
	page     int

	gen    uint64
	cancel context.CancelFunc

	products []models.Product
	total    int
	loading  bool
	lastErr  error
}

func New(client Lister, pageSize int) *State {
	return &State{
		client:   client,
		pageSize: pageSize,
		sortBy:   SortName,
		page:     1,
	}
}

// SetQuery records a new search term and resets to the first page.
// Debouncing is the caller's concern; correctness does not depend on it.
func (s *State) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query == q {
		return
	}
	s.query = q
	s.page = 1
}

// SetCategory filters client-side over the loaded page; no refetch.
func (s *State) SetCategory(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = c
}

func (s *State) SetSort(key SortKey, desc bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = key
	s.sortDesc = desc
	s.page = 1
}

func (s *State) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.page = page
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

// Fetch snapshots the current parameters and returns a blocking closure
// that performs the load. Calling Fetch again before the closure finishes
// cancels the older request; its closure then reports Applied=false and
// leaves the state untouched.
func (s *State) Fetch(ctx context.Context) func() FetchResult {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	gen := s.gen
	query, page, limit := s.query, s.page, s.pageSize
	sortBy, sortDesc := s.sortBy, s.sortDesc
	s.loading = true
	s.mu.Unlock()

	return func() FetchResult {
		var (
			result *api.ProductPage
			err    error
		)
		if len([]rune(query)) >= MinQueryLen {
			result, err = s.client.SearchProducts(fctx, query, page, limit)
		} else {
			dir := "asc"
			if sortDesc {
				dir = "desc"
			}
			result, err = s.client.ListProducts(fctx, api.ListParams{
				Page:    page,
				Limit:   limit,
				SortBy:  string(sortBy),
				SortDir: dir,
			})
		}

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
		s.products = result.Items
		s.total = result.TotalCount
		return FetchResult{Applied: true}
	}
}

// Visible applies the client-side category filter to the loaded page.
func (s *State) Visible() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.category == AllCategories {
		out := make([]models.Product, len(s.products))
		copy(out, s.products)
		return out
	}
	var out []models.Product
	for _, p := range s.products {
		if p.Category == s.category {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the distinct categories present on the loaded page.
func (s *State) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range s.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func (s *State) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *State) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *State) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

func (s *State) Sort() (SortKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortBy, s.sortDesc
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

// EncodeQuery mirrors the list state into query-string form for
// deep-linkable sharing. Optional; gated by config at the call site.
func (s *State) EncodeQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := url.Values{}
	if s.query != "" {
		v.Set("q", s.query)
	}
	if s.category != AllCategories {
		v.Set("category", s.category)
	}
	v.Set("sortBy", string(s.sortBy))
	if s.sortDesc {
		v.Set("sortDir", "desc")
	} else {
		v.Set("sortDir", "asc")
	}
	v.Set("page", strconv.Itoa(s.page))
	return v
}

// RestoreQuery applies previously encoded list state.
func (s *State) RestoreQuery(v url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = v.Get("q")
	s.category = v.Get("category")
	if sb := v.Get("sortBy"); sb != "" {
		s.sortBy = SortKey(sb)
	}
	s.sortDesc = v.Get("sortDir") == "desc"
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p >= 1 {
		s.page = p
	}
}
