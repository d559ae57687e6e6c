package pagination_test

import (
	"context"
	"errors"
	"testing"

	"dating-backend/internal/pagination"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixture
// ─────────────────────────────────────────────────────────────────────────────

// sliceSource serves a fixed slice and records the calls it receives
type sliceSource struct {
	items    []int
	countErr error
	fetchErr error

	counts    int
	lastSkip  int
	lastTake  int
	fetchCall int
}

func (s *sliceSource) Count(ctx context.Context) (int, error) {
	s.counts++
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.items), nil
}

func (s *sliceSource) Fetch(ctx context.Context, skip, take int) ([]int, error) {
	s.fetchCall++
	s.lastSkip, s.lastTake = skip, take
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if skip >= len(s.items) {
		return nil, nil
	}
	end := skip + take
	if end > len(s.items) {
		end = len(s.items)
	}
	return s.items[skip:end], nil
}

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate_TwentyFiveItems(t *testing.T) {
	ctx := context.Background()
	src := &sliceSource{items: numbers(25)}

	cases := []struct {
		page      int
		wantItems int
		wantFirst int
	}{
		{page: 1, wantItems: 10, wantFirst: 0},
		{page: 2, wantItems: 10, wantFirst: 10},
		{page: 3, wantItems: 5, wantFirst: 20},
		{page: 4, wantItems: 0},
	}

	for _, tc := range cases {
		page, err := pagination.Create[int](ctx, src, tc.page, 10)
		if err != nil {
			t.Fatalf("page %d: %v", tc.page, err)
		}
		if len(page.Items) != tc.wantItems {
			t.Fatalf("page %d: expected %d items, got %d", tc.page, tc.wantItems, len(page.Items))
		}
		if tc.wantItems > 0 && page.Items[0] != tc.wantFirst {
			t.Fatalf("page %d: expected first item %d, got %d", tc.page, tc.wantFirst, page.Items[0])
		}
		if page.TotalPages != 3 {
			t.Fatalf("page %d: expected 3 total pages, got %d", tc.page, page.TotalPages)
		}
		if page.TotalCount != 25 || page.CurrentPage != tc.page || page.PageSize != 10 {
			t.Fatalf("page %d: unexpected envelope %+v", tc.page, page)
		}
	}
}

func TestCreate_SkipTake(t *testing.T) {
	src := &sliceSource{items: numbers(40)}

	if _, err := pagination.Create[int](context.Background(), src, 3, 7); err != nil {
		t.Fatalf("create: %v", err)
	}
	if src.lastSkip != 14 || src.lastTake != 7 {
		t.Fatalf("expected skip=14 take=7, got skip=%d take=%d", src.lastSkip, src.lastTake)
	}
	if src.counts != 1 || src.fetchCall != 1 {
		t.Fatalf("expected one count and one fetch, got %d and %d", src.counts, src.fetchCall)
	}
}

func TestCreate_AllPagesSumToTotal(t *testing.T) {
	ctx := context.Background()

	for n := 0; n <= 23; n++ {
		for size := 1; size <= 6; size++ {
			src := &sliceSource{items: numbers(n)}

			first, err := pagination.Create[int](ctx, src, 1, size)
			if err != nil {
				t.Fatalf("n=%d size=%d: %v", n, size, err)
			}
			wantPages := (n + size - 1) / size
			if first.TotalPages != wantPages {
				t.Fatalf("n=%d size=%d: expected %d pages, got %d", n, size, wantPages, first.TotalPages)
			}

			sum := 0
			var last []int
			for p := 1; p <= first.TotalPages; p++ {
				page, err := pagination.Create[int](ctx, src, p, size)
				if err != nil {
					t.Fatalf("n=%d size=%d page=%d: %v", n, size, p, err)
				}
				if len(page.Items) > size {
					t.Fatalf("n=%d size=%d page=%d: %d items exceed page size", n, size, p, len(page.Items))
				}
				sum += len(page.Items)
				last = page.Items
			}
			if sum != n {
				t.Fatalf("n=%d size=%d: pages hold %d items", n, size, sum)
			}

			if n > 0 {
				wantLast := n % size
				if wantLast == 0 {
					wantLast = size
				}
				if len(last) != wantLast {
					t.Fatalf("n=%d size=%d: last page has %d items, expected %d", n, size, len(last), wantLast)
				}
			}
		}
	}
}

func TestCreate_Empty(t *testing.T) {
	page, err := pagination.Create[int](context.Background(), &sliceSource{}, 1, 10)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if page.TotalPages != 0 || page.TotalCount != 0 {
		t.Fatalf("expected no pages, got %+v", page)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", page.Items)
	}
}

func TestCreate_InvalidPage(t *testing.T) {
	src := &sliceSource{items: numbers(3)}
	for _, tc := range [][2]int{{0, 10}, {1, 0}, {-1, 5}, {1, -3}} {
		if _, err := pagination.Create[int](context.Background(), src, tc[0], tc[1]); err == nil {
			t.Fatalf("expected error for page=%d size=%d", tc[0], tc[1])
		}
	}
	if src.counts != 0 {
		t.Fatal("invalid paging must not reach the source")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Errors
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate_CountError(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{items: numbers(3), countErr: boom}

	_, err := pagination.Create[int](context.Background(), src, 1, 10)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped count error, got %v", err)
	}
	if src.fetchCall != 0 {
		t.Fatal("fetch must not run after a failed count")
	}
}

func TestCreate_FetchError(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{items: numbers(3), fetchErr: boom}

	_, err := pagination.Create[int](context.Background(), src, 1, 10)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := pagination.TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
