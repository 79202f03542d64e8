package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/validation"
)

func productList(items ...domain.Product) func(context.Context, ports.ListQuery) (ports.ListResult[domain.Product], error) {
	return func(context.Context, ports.ListQuery) (ports.ListResult[domain.Product], error) {
		return ports.ListResult[domain.Product]{Items: items}, nil
	}
}

func newProductScreen(coll *stubCollection[domain.Product]) *Screen[domain.Product] {
	return NewScreen[domain.Product]("products", coll, validation.New(), zerolog.Nop())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestScreen_Refresh(t *testing.T) {
	coll := &stubCollection[domain.Product]{listFn: productList(domain.Product{ID: "p1", Name: "Tea"})}
	st := newProductScreen(coll).Refresh(context.Background())

	if !st.Loaded || st.Err != "" || len(st.Items) != 1 || st.Items[0].Name != "Tea" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestScreen_RefreshError(t *testing.T) {
	coll := &stubCollection[domain.Product]{
		listFn: func(context.Context, ports.ListQuery) (ports.ListResult[domain.Product], error) {
			return ports.ListResult[domain.Product]{}, &domain.Failure{Kind: domain.FailureTransport, Err: errBoom}
		},
	}
	st := newProductScreen(coll).Refresh(context.Background())

	if st.Err != "Failed to load products. Please try again later." {
		t.Fatalf("unexpected error message: %q", st.Err)
	}
	if len(st.Items) != 0 {
		t.Fatalf("expected no items, got %+v", st.Items)
	}
}

func TestScreen_RefreshExposesCause(t *testing.T) {
	var fail bool
	coll := &stubCollection[domain.Product]{
		listFn: func(context.Context, ports.ListQuery) (ports.ListResult[domain.Product], error) {
			if fail {
				return ports.ListResult[domain.Product]{}, &domain.Failure{Kind: domain.FailureStatus, Status: 401, Err: domain.ErrNotAuthenticated}
			}
			return ports.ListResult[domain.Product]{}, nil
		},
	}
	s := newProductScreen(coll)

	fail = true
	if st := s.Refresh(context.Background()); !errors.Is(st.Cause, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated cause, got %v", st.Cause)
	}
	fail = false
	if st := s.Refresh(context.Background()); st.Cause != nil {
		t.Fatalf("cause should clear on success, got %v", st.Cause)
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestScreen_Get(t *testing.T) {
	coll := &stubCollection[domain.Product]{getFn: func(_ context.Context, id string) (domain.Product, error) {
		return domain.Product{ID: id, Name: "Tea"}, nil
	}}
	got, err := newProductScreen(coll).Get(context.Background(), "p1")
	if err != nil || got.ID != "p1" || got.Name != "Tea" {
		t.Fatalf("unexpected result: %+v %v", got, err)
	}
}

func TestScreen_GetNotFound(t *testing.T) {
	_, err := newProductScreen(&stubCollection[domain.Product]{}).Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScreen_RefreshMalformed(t *testing.T) {
	coll := &stubCollection[domain.Product]{
		listFn: func(context.Context, ports.ListQuery) (ports.ListResult[domain.Product], error) {
			return ports.ListResult[domain.Product]{Malformed: true}, nil
		},
	}
	st := newProductScreen(coll).Refresh(context.Background())

	if !st.Malformed || len(st.Items) != 0 || st.Err != "" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestScreen_SearchPassesQuery(t *testing.T) {
	var seen string
	coll := &stubCollection[domain.Product]{
		listFn: func(_ context.Context, q ports.ListQuery) (ports.ListResult[domain.Product], error) {
			seen = q.Search
			return ports.ListResult[domain.Product]{}, nil
		},
	}
	s := newProductScreen(coll)
	s.Search(context.Background(), "tea")
	if seen != "tea" {
		t.Fatalf("expected query tea, got %q", seen)
	}
	s.Refresh(context.Background())
	if seen != "tea" {
		t.Fatalf("refresh should keep the query, got %q", seen)
	}
}

func TestScreen_StaleResponseDropped(t *testing.T) {
	slowEntered := make(chan struct{})
	releaseSlow := make(chan struct{})
	calls := 0
	coll := &stubCollection[domain.Product]{}
	coll.listFn = func(context.Context, ports.ListQuery) (ports.ListResult[domain.Product], error) {
		coll.mu.Lock()
		calls++
		n := calls
		coll.mu.Unlock()
		if n == 1 {
			close(slowEntered)
			<-releaseSlow
			return ports.ListResult[domain.Product]{Items: []domain.Product{{ID: "old"}}}, nil
		}
		return ports.ListResult[domain.Product]{Items: []domain.Product{{ID: "new"}}}, nil
	}
	s := newProductScreen(coll)

	slow := make(chan ScreenState[domain.Product], 1)
	go func() { slow <- s.Refresh(context.Background()) }()
	<-slowEntered

	fresh := s.Refresh(context.Background())
	if len(fresh.Items) != 1 || fresh.Items[0].ID != "new" {
		t.Fatalf("unexpected fresh state: %+v", fresh)
	}

	close(releaseSlow)
	select {
	case <-slow:
	case <-time.After(2 * time.Second):
		t.Fatalf("slow refresh did not return")
	}

	if got := s.State(); len(got.Items) != 1 || got.Items[0].ID != "new" {
		t.Fatalf("stale response overwrote state: %+v", got)
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestScreen_CreateRefetches(t *testing.T) {
	coll := &stubCollection[domain.Product]{listFn: productList(domain.Product{ID: "p1", Name: "Tea", Category: "Drinks"})}
	s := newProductScreen(coll)

	st, err := s.Create(context.Background(), domain.Product{Name: "Tea", Price: 2.5, Category: "Drinks"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(coll.creates) != 1 || coll.listCount() != 1 {
		t.Fatalf("expected one create and one list, got %d/%d", len(coll.creates), coll.listCount())
	}
	if len(st.Items) != 1 {
		t.Fatalf("expected refetched items, got %+v", st)
	}
}

func TestScreen_CreateValidationSendsNothing(t *testing.T) {
	coll := &stubCollection[domain.Product]{}
	s := newProductScreen(coll)

	st, err := s.Create(context.Background(), domain.Product{Name: "Tea", Price: -1, Category: "Drinks"})
	if !domain.IsFailureKind(err, domain.FailureValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if st.Err == "" {
		t.Fatalf("expected visible error")
	}
	if len(coll.creates) != 0 || coll.listCount() != 0 {
		t.Fatalf("no request expected, got %d creates %d lists", len(coll.creates), coll.listCount())
	}
}

func TestScreen_CreateServerError(t *testing.T) {
	coll := &stubCollection[domain.Product]{createErr: &domain.Failure{Kind: domain.FailureStatus, Status: 409, Message: "Product exists"}}
	s := newProductScreen(coll)

	st, err := s.Create(context.Background(), domain.Product{Name: "Tea", Category: "Drinks"})
	if err == nil || st.Err != "Product exists" {
		t.Fatalf("expected server message, got %q (%v)", st.Err, err)
	}
	if coll.listCount() != 0 {
		t.Fatalf("failed create must not refetch")
	}
}

func TestScreen_MutateFallbackMessage(t *testing.T) {
	s := newProductScreen(&stubCollection[domain.Product]{})
	st, err := s.Mutate(context.Background(), "Failed to renew", func(context.Context) error { return errBoom })
	if !errors.Is(err, errBoom) || st.Err != "Failed to renew" {
		t.Fatalf("unexpected result: %q %v", st.Err, err)
	}
}

func TestScreen_DeleteConfirmed(t *testing.T) {
	coll := &stubCollection[domain.Product]{listFn: productList()}
	confirm, asked := confirmWith(true)

	_, err := newProductScreen(coll).Delete(context.Background(), confirm, "p1", "Tea")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if *asked != 1 || len(coll.deletes) != 1 || coll.deletes[0] != "p1" || coll.listCount() != 1 {
		t.Fatalf("expected confirm, delete and refetch; got asked=%d deletes=%v lists=%d", *asked, coll.deletes, coll.listCount())
	}
}

func TestScreen_DeleteCancelledSendsNothing(t *testing.T) {
	coll := &stubCollection[domain.Product]{}
	confirm, asked := confirmWith(false)

	_, err := newProductScreen(coll).Delete(context.Background(), confirm, "p1", "Tea")
	if !errors.Is(err, domain.ErrConfirmationDeclined) {
		t.Fatalf("expected ErrConfirmationDeclined, got %v", err)
	}
	if *asked != 1 || len(coll.deletes) != 0 || coll.listCount() != 0 {
		t.Fatalf("no request expected after cancel; deletes=%v lists=%d", coll.deletes, coll.listCount())
	}
}

func TestScreen_DeleteFailureMessage(t *testing.T) {
	coll := &stubCollection[domain.User]{deleteErr: &domain.Failure{Kind: domain.FailureStatus, Status: 500}}
	s := NewScreen[domain.User]("users", coll, validation.New(), zerolog.Nop())
	confirm, _ := confirmWith(true)

	st, err := s.Delete(context.Background(), confirm, "u1", "alice")
	if err == nil || st.Err != "Failed to delete user" {
		t.Fatalf("unexpected result: %q %v", st.Err, err)
	}
}

func TestScreen_Singular(t *testing.T) {
	for name, want := range map[string]string{"categories": "category", "discounts": "discount", "staff": "staff"} {
		s := NewScreen[domain.Category](name, &stubCollection[domain.Category]{}, validation.New(), zerolog.Nop())
		if got := s.singular(); got != want {
			t.Fatalf("%s: expected %s, got %s", name, want, got)
		}
	}
}
