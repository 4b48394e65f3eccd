package stock_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"

	"github.com/saiMhatre/stock-api/internal/stock"
	"github.com/saiMhatre/stock-api/internal/stock/mocks"
)

var fixedNow = time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (stock.Service, *mocks.MockStore) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	logger, _ := test.NewNullLogger()
	svc := stock.NewService(store, logger, stock.WithClock(func() time.Time { return fixedNow }))
	return svc, store
}

func tesla() stock.Stock {
	return stock.Stock{
		ID:           5,
		Name:         "Tesla Inc",
		CurrentPrice: decimal.RequireFromString("793.53"),
		LastUpdate:   fixedNow.Add(-time.Hour),
	}
}

func TestService_Get(t *testing.T) {
	svc, store := setup(t)
	store.EXPECT().Get(gomock.Any(), int64(5)).Return(tesla(), nil)

	got, err := svc.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 5 || got.Name != "Tesla Inc" || !got.CurrentPrice.Equal(decimal.RequireFromString("793.53")) {
		t.Errorf("unexpected response %+v", got)
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc, store := setup(t)
	store.EXPECT().Get(gomock.Any(), int64(8)).Return(stock.Stock{}, stock.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 8)
	var nf *stock.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, stock.ErrNotFound) {
		t.Errorf("expected errors.Is ErrNotFound")
	}
	if !strings.HasSuffix(err.Error(), "8") {
		t.Errorf("message should name the id, got %q", err.Error())
	}
}

func TestService_GetStoreFailure(t *testing.T) {
	svc, store := setup(t)
	boom := errors.New("connection reset")
	store.EXPECT().Get(gomock.Any(), int64(1)).Return(stock.Stock{}, boom)

	_, err := svc.Get(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, stock.ErrNotFound) {
		t.Errorf("store failure must not read as not found")
	}
}

func TestService_List(t *testing.T) {
	svc, store := setup(t)
	first := tesla()
	first.ID, first.Name = 1, "GameStop Corp."
	store.EXPECT().List(gomock.Any()).Return([]stock.Stock{first, tesla()}, nil).Times(2)

	a, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := svc.List(context.Background())
	if len(a) != 2 || a[0].ID != 1 || a[1].ID != 5 {
		t.Fatalf("unexpected list %+v", a)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("list not idempotent at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestService_ListEmpty(t *testing.T) {
	svc, store := setup(t)
	store.EXPECT().List(gomock.Any()).Return(nil, nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestService_Create(t *testing.T) {
	svc, store := setup(t)
	req := stock.NewStockRequest("Apple Inc", decimal.RequireFromString("131.96"))

	store.EXPECT().GetByName(gomock.Any(), "Apple Inc").Return(stock.Stock{}, stock.ErrRecordNotFound)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s stock.Stock) (stock.Stock, error) {
		if s.ID != 0 {
			t.Errorf("create must leave id assignment to the store, got %d", s.ID)
		}
		s.ID = 6
		return s, nil
	})

	got, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 6 || got.Name != "Apple Inc" || !got.CurrentPrice.Equal(*req.CurrentPrice) {
		t.Errorf("unexpected response %+v", got)
	}
	if !got.LastUpdate.Equal(fixedNow) {
		t.Errorf("lastUpdate = %v, want %v", got.LastUpdate, fixedNow)
	}
}

func TestService_CreateAlreadyExists(t *testing.T) {
	svc, store := setup(t)
	req := stock.NewStockRequest("Tesla Inc", decimal.RequireFromString("857.93"))
	store.EXPECT().GetByName(gomock.Any(), "Tesla Inc").Return(tesla(), nil)

	_, err := svc.Create(context.Background(), req)
	var ae *stock.AlreadyExistsError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
	if err.Error() != "Stock already exists with the name : Tesla Inc" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestService_CreateLostRace(t *testing.T) {
	svc, store := setup(t)
	req := stock.NewStockRequest("Nokia Oyj", decimal.RequireFromString("4.56"))
	store.EXPECT().GetByName(gomock.Any(), "Nokia Oyj").Return(stock.Stock{}, stock.ErrRecordNotFound)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(stock.Stock{}, stock.ErrDuplicateName)

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, stock.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestService_CreateRejectsUnvalidatedRequest(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Create(context.Background(), stock.StockRequest{})
	var verr *stock.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestService_UpdatePrice(t *testing.T) {
	svc, store := setup(t)
	prior := tesla()
	prior.ID = 1
	store.EXPECT().Get(gomock.Any(), int64(1)).Return(prior, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s stock.Stock) (stock.Stock, error) {
		return s, nil
	})

	got, err := svc.UpdatePrice(context.Background(), 1, stock.NewPriceRequest(decimal.RequireFromString("450.75")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 1 || got.Name != prior.Name {
		t.Errorf("id and name must not change: %+v", got)
	}
	if !got.CurrentPrice.Equal(decimal.RequireFromString("450.75")) {
		t.Errorf("price = %s, want 450.75", got.CurrentPrice)
	}
	if !got.LastUpdate.After(prior.LastUpdate) {
		t.Errorf("lastUpdate %v not after %v", got.LastUpdate, prior.LastUpdate)
	}
}

func TestService_UpdatePriceClockStalled(t *testing.T) {
	svc, store := setup(t)
	prior := tesla()
	prior.LastUpdate = fixedNow
	store.EXPECT().Get(gomock.Any(), int64(5)).Return(prior, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s stock.Stock) (stock.Stock, error) {
		return s, nil
	})

	got, err := svc.UpdatePrice(context.Background(), 5, stock.NewPriceRequest(decimal.RequireFromString("800")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := fixedNow.Add(time.Microsecond); !got.LastUpdate.Equal(want) {
		t.Errorf("lastUpdate = %v, want %v", got.LastUpdate, want)
	}
}

func TestService_UpdatePriceNotFound(t *testing.T) {
	svc, store := setup(t)
	store.EXPECT().Get(gomock.Any(), int64(42)).Return(stock.Stock{}, stock.ErrRecordNotFound)

	_, err := svc.UpdatePrice(context.Background(), 42, stock.NewPriceRequest(decimal.RequireFromString("1")))
	if !errors.Is(err, stock.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToResponse(t *testing.T) {
	if stock.ToResponse(nil) != nil {
		t.Errorf("nil stock must project to nil")
	}
	s := tesla()
	r := stock.ToResponse(&s)
	if r.ID != s.ID || r.Name != s.Name || !r.CurrentPrice.Equal(s.CurrentPrice) || !r.LastUpdate.Equal(s.LastUpdate) {
		t.Errorf("projection mismatch: %+v vs %+v", r, s)
	}
}
