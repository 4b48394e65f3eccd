package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]StockResponse, error)
	Get(ctx context.Context, id int64) (*StockResponse, error)
	Create(ctx context.Context, req StockRequest) (*StockResponse, error)
	UpdatePrice(ctx context.Context, id int64, req PriceRequest) (*StockResponse, error)
}

type Option func(*service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	store  Store
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewService expects requests that already passed Validate or gin binding.
func NewService(store Store, logger logrus.FieldLogger, opts ...Option) Service {
	s := &service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) List(ctx context.Context) ([]StockResponse, error) {
	stocks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	out := make([]StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, *ToResponse(&stocks[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*StockResponse, error) {
	st, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(&st), nil
}

func (s *service) Create(ctx context.Context, req StockRequest) (*StockResponse, error) {
	if req.Name == nil || req.CurrentPrice == nil {
		return nil, Validate(req)
	}
	name := *req.Name

	_, err := s.store.GetByName(ctx, name)
	switch {
	case err == nil:
		s.logger.WithField("name", name).Debug("create rejected, name taken")
		return nil, &AlreadyExistsError{Name: name}
	case !errors.Is(err, ErrRecordNotFound):
		return nil, fmt.Errorf("lookup stock %q: %w", name, err)
	}

	saved, err := s.store.Save(ctx, Stock{
		Name:         name,
		CurrentPrice: *req.CurrentPrice,
		LastUpdate:   s.timestamp(time.Time{}),
	})
	if err != nil {
		// the store's own uniqueness check catches creates that raced past GetByName
		if errors.Is(err, ErrDuplicateName) {
			s.logger.WithField("name", name).Debug("create lost uniqueness race")
			return nil, &AlreadyExistsError{Name: name}
		}
		return nil, fmt.Errorf("save stock %q: %w", name, err)
	}

	s.logger.WithFields(logrus.Fields{
		"id": saved.ID, "name": saved.Name, "price": saved.CurrentPrice.String(),
	}).Info("stock created")
	return ToResponse(&saved), nil
}

func (s *service) UpdatePrice(ctx context.Context, id int64, req PriceRequest) (*StockResponse, error) {
	if req.CurrentPrice == nil {
		return nil, Validate(req)
	}
	st, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	st.CurrentPrice = *req.CurrentPrice
	st.LastUpdate = s.timestamp(st.LastUpdate)

	saved, err := s.store.Save(ctx, st)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("save stock %d: %w", id, err)
	}

	s.logger.WithFields(logrus.Fields{
		"id": saved.ID, "price": saved.CurrentPrice.String(),
	}).Info("stock price updated")
	return ToResponse(&saved), nil
}

func (s *service) find(ctx context.Context, id int64) (Stock, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			s.logger.WithField("id", id).Debug("stock not found")
			return Stock{}, &NotFoundError{ID: id}
		}
		return Stock{}, fmt.Errorf("get stock %d: %w", id, err)
	}
	return st, nil
}

// timestamp returns the current UTC time at database precision, bumped past
// prev when the clock has not moved on.
func (s *service) timestamp(prev time.Time) time.Time {
	ts := s.now().UTC().Truncate(time.Microsecond)
	if !prev.IsZero() && !ts.After(prev) {
		ts = prev.Add(time.Microsecond)
	}
	return ts
}

