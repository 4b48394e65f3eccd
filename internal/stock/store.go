package stock

import "context"

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// Store persists stocks by id with a secondary lookup by name.
//
// Get and GetByName return ErrRecordNotFound on a miss. Save inserts when
// ID is zero and assigns the id, otherwise overwrites the record; it returns
// ErrDuplicateName if the name is taken and ErrRecordNotFound when updating
// an id that does not exist.
type Store interface {
	List(ctx context.Context) ([]Stock, error)
	Get(ctx context.Context, id int64) (Stock, error)
	GetByName(ctx context.Context, name string) (Stock, error)
	Save(ctx context.Context, s Stock) (Stock, error)
}

// Pinger is implemented by stores backed by an external resource.
type Pinger interface {
	Ping(ctx context.Context) error
}
