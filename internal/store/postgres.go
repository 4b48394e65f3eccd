package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/saiMhatre/stock-api/internal/config"
	"github.com/saiMhatre/stock-api/internal/stock"
)

var (
	_ stock.Store  = (*Postgres)(nil)
	_ stock.Pinger = (*Postgres)(nil)
)

const stockColumns = `id, name, current_price, last_update`

// Postgres stores stocks in the stocks table. The UNIQUE constraint on name is
// what makes concurrent creates safe.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// ConnectPostgres opens and pings the pool described by cfg.
func ConnectPostgres(cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

func (p *Postgres) List(ctx context.Context) ([]stock.Stock, error) {
	var rows []stock.Stock
	if err := p.db.SelectContext(ctx, &rows, `SELECT `+stockColumns+` FROM stocks ORDER BY id`); err != nil {
		return nil, err
	}
	normalize(rows)
	return rows, nil
}

func (p *Postgres) Get(ctx context.Context, id int64) (stock.Stock, error) {
	var s stock.Stock
	err := p.db.GetContext(ctx, &s, `SELECT `+stockColumns+` FROM stocks WHERE id=$1`, id)
	return p.one(s, err)
}

func (p *Postgres) GetByName(ctx context.Context, name string) (stock.Stock, error) {
	var s stock.Stock
	err := p.db.GetContext(ctx, &s, `SELECT `+stockColumns+` FROM stocks WHERE name=$1`, name)
	return p.one(s, err)
}

func (p *Postgres) Save(ctx context.Context, s stock.Stock) (stock.Stock, error) {
	if s.ID == 0 {
		err := p.db.GetContext(ctx, &s.ID, `
			INSERT INTO stocks (name, current_price, last_update)
			VALUES ($1,$2,$3)
			RETURNING id
		`, s.Name, s.CurrentPrice, s.LastUpdate)
		if err != nil {
			if isUniqueViolation(err) {
				return stock.Stock{}, stock.ErrDuplicateName
			}
			return stock.Stock{}, err
		}
		return s, nil
	}

	res, err := p.db.ExecContext(ctx, `
		UPDATE stocks SET name=$1, current_price=$2, last_update=$3
		WHERE id=$4
	`, s.Name, s.CurrentPrice, s.LastUpdate, s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return stock.Stock{}, stock.ErrDuplicateName
		}
		return stock.Stock{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return stock.Stock{}, err
	}
	if n == 0 {
		return stock.Stock{}, stock.ErrRecordNotFound
	}
	return s, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) one(s stock.Stock, err error) (stock.Stock, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return stock.Stock{}, stock.ErrRecordNotFound
		}
		return stock.Stock{}, err
	}
	s.LastUpdate = s.LastUpdate.UTC()
	return s, nil
}

func normalize(rows []stock.Stock) {
	for i := range rows {
		rows[i].LastUpdate = rows[i].LastUpdate.UTC()
	}
}
