package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is the persisted record.
type Stock struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	LastUpdate   time.Time       `db:"last_update"`
}

// StockResponse is the shape returned to API and UI callers. It mirrors Stock
// but is kept separate so the wire contract does not move with the table.
type StockResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	LastUpdate   time.Time       `json:"lastUpdate"`
}

func ToResponse(s *Stock) *StockResponse {
	if s == nil {
		return nil
	}
	return &StockResponse{
		ID:           s.ID,
		Name:         s.Name,
		CurrentPrice: s.CurrentPrice,
		LastUpdate:   s.LastUpdate,
	}
}
