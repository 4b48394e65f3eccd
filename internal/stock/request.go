package stock

import (
	"github.com/shopspring/decimal"
)

// StockRequest is the create payload. Pointers keep a missing field apart from
// an empty one so each gets its own message.
type StockRequest struct {
	Name         *string          `json:"name" form:"name" binding:"required,notblank"`
	CurrentPrice *decimal.Decimal `json:"currentPrice" form:"currentPrice" binding:"required,positive,pricefmt"`
}

// PriceRequest is the update payload. The target id travels in the path.
type PriceRequest struct {
	CurrentPrice *decimal.Decimal `json:"currentPrice" form:"currentPrice" binding:"required,positive,pricefmt"`
}

func NewStockRequest(name string, price decimal.Decimal) StockRequest {
	return StockRequest{Name: &name, CurrentPrice: &price}
}

func NewPriceRequest(price decimal.Decimal) PriceRequest {
	return PriceRequest{CurrentPrice: &price}
}
