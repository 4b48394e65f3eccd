package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/saiMhatre/stock-api/internal/stock"
)

// Handler serves the JSON API under /api/stocks.
type Handler struct {
	Service         stock.Service
	Logger          logrus.FieldLogger
	UpdateNoContent bool
}

func (h *Handler) ListStocksHandler(c *gin.Context) {
	list, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetStockHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	resp, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateStockHandler(c *gin.Context) {
	var req stock.StockRequest
	if err := bind(c, &req); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	resp, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) UpdateStockHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	var req stock.PriceRequest
	if err := bind(c, &req); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	resp, err := h.Service.UpdatePrice(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if h.UpdateNoContent {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bind decodes the JSON body and runs the binding rules, returning either a
// *stock.ValidationError or a *bindError.
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if verr := stock.NewValidationError(err); verr != nil {
			return verr
		}
		return &bindError{err: err}
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &invalidIDError{raw: raw}
	}
	return id, nil
}
