package httpapi

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/saiMhatre/stock-api/internal/stock"
)

//go:embed templates/*.html
var templatesFS embed.FS

const listPath = "/stocks/list"

func loadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.html")
}

// WebHandler serves the HTML pages.
type WebHandler struct {
	Service stock.Service
	Logger  logrus.FieldLogger
}

// stockForm holds the raw values echoed back into a form.
type stockForm struct {
	ID    int64
	Name  string
	Price string
}

func (h *WebHandler) ListPage(c *gin.Context) {
	list, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "list.html", gin.H{"stocks": list})
}

func (h *WebHandler) AddPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add.html", gin.H{"stock": stockForm{}})
}

func (h *WebHandler) AddSubmit(c *gin.Context) {
	form := stockForm{Price: c.PostForm("currentPrice")}
	var req stock.StockRequest
	if name, ok := c.GetPostForm("name"); ok {
		form.Name = name
		req.Name = &name
	}
	price, badPrice := formPrice(form.Price)
	req.CurrentPrice = price

	if msgs := formErrors(stock.Validate(req), badPrice); len(msgs) > 0 {
		c.HTML(http.StatusOK, "add.html", gin.H{"stock": form, "errors": msgs})
		return
	}
	if _, err := h.Service.Create(c.Request.Context(), req); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, listPath)
}

func (h *WebHandler) UpdatePage(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	resp, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "update.html", gin.H{"stock": stockForm{
		ID:    resp.ID,
		Name:  resp.Name,
		Price: resp.CurrentPrice.StringFixed(2),
	}})
}

func (h *WebHandler) UpdateSubmit(c *gin.Context) {
	rawID, ok := c.GetPostForm("id")
	if !ok {
		rawID = c.Query("id")
	}
	id, err := parseID(rawID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	form := stockForm{ID: id, Price: c.PostForm("currentPrice")}
	price, badPrice := formPrice(form.Price)
	req := stock.PriceRequest{CurrentPrice: price}

	if msgs := formErrors(stock.Validate(req), badPrice); len(msgs) > 0 {
		current, err := h.Service.Get(c.Request.Context(), id)
		if err != nil {
			h.renderError(c, err)
			return
		}
		form.Name = current.Name
		c.HTML(http.StatusOK, "update.html", gin.H{"stock": form, "errors": msgs})
		return
	}
	if _, err := h.Service.UpdatePrice(c.Request.Context(), id, req); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, listPath)
}

func (h *WebHandler) renderError(c *gin.Context, err error) {
	code, msgs := statusFor(err)
	page := "400error.html"
	switch code {
	case http.StatusNotFound:
		page = "404error.html"
	case http.StatusInternalServerError:
		page = "500error.html"
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error("page failed")
	}
	c.HTML(code, page, gin.H{"messages": msgs})
	c.Abort()
}

// formPrice parses the submitted price. An empty field is treated as missing;
// bad reports text that is not a number.
func formPrice(raw string) (price *decimal.Decimal, bad bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, true
	}
	return &d, false
}

func formErrors(err error, badPrice bool) []string {
	var msgs []string
	var verr *stock.ValidationError
	if errors.As(err, &verr) {
		msgs = verr.Messages
	} else if err != nil {
		msgs = []string{err.Error()}
	}
	if !badPrice {
		return msgs
	}
	out := make([]string, 0, len(msgs)+1)
	for _, m := range msgs {
		if m != stock.MsgPriceNull {
			out = append(out, m)
		}
	}
	return append(out, stock.MsgPriceFormat)
}
