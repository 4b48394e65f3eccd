package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/saiMhatre/stock-api/internal/stock"
)

type entry struct {
	Name  string
	Price string
}

var sampleStocks = []entry{
	{"GameStop Corp.", "325.00"},
	{"AMC Entertainment Holdings Inc", "13.26"},
	{"BlackBerry Ltd", "14.10"},
	{"Nokia Oyj", "4.56"},
	{"Tesla Inc", "793.53"},
}

// Run inserts the sample stocks, skipping names already present so a restart
// against a persistent store leaves existing rows alone. It returns how many
// rows were inserted.
func Run(ctx context.Context, store stock.Store, logger logrus.FieldLogger, now func() time.Time) (int, error) {
	logger.Info("seeding stocks...")
	inserted := 0
	for _, e := range sampleStocks {
		_, err := store.GetByName(ctx, e.Name)
		if err == nil {
			logger.WithField("name", e.Name).Debug("seed stock already present")
			continue
		}
		if !errors.Is(err, stock.ErrRecordNotFound) {
			return inserted, fmt.Errorf("seed lookup %q: %w", e.Name, err)
		}

		s, err := store.Save(ctx, stock.Stock{
			Name:         e.Name,
			CurrentPrice: decimal.RequireFromString(e.Price),
			LastUpdate:   now().UTC().Truncate(time.Microsecond),
		})
		if err != nil {
			if errors.Is(err, stock.ErrDuplicateName) {
				continue
			}
			return inserted, fmt.Errorf("seed insert %q: %w", e.Name, err)
		}
		inserted++
		logger.Infof("seeded %s -> %s (id %d)", s.Name, s.CurrentPrice.StringFixed(2), s.ID)
	}
	return inserted, nil
}
