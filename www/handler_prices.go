package www

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/essentwatch-go/database"
	"github.com/angas/essentwatch-go/hours"
	"github.com/angas/essentwatch-go/types"
)

// NewPricesHandler serves the stored schedules from Amsterdam-midnight of
// the current day onward, in the same shape the fetch pipeline produces:
// per commodity an ordered price list plus min/max/avg.
func NewPricesHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		from := hours.StartOfDay(time.Now())

		electricity, err := storedCommodityPrices(r.Context(), db, types.CommodityElectricity, from)
		if err != nil {
			logger.Error("handling prices request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		gas, err := storedCommodityPrices(r.Context(), db, types.CommodityGas, from)
		if err != nil {
			logger.Error("handling prices request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.Prices{Electricity: electricity, Gas: gas}); err != nil {
			logger.Error("handling prices request", slog.Any("error", err))
			http.Error(w, "unable to encode prices", http.StatusInternalServerError)
		}
	}
}

// storedCommodityPrices rebuilds a normalized schedule from database rows,
// applying the same aggregate rules as the fetch pipeline.
func storedCommodityPrices(ctx context.Context, db *database.Database, commodity types.Commodity, from time.Time) (types.CommodityPrices, error) {
	rows, err := db.GetTariffsFrom(ctx, commodity, from)
	if err != nil {
		return types.CommodityPrices{}, err
	}

	unit := ""
	points := make([]types.PricePoint, 0, len(rows))
	for _, row := range rows {
		if unit == "" {
			unit = row.Unit
		}
		points = append(points, row.Point())
	}

	return types.NewCommodityPrices(points, unit), nil
}
