package www

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/essentwatch-go/database"
	"github.com/angas/essentwatch-go/hours"
	"github.com/angas/essentwatch-go/types"
	"github.com/angas/essentwatch-go/www/chartjs"
)

func NewChartHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		midnight := hours.StartOfDay(time.Now())

		electricity, err := db.GetTariffsFrom(r.Context(), types.CommodityElectricity, midnight)
		if err != nil {
			logger.Error("handling chart request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		gas, err := db.GetTariffsFrom(r.Context(), types.CommodityGas, midnight)
		if err != nil {
			logger.Error("handling chart request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		priceAt := func(rows []database.TariffRow, at time.Time) *float64 {
			for _, row := range rows {
				if !row.Start.After(at) && row.End.After(at) {
					return chartjs.FixedFloat64(row.Price, 4)
				}
			}
			return nil
		}

		chart := chartjs.NewChart("")
		for i := 0; i < chartjs.NoOfHours; i++ {
			hour := midnight.Add(time.Duration(i) * time.Hour)
			chart.Data.Datasets[0].Data[i] = priceAt(electricity, hour)
			chart.Data.Datasets[1].Data[i] = priceAt(gas, hour)
		}
		chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].
			WithTitle("Electricity (EUR/kWh)")
		chart.Options.Scales["YAxis2"] = chart.Options.Scales["YAxis2"].
			WithTitle("Gas (EUR/m³)")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(chart); err != nil {
			logger.Error("handling chart request", slog.Any("error", err))
			http.Error(w, "unable to encode chart", http.StatusInternalServerError)
		}
	}
}
