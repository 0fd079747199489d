package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/essentwatch-go/config"
	"github.com/angas/essentwatch-go/database"
	"github.com/angas/essentwatch-go/essent"
	"github.com/angas/essentwatch-go/mqtt"
	"github.com/angas/essentwatch-go/types"
)

// NewPriceTask returns the scheduled price fetch. It runs once right away
// when the database has no tariff covering the next hour, so a restarted
// instance doesn't sit without prices until the next cron slot.
func NewPriceTask(logger *slog.Logger, db *database.Database, client *essent.Client, publisher *mqtt.Publisher, cnfg config.AppConfigEssent) func() {
	run := func() { runPriceTask(logger, db, client, publisher, cnfg) }

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if needImmediatePriceUpdate(ctx, db) {
		logger.Info("need an immediate update of tariffs")
		run()
	} else {
		logger.Debug("no need for immediate update of tariffs")
	}

	return run
}

func runPriceTask(logger *slog.Logger, db *database.Database, client *essent.Client, publisher *mqtt.Publisher, cnfg config.AppConfigEssent) {
	logger.Debug("running price task...")

	ctx, cancel := context.WithTimeout(context.Background(), cnfg.GetTimeout())
	defer cancel()

	prices, err := client.GetPrices(ctx)
	if err != nil {
		logger.Error("price task error, fetching tariffs", slog.Any("error", err))
		return
	}

	saved := 0
	for _, commodity := range types.Commodities() {
		cp := prices.ByCommodity(commodity)
		if err := db.SaveTariffs(ctx, commodity, cp); err != nil {
			logger.Error("price task error, saving tariffs",
				slog.String("commodity", string(commodity)),
				slog.Any("error", err))
			return
		}
		saved += len(cp.Prices)
	}

	if publisher != nil {
		if err := publisher.PublishPrices(prices); err != nil {
			logger.Error("price task error, publishing tariffs", slog.Any("error", err))
		}
	}

	logger.Info("price task done",
		slog.Int("noOfElectricityPoints", len(prices.Electricity.Prices)),
		slog.Int("noOfGasPoints", len(prices.Gas.Prices)),
		slog.Int("noOfRowsSaved", saved))
}

func needImmediatePriceUpdate(ctx context.Context, db *database.Database) bool {
	nextHour := time.Now().Add(time.Hour)
	if _, err := db.GetTariffForTime(ctx, types.CommodityElectricity, nextHour); err != nil {
		return true
	}
	return false
}
