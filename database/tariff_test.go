package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/angas/essentwatch-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func hourPoint(start time.Time, price float64) types.PricePoint {
	return types.PricePoint{Start: start, End: start.Add(time.Hour), Price: price}
}

func TestSaveAndGetTariffs(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	cp := types.NewCommodityPrices([]types.PricePoint{
		hourPoint(base, 0.20),
		hourPoint(base.Add(time.Hour), 0.30),
	}, "kWh")

	require.NoError(t, db.SaveTariffs(ctx, types.CommodityElectricity, cp))

	rows, err := db.GetTariffsFrom(ctx, types.CommodityElectricity, base)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, types.CommodityElectricity, rows[0].Commodity)
	assert.True(t, rows[0].Start.Equal(base))
	assert.True(t, rows[0].End.Equal(base.Add(time.Hour)))
	assert.Equal(t, 0.20, rows[0].Price)
	assert.Equal(t, "kWh", rows[0].Unit)
	assert.Equal(t, 0.30, rows[1].Price)

	// Rows for another commodity stay invisible.
	gasRows, err := db.GetTariffsFrom(ctx, types.CommodityGas, base)
	require.NoError(t, err)
	assert.Empty(t, gasRows)
}

func TestSaveTariffsUpsert(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	first := types.NewCommodityPrices([]types.PricePoint{hourPoint(base, 0.20)}, "kWh")
	require.NoError(t, db.SaveTariffs(ctx, types.CommodityElectricity, first))

	corrected := types.NewCommodityPrices([]types.PricePoint{hourPoint(base, 0.22)}, "kWh")
	require.NoError(t, db.SaveTariffs(ctx, types.CommodityElectricity, corrected))

	rows, err := db.GetTariffsFrom(ctx, types.CommodityElectricity, base)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.22, rows[0].Price)
}

func TestGetTariffsFromOrdersByStart(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	// Saved out of order on purpose.
	cp := types.NewCommodityPrices([]types.PricePoint{
		hourPoint(base.Add(2*time.Hour), 0.30),
		hourPoint(base, 0.10),
		hourPoint(base.Add(time.Hour), 0.20),
	}, "kWh")
	require.NoError(t, db.SaveTariffs(ctx, types.CommodityElectricity, cp))

	rows, err := db.GetTariffsFrom(ctx, types.CommodityElectricity, base)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0.10, rows[0].Price)
	assert.Equal(t, 0.20, rows[1].Price)
	assert.Equal(t, 0.30, rows[2].Price)
}

func TestGetTariffForTime(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	cp := types.NewCommodityPrices([]types.PricePoint{
		hourPoint(base, 0.20),
		hourPoint(base.Add(time.Hour), 0.30),
	}, "kWh")
	require.NoError(t, db.SaveTariffs(ctx, types.CommodityElectricity, cp))

	row, err := db.GetTariffForTime(ctx, types.CommodityElectricity, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0.30, row.Price)

	// Period end is exclusive.
	row, err = db.GetTariffForTime(ctx, types.CommodityElectricity, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0.30, row.Price)

	_, err = db.GetTariffForTime(ctx, types.CommodityElectricity, base.Add(5*time.Hour))
	assert.Error(t, err)
}

func TestPurgeTariffs(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	old := hourPoint(time.Now().UTC().AddDate(0, 0, -10), 0.15)
	fresh := hourPoint(time.Now().UTC(), 0.25)
	cp := types.NewCommodityPrices([]types.PricePoint{old, fresh}, "kWh")
	require.NoError(t, db.SaveTariffs(ctx, types.CommodityElectricity, cp))

	require.NoError(t, db.PurgeTariffs(ctx, 7))

	rows, err := db.GetTariffsFrom(ctx, types.CommodityElectricity, time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.25, rows[0].Price)
}

func TestTariffRowPoint(t *testing.T) {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	row := TariffRow{Start: start, End: start.Add(time.Hour), Price: 0.42}

	p := row.Point()
	// Summer date, CEST is UTC+2.
	assert.Equal(t, 12, p.Start.Hour())
	assert.True(t, p.Start.Equal(start))
	assert.Equal(t, 0.42, p.Price)
}
