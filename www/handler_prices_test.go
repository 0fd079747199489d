package www

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angas/essentwatch-go/database"
	"github.com/angas/essentwatch-go/types"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestPricesHandler(t *testing.T) {
	db := newTestDatabase(t)

	start := time.Now().UTC().Truncate(time.Hour)
	cp := types.NewCommodityPrices([]types.PricePoint{
		{Start: start, End: start.Add(time.Hour), Price: 0.20},
		{Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), Price: 0.30},
	}, "kWh")
	require.NoError(t, db.SaveTariffs(context.Background(), types.CommodityElectricity, cp))

	handler := NewPricesHandler(slog.Default(), db)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/prices", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var prices types.Prices
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prices))

	require.Len(t, prices.Electricity.Prices, 2)
	assert.Equal(t, 0.20, prices.Electricity.MinPrice.Value())
	assert.Equal(t, 0.30, prices.Electricity.MaxPrice.Value())
	assert.Equal(t, 0.25, prices.Electricity.AvgPrice.Value())
	assert.Equal(t, "kWh", prices.Electricity.Unit)

	// Gas has no stored rows: empty list, aggregates null.
	assert.Empty(t, prices.Gas.Prices)
	assert.False(t, prices.Gas.MinPrice.IsValid())
}

func TestPricesHandlerMethodNotAllowed(t *testing.T) {
	db := newTestDatabase(t)

	handler := NewPricesHandler(slog.Default(), db)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/prices", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
