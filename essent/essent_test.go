package essent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const responseBody = `{
	"electricity": {
		"unit": "kWh",
		"tariffs": [
			{"start": "2024-01-01T00:00:00Z", "end": "2024-01-01T01:00:00Z", "price": 0.20},
			{"start": "2024-01-01T01:00:00Z", "end": "2024-01-01T02:00:00Z", "price": 0.30}
		]
	},
	"gas": {
		"unit": "m3",
		"tariffs": [
			{"start": "2024-01-01T05:00:00Z", "end": "2024-01-02T05:00:00Z", "price": 1.05}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.Client(), WithBaseURL(srv.URL))
}

func TestGetPrices(t *testing.T) {
	var gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responseBody))
	})

	prices, err := client.GetPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotAccept)

	el := prices.Electricity
	require.Len(t, el.Prices, 2)
	assert.Equal(t, 0.20, el.MinPrice.Value())
	assert.Equal(t, 0.30, el.MaxPrice.Value())
	assert.Equal(t, 0.25, el.AvgPrice.Value())
	assert.Equal(t, "kWh", el.Unit)

	gas := prices.Gas
	require.Len(t, gas.Prices, 1)
	assert.Equal(t, 1.05, gas.MinPrice.Value())
	assert.Equal(t, 1.05, gas.MaxPrice.Value())
	assert.Equal(t, 1.05, gas.AvgPrice.Value())
	assert.Equal(t, "m³", gas.Unit)
}

func TestGetPricesMissingCommodity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"electricity": {"unit": "kWh", "tariffs": [
			{"start": "2024-01-01T00:00:00Z", "end": "2024-01-01T01:00:00Z", "price": 0.20}
		]}}`))
	})

	prices, err := client.GetPrices(context.Background())
	require.NoError(t, err)

	assert.Len(t, prices.Electricity.Prices, 1)
	assert.True(t, prices.Gas.IsEmpty())
	assert.False(t, prices.Gas.MinPrice.IsValid())
}

func TestGetPricesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := New(srv.Client(), WithBaseURL(srv.URL))
	srv.Close() // connection refused from here on

	_, err := client.GetPrices(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
}

func TestGetPricesBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GetPrices(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
}

func TestGetPricesNotJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("maintenance page"))
	})

	_, err := client.GetPrices(context.Background())
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
}

func TestGetPricesUnexpectedShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prices": []}`))
	})

	_, err := client.GetPrices(context.Background())
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
}

func TestGetPricesContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
		w.Write([]byte(responseBody))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetPrices(ctx)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
}

func TestGetPricesDefaultEndpoint(t *testing.T) {
	client := New(http.DefaultClient)
	assert.Equal(t, DefaultEndpoint, client.baseURL)
}
