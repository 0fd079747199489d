package essent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/angas/essentwatch-go/types"
)

// DefaultEndpoint is Essent's public dynamic tariff API. It returns the
// schedules for today, and for tomorrow once those are published
// (usually from mid-afternoon onward).
const DefaultEndpoint = "https://www.essent.nl/api/public/tariffmanagement/dynamic-prices/v1/"

// Client fetches dynamic electricity and gas tariffs. The HTTP client is
// injected: connection pooling, TLS and timeouts stay with the caller, so
// a single session can be shared between concurrent callers.
type Client struct {
	http    *http.Client
	baseURL string
}

type Option func(*Client)

// WithBaseURL overrides the production endpoint, for tests or regional variants.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{http: httpClient, baseURL: DefaultEndpoint}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// section is one commodity's part of the API response. Tariff entries are
// kept raw so a single malformed entry can be skipped during parsing
// instead of failing the whole schedule.
type section struct {
	Tariffs []json.RawMessage `json:"tariffs"`
	Unit    string            `json:"unit"`
}

type priceResponse struct {
	Electricity *section `json:"electricity"`
	Gas         *section `json:"gas"`
}

// GetPrices performs a single GET against the tariff endpoint and returns
// normalized schedules for both commodities. A commodity missing from the
// response yields an empty schedule; a response without either commodity
// is a DecodeError. The call holds no state, so it is safe to invoke
// concurrently on a shared Client.
func (c *Client) GetPrices(ctx context.Context) (types.Prices, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return types.Prices{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return types.Prices{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Prices{}, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return types.Prices{}, &TransportError{StatusCode: resp.StatusCode}
	}

	var pr priceResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return types.Prices{}, &DecodeError{Err: err}
	}
	if pr.Electricity == nil && pr.Gas == nil {
		return types.Prices{}, &DecodeError{Err: errors.New("response has neither electricity nor gas section")}
	}

	return types.Prices{
		Electricity: parseSection(pr.Electricity),
		Gas:         parseSection(pr.Gas),
	}, nil
}
