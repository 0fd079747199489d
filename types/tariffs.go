package types

import (
	"time"

	"github.com/angas/essentwatch-go/convert"
	"github.com/angas/essentwatch-go/types/maybe"
	"github.com/montanaflynn/stats"
)

type Commodity string

const (
	CommodityElectricity Commodity = "electricity"
	CommodityGas         Commodity = "gas"
)

func Commodities() []Commodity {
	return []Commodity{CommodityElectricity, CommodityGas}
}

// PricePoint is one time-bounded tariff with boundaries expressed
// in Europe/Amsterdam civil time. Start is always before End.
type PricePoint struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Price float64   `json:"price"` // EUR per unit, as delivered by the API
}

// CommodityPrices is the normalized tariff schedule for one commodity.
// The aggregates are absent (null on the wire) when the schedule is empty.
type CommodityPrices struct {
	Prices   []PricePoint         `json:"prices"`
	Unit     string               `json:"unit,omitempty"`
	MinPrice maybe.Maybe[float64] `json:"min_price"`
	MaxPrice maybe.Maybe[float64] `json:"max_price"`
	AvgPrice maybe.Maybe[float64] `json:"avg_price"`
}

func (cp CommodityPrices) IsEmpty() bool {
	return len(cp.Prices) == 0
}

type Prices struct {
	Electricity CommodityPrices `json:"electricity"`
	Gas         CommodityPrices `json:"gas"`
}

func (p Prices) ByCommodity(c Commodity) CommodityPrices {
	if c == CommodityGas {
		return p.Gas
	}
	return p.Electricity
}

// NewCommodityPrices computes the aggregates for a tariff schedule.
// Min and max are taken verbatim from the source data, the average is
// the full-precision mean rounded to whole cents.
func NewCommodityPrices(points []PricePoint, unit string) CommodityPrices {
	cp := CommodityPrices{
		Prices:   points,
		Unit:     unit,
		MinPrice: maybe.None[float64](),
		MaxPrice: maybe.None[float64](),
		AvgPrice: maybe.None[float64](),
	}

	if len(points) == 0 {
		cp.Prices = []PricePoint{}
		return cp
	}

	amounts := make([]float64, len(points))
	for i, p := range points {
		amounts[i] = p.Price
	}

	if min, err := stats.Min(amounts); err == nil {
		cp.MinPrice = maybe.Some(min)
	}
	if max, err := stats.Max(amounts); err == nil {
		cp.MaxPrice = maybe.Some(max)
	}
	if avg, err := stats.Mean(amounts); err == nil {
		cp.AvgPrice = maybe.Some(convert.TwoDecimals(avg))
	}

	return cp
}
