package essent

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/angas/essentwatch-go/hours"
	"github.com/angas/essentwatch-go/types"
)

// rawTariff mirrors one schedule entry as delivered by the API. Pointers
// distinguish a missing field from a zero value.
type rawTariff struct {
	Start *string  `json:"start"`
	End   *string  `json:"end"`
	Price *float64 `json:"price"`
}

// parseSection normalizes one commodity's schedule. Entries that are
// malformed (wrong JSON types, missing fields, naive or unparseable
// timestamps, start at or after end) are skipped one by one; the rest of
// the schedule still parses. Source order of the valid entries is
// preserved, re-sorting here would mask an upstream data-quality issue.
func parseSection(s *section) types.CommodityPrices {
	if s == nil {
		return types.NewCommodityPrices(nil, "")
	}

	points := make([]types.PricePoint, 0, len(s.Tariffs))
	for _, raw := range s.Tariffs {
		var t rawTariff
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		if t.Start == nil || t.End == nil || t.Price == nil {
			continue
		}
		// RFC3339 requires a UTC designator or an explicit offset, so an
		// ambiguous local timestamp is rejected here.
		start, err := time.Parse(time.RFC3339, *t.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, *t.End)
		if err != nil {
			continue
		}
		if !start.Before(end) {
			continue
		}

		points = append(points, types.PricePoint{
			Start: hours.LocationAmsterdam(start),
			End:   hours.LocationAmsterdam(end),
			Price: *t.Price,
		})
	}

	return types.NewCommodityPrices(points, normalizeUnit(s.Unit))
}

// normalizeUnit cleans up the unit strings Essent sends ("KWH", "m3").
// Unrecognized units pass through verbatim, no price conversion is ever
// applied to them.
func normalizeUnit(unit string) string {
	trimmed := strings.TrimSpace(unit)
	switch strings.ToLower(strings.ReplaceAll(trimmed, "³", "3")) {
	case "kwh":
		return "kWh"
	case "m3", "m^3":
		return "m³"
	}
	return trimmed
}
