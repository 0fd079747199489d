package database

import (
	"context"
	"fmt"
	"time"

	"github.com/angas/essentwatch-go/hours"
	"github.com/angas/essentwatch-go/types"
)

type TariffRow struct {
	Commodity types.Commodity
	Start     time.Time
	End       time.Time
	Price     float64
	Unit      string
}

// Point re-expresses the row in Amsterdam civil time, the form the rest
// of the application works with.
func (r TariffRow) Point() types.PricePoint {
	return types.PricePoint{
		Start: hours.LocationAmsterdam(r.Start),
		End:   hours.LocationAmsterdam(r.End),
		Price: r.Price,
	}
}

// SaveTariffs upserts one commodity's schedule. Re-fetching the same day
// overwrites price corrections in place.
func (d *Database) SaveTariffs(ctx context.Context, commodity types.Commodity, cp types.CommodityPrices) error {
	for _, p := range cp.Prices {
		_, err := d.write.ExecContext(ctx, `
			INSERT INTO tariff (commodity, period_start, period_end, price, unit) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(commodity, period_start) DO UPDATE SET
				period_end = excluded.period_end,
				price = excluded.price,
				unit = excluded.unit`,
			string(commodity),
			p.Start.UTC().Format(time.RFC3339),
			p.End.UTC().Format(time.RFC3339),
			p.Price,
			cp.Unit)
		if err != nil {
			return fmt.Errorf("saving tariff for %s: %w", commodity, err)
		}
	}
	return nil
}

// GetTariffsFrom returns all stored tariffs for a commodity that end after
// the given instant, ordered by start.
func (d *Database) GetTariffsFrom(ctx context.Context, commodity types.Commodity, from time.Time) ([]TariffRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT commodity, period_start, period_end, price, unit
		FROM tariff
		WHERE commodity = ? AND period_end > ?
		ORDER BY period_start`,
		string(commodity),
		from.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("fetching tariffs for %s: %w", commodity, err)
	}
	defer rows.Close()

	var result []TariffRow
	for rows.Next() {
		row, err := scanTariffRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tariff rows: %w", err)
	}

	return result, nil
}

// GetTariffForTime returns the tariff covering the given instant.
func (d *Database) GetTariffForTime(ctx context.Context, commodity types.Commodity, at time.Time) (TariffRow, error) {
	ts := at.UTC().Format(time.RFC3339)
	row := d.read.QueryRowContext(ctx, `
		SELECT commodity, period_start, period_end, price, unit
		FROM tariff
		WHERE commodity = ? AND period_start <= ? AND period_end > ?
		LIMIT 1`,
		string(commodity), ts, ts)

	r, err := scanTariffRow(row)
	if err != nil {
		return TariffRow{}, fmt.Errorf("fetching tariff for %s at %s: %w", commodity, ts, err)
	}
	return r, nil
}

func (d *Database) PurgeTariffs(ctx context.Context, retentionDays int) error {
	cutoff := time.Now().Add(-24 * time.Hour * time.Duration(retentionDays))
	res, err := d.write.ExecContext(ctx,
		`DELETE FROM tariff WHERE period_end < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("purging tariffs: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil {
		d.logger.Debug(fmt.Sprintf("purged %d tariff rows", rows))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTariffRow(s rowScanner) (TariffRow, error) {
	var r TariffRow
	var commodity, start, end string
	if err := s.Scan(&commodity, &start, &end, &r.Price, &r.Unit); err != nil {
		return TariffRow{}, err
	}
	r.Commodity = types.Commodity(commodity)

	var err error
	if r.Start, err = time.Parse(time.RFC3339, start); err != nil {
		return TariffRow{}, fmt.Errorf("parsing tariff start: %w", err)
	}
	if r.End, err = time.Parse(time.RFC3339, end); err != nil {
		return TariffRow{}, fmt.Errorf("parsing tariff end: %w", err)
	}
	return r, nil
}
