package storage

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// centsToUnits converts a nullable cents column into currency units.
func centsToUnits(v sql.NullInt64) *float64 {
	if !v.Valid {
		return nil
	}
	f := decimal.NewFromInt(v.Int64).Shift(-2).InexactFloat64()
	return &f
}

// numericCentsToUnits converts a NUMERIC cents aggregate (e.g. AVG) into
// currency units.
func numericCentsToUnits(v sql.NullString) (*float64, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, fmt.Errorf("parse numeric %q: %w", v.String, err)
	}
	f := d.Shift(-2).InexactFloat64()
	return &f, nil
}

// numericToFloat converts a nullable NUMERIC aggregate.
func numericToFloat(v sql.NullString) (*float64, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, fmt.Errorf("parse numeric %q: %w", v.String, err)
	}
	f := d.InexactFloat64()
	return &f, nil
}

// UnitsToCents converts a currency amount into integer cents, rounding half
// away from zero.
func UnitsToCents(units float64) int64 {
	return decimal.NewFromFloat(units).Shift(2).Round(0).IntPart()
}
