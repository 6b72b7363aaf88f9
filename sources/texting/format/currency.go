package format

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func Currencify(symbol string, value decimal.Decimal) string {
	return symbol + humanize.Comma(value.IntPart())
}

func Pluralify(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}
