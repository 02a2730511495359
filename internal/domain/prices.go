package domain

import "github.com/shopspring/decimal"

// defaultBundlePrices — прайс по умолчанию в GHS; действующий прайс
// приходит с событием оплаты, это запасной вариант.
var defaultBundlePrices = map[string]string{
	"100MB": "1.20",
	"300MB": "2.20",
	"500MB": "3.20",
	"1GB":   "5.70",
	"2GB":   "10.70",
	"3GB":   "15.70",
	"4GB":   "20.70",
	"5GB":   "25.70",
	"10GB":  "50.70",
}

// PriceFor возвращает цену пакета по умолчанию.
func PriceFor(bundleCode string) (decimal.Decimal, bool) {
	s, ok := defaultBundlePrices[bundleCode]
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.RequireFromString(s), true
}

// DefaultPrices возвращает копию прайса по умолчанию.
func DefaultPrices() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(defaultBundlePrices))
	for code, s := range defaultBundlePrices {
		out[code] = decimal.RequireFromString(s)
	}
	return out
}
