package domain

import "github.com/shopspring/decimal"

// FormatMoney renders an amount as dollars with two decimals, e.g. $1000.00
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
