package recorder

import (
	"fmt"
	"path/filepath"

	"main/internal/schema"
)

const historyExt = ".hist"

// TickFile returns the tick segment path for one symbol and date.
func TickFile(dir, symbol string, date uint32) string {
	return filepath.Join(dir, "ticks", fmt.Sprintf("%s-%d%s", symbol, date, historyExt))
}

// BarFile returns the bar segment path for one symbol and interval.
func BarFile(dir, symbol string, interval schema.Interval) string {
	return filepath.Join(dir, "bars", fmt.Sprintf("%s-%s%s", symbol, interval, historyExt))
}

// OrderDetailFile returns the order-flow segment path.
func OrderDetailFile(dir, symbol string, date uint32) string {
	return filepath.Join(dir, "orders", fmt.Sprintf("%s-%d%s", symbol, date, historyExt))
}

// TransactionFile returns the transaction segment path.
func TransactionFile(dir, symbol string, date uint32) string {
	return filepath.Join(dir, "transactions", fmt.Sprintf("%s-%d%s", symbol, date, historyExt))
}

// FactorFile returns the adjustment-factor segment path.
func FactorFile(dir, symbol string) string {
	return filepath.Join(dir, "factors", symbol+historyExt)
}
