package sync

import (
	"strings"

	"github.com/shopspring/decimal"

	"argentasync/internal/infrastructure/actualbudget"
	"argentasync/internal/infrastructure/argenta"
)

// MapMovement converts one bank movement into the ledger's import format.
// It is total: malformed input degrades (zero amount, passthrough date)
// rather than failing the batch.
func MapMovement(m argenta.Movement, ledgerAccountID string) actualbudget.ImportTransaction {
	return actualbudget.ImportTransaction{
		Account:    ledgerAccountID,
		Date:       formatDate(m.AccountingDate),
		Amount:     minorUnits(m.MovementAmount.String(), m.MovementSign),
		PayeeName:  payeeName(m.CounterpartyName),
		Notes:      joinNotes(m.CommunicationPart1, m.CommunicationPart2),
		ImportedID: m.Identifier,
		Cleared:    true,
	}
}

// MapMovements converts a batch, preserving order.
func MapMovements(movements []argenta.Movement, ledgerAccountID string) []actualbudget.ImportTransaction {
	transactions := make([]actualbudget.ImportTransaction, 0, len(movements))
	for _, m := range movements {
		transactions = append(transactions, MapMovement(m, ledgerAccountID))
	}
	return transactions
}

// minorUnits converts a decimal amount string into integer minor units
// (cents), rounding half away from zero. The sign marker "-" negates;
// any other marker means inflow.
func minorUnits(raw, sign string) int64 {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if sign == "-" {
		return -cents
	}
	return cents
}

// formatDate reinterprets the bank's compact YYYYMMDD form as YYYY-MM-DD.
// Anything else passes through unchanged, so already formatted dates are
// idempotent under re-mapping.
func formatDate(date string) string {
	if len(date) == 8 {
		return date[0:4] + "-" + date[4:6] + "-" + date[6:8]
	}
	return date
}

func payeeName(counterparty string) string {
	if counterparty == "" {
		return "Unknown"
	}
	return counterparty
}

// joinNotes joins the two communication fields with a single space,
// skipping empty parts.
func joinNotes(part1, part2 string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{part1, part2} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
