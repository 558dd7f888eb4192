package sync

import (
	"encoding/json"
	"testing"

	"argentasync/internal/infrastructure/argenta"
)

func TestMapMovement_Amount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		sign   string
		want   int64
	}{
		{
			name:   "debit negates",
			amount: "99.99",
			sign:   "-",
			want:   -9999,
		},
		{
			name:   "credit with plus sign",
			amount: "12.50",
			sign:   "+",
			want:   1250,
		},
		{
			name:   "credit with empty sign",
			amount: "12.50",
			sign:   "",
			want:   1250,
		},
		{
			name:   "unknown sign treated as credit",
			amount: "1.00",
			sign:   "x",
			want:   100,
		},
		{
			name:   "half cent rounds away from zero",
			amount: "0.005",
			sign:   "",
			want:   1,
		},
		{
			name:   "half cent debit rounds away from zero",
			amount: "0.005",
			sign:   "-",
			want:   -1,
		},
		{
			name:   "whole amount",
			amount: "1500",
			sign:   "-",
			want:   -150000,
		},
		{
			name:   "zero",
			amount: "0",
			sign:   "-",
			want:   0,
		},
		{
			name:   "unparseable amount maps to zero",
			amount: "",
			sign:   "-",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := argenta.Movement{
				MovementAmount: json.Number(tt.amount),
				MovementSign:   tt.sign,
			}

			got := MapMovement(m, "ledger-1")
			if got.Amount != tt.want {
				t.Errorf("Amount = %d, want %d", got.Amount, tt.want)
			}
		})
	}
}

func TestMapMovement_Date(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{
			name: "compact bank date",
			date: "20260215",
			want: "2026-02-15",
		},
		{
			name: "already formatted date passes through",
			date: "2026-02-15",
			want: "2026-02-15",
		},
		{
			name: "empty date passes through",
			date: "",
			want: "",
		},
		{
			name: "unexpected length passes through",
			date: "2026021",
			want: "2026021",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := argenta.Movement{AccountingDate: tt.date}

			got := MapMovement(m, "ledger-1")
			if got.Date != tt.want {
				t.Errorf("Date = %q, want %q", got.Date, tt.want)
			}
		})
	}
}

func TestMapMovement_DateIdempotent(t *testing.T) {
	once := formatDate("20260215")
	twice := formatDate(once)
	if once != twice {
		t.Errorf("formatDate not idempotent: %q != %q", once, twice)
	}
}

func TestMapMovement_Notes(t *testing.T) {
	tests := []struct {
		name  string
		part1 string
		part2 string
		want  string
	}{
		{
			name:  "both parts joined with one space",
			part1: "Invoice 42",
			part2: "ref 2026",
			want:  "Invoice 42 ref 2026",
		},
		{
			name:  "empty first part skipped",
			part1: "",
			part2: "ref 2026",
			want:  "ref 2026",
		},
		{
			name:  "empty second part skipped",
			part1: "Invoice 42",
			part2: "",
			want:  "Invoice 42",
		},
		{
			name:  "both empty",
			part1: "",
			part2: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := argenta.Movement{
				CommunicationPart1: tt.part1,
				CommunicationPart2: tt.part2,
			}

			got := MapMovement(m, "ledger-1")
			if got.Notes != tt.want {
				t.Errorf("Notes = %q, want %q", got.Notes, tt.want)
			}
		})
	}
}

func TestMapMovement_Payee(t *testing.T) {
	m := argenta.Movement{CounterpartyName: "Bakkerij Janssens"}
	if got := MapMovement(m, "ledger-1").PayeeName; got != "Bakkerij Janssens" {
		t.Errorf("PayeeName = %q, want Bakkerij Janssens", got)
	}

	m = argenta.Movement{}
	if got := MapMovement(m, "ledger-1").PayeeName; got != "Unknown" {
		t.Errorf("PayeeName = %q, want Unknown for missing counterparty", got)
	}
}

func TestMapMovement_Identity(t *testing.T) {
	m := argenta.Movement{Identifier: "mv-123"}

	got := MapMovement(m, "ledger-9")
	if got.ImportedID != "mv-123" {
		t.Errorf("ImportedID = %q, want mv-123", got.ImportedID)
	}
	if got.Account != "ledger-9" {
		t.Errorf("Account = %q, want ledger-9", got.Account)
	}
}

func TestMapMovements(t *testing.T) {
	movements := []argenta.Movement{
		{Identifier: "mv-1"},
		{Identifier: "mv-2"},
		{Identifier: "mv-3"},
	}

	got := MapMovements(movements, "ledger-1")
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	for i, tx := range got {
		if tx.ImportedID != movements[i].Identifier {
			t.Errorf("transaction %d: ImportedID = %q, want %q", i, tx.ImportedID, movements[i].Identifier)
		}
	}

	if got := MapMovements(nil, "ledger-1"); len(got) != 0 {
		t.Errorf("expected empty output for empty input, got %d", len(got))
	}
}
