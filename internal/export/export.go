// Package export pushes a user's account snapshot to an external destination
// after their dashboard changes.
package export

import (
	"context"
	"errors"
	"time"

	"finboard/internal/core"
)

// ErrEmptyUser is returned for a snapshot without an owner.
var ErrEmptyUser = errors.New("export: snapshot has no user")

// Snapshot is the exported state of one user's accounts.
type Snapshot struct {
	UserID      string                 `json:"user_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Accounts    core.AccountsViewModel `json:"accounts"`
}

// Exporter writes snapshots somewhere. Implementations overwrite the previous
// snapshot of the same user.
type Exporter interface {
	Export(ctx context.Context, s Snapshot) error
	Name() string
}

// Header is the first row of a tabular export.
var Header = []string{"Name", "Type", "Currency", "Balance", "Member"}

// Rows renders s as a table: header, one row per account (highest balance
// first), a blank row, then the totals.
func Rows(s Snapshot) [][]any {
	vm := s.Accounts
	rows := make([][]any, 0, len(vm.SortedAccounts)+6)

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	rows = append(rows, header)

	for _, a := range vm.SortedAccounts {
		rows = append(rows, []any{a.Name, string(a.Type), a.Currency, a.Balance.String(), a.MemberID})
	}
	rows = append(rows,
		[]any{},
		[]any{"Total", "", "", vm.TotalBalance.String()},
		[]any{"Accounts", vm.TotalAccounts},
		[]any{"Positive", vm.PositiveAccounts},
		[]any{"Negative", vm.NegativeAccounts},
		[]any{"Generated", s.GeneratedAt.UTC().Format(time.RFC3339)},
	)
	return rows
}
