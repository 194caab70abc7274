package core

import (
	"cmp"
	"slices"
)

// AccountsViewOptions narrows the accounts considered by the view model.
// Zero values mean no filtering.
type AccountsViewOptions struct {
	MemberID string
	Type     AccountType
}

// AccountsViewModel is the summary block shown above the accounts list.
type AccountsViewModel struct {
	TotalAccounts    int       `json:"total_accounts"`
	PositiveAccounts int       `json:"positive_accounts"`
	NegativeAccounts int       `json:"negative_accounts"`
	TotalBalance     Money     `json:"total_balance"`
	SortedAccounts   []Account `json:"sorted_accounts"`
}

// CreateAccountsViewModel counts accounts by balance sign and orders them by
// balance, highest first. Accounts with equal balances keep their input order.
// The input slice is not modified.
func CreateAccountsViewModel(accounts []Account, opts AccountsViewOptions) AccountsViewModel {
	sorted := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if opts.MemberID != "" && a.MemberID != opts.MemberID {
			continue
		}
		if opts.Type != "" && a.Type != opts.Type {
			continue
		}
		sorted = append(sorted, a)
	}

	vm := AccountsViewModel{TotalAccounts: len(sorted)}
	for _, a := range sorted {
		switch {
		case a.Balance.Cents > 0:
			vm.PositiveAccounts++
		case a.Balance.Cents < 0:
			vm.NegativeAccounts++
		}
		vm.TotalBalance = vm.TotalBalance.Add(a.Balance)
	}

	slices.SortStableFunc(sorted, func(a, b Account) int {
		return cmp.Compare(b.Balance.Cents, a.Balance.Cents)
	})
	vm.SortedAccounts = sorted
	return vm
}

func sortCategoryAmounts(items []CategoryAmount) {
	slices.SortStableFunc(items, func(a, b CategoryAmount) int {
		return cmp.Compare(b.Amount.Cents, a.Amount.Cents)
	})
}
