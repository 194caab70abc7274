package core

import "testing"

func acct(id string, cents int64) Account {
	return Account{Record: Record{ID: id}, Name: id, Type: AccountChecking, Balance: Money{Cents: cents}, Currency: "EUR"}
}

func ids(accounts []Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}

func TestCreateAccountsViewModelEmpty(t *testing.T) {
	vm := CreateAccountsViewModel(nil, AccountsViewOptions{})
	if vm.TotalAccounts != 0 || vm.PositiveAccounts != 0 || vm.NegativeAccounts != 0 {
		t.Fatalf("expected zero counts, got %+v", vm)
	}
	if vm.SortedAccounts == nil || len(vm.SortedAccounts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", vm.SortedAccounts)
	}
	if vm.TotalBalance.Cents != 0 {
		t.Fatalf("expected zero total balance, got %d", vm.TotalBalance.Cents)
	}
}

func TestCreateAccountsViewModelCountsAndOrder(t *testing.T) {
	in := []Account{acct("a", 100), acct("b", -50), acct("c", 0)}
	vm := CreateAccountsViewModel(in, AccountsViewOptions{})

	if vm.TotalAccounts != 3 || vm.PositiveAccounts != 1 || vm.NegativeAccounts != 1 {
		t.Fatalf("unexpected counts: %+v", vm)
	}
	got := ids(vm.SortedAccounts)
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if vm.TotalBalance.Cents != 50 {
		t.Fatalf("total balance = %d, want 50", vm.TotalBalance.Cents)
	}
	if in[1].ID != "b" {
		t.Fatalf("input slice was reordered: %v", ids(in))
	}
}

func TestCreateAccountsViewModelStableTies(t *testing.T) {
	in := []Account{acct("x", 10), acct("y", 20), acct("z", 10), acct("w", 20)}
	got := ids(CreateAccountsViewModel(in, AccountsViewOptions{}).SortedAccounts)
	want := []string{"y", "w", "x", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCreateAccountsViewModelFilters(t *testing.T) {
	a := acct("a", 100)
	a.MemberID = "m1"
	b := acct("b", -20)
	b.MemberID = "m2"
	c := acct("c", 5)
	c.MemberID = "m1"
	c.Type = AccountSavings

	vm := CreateAccountsViewModel([]Account{a, b, c}, AccountsViewOptions{MemberID: "m1"})
	if vm.TotalAccounts != 2 || vm.NegativeAccounts != 0 {
		t.Fatalf("member filter: %+v", vm)
	}
	vm = CreateAccountsViewModel([]Account{a, b, c}, AccountsViewOptions{Type: AccountSavings})
	if vm.TotalAccounts != 1 || vm.SortedAccounts[0].ID != "c" {
		t.Fatalf("type filter: %+v", vm)
	}
}
