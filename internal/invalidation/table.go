// Package invalidation names the cached views a mutation makes stale and
// delivers those names to whatever caches them.
package invalidation

// Signal names a cache partition.
type Signal string

const (
	Categories   Signal = "categories"
	Transactions Signal = "transactions"
	Budgets      Signal = "budgets"
	Dashboard    Signal = "dashboard"
	Accounts     Signal = "accounts"
	Investments  Signal = "investments"
	Reports      Signal = "reports"
	Members      Signal = "members"
)

// Entity names a mutable record type.
type Entity string

const (
	Category    Entity = "category"
	Account     Entity = "account"
	Investment  Entity = "investment"
	Transaction Entity = "transaction"
	Budget      Entity = "budget"
	Member      Entity = "member"
)

// Table lists, per entity, its own partition followed by every partition
// whose content is computed from it. Keep it in sync with the views in
// internal/services when a view starts reading a new entity.
var Table = map[Entity][]Signal{
	Category:    {Categories, Transactions, Budgets, Dashboard},
	Account:     {Accounts, Transactions, Dashboard, Reports},
	Investment:  {Investments, Dashboard, Reports},
	Transaction: {Transactions, Accounts, Budgets, Dashboard, Reports},
	Budget:      {Budgets, Dashboard},
	Member:      {Members, Accounts, Dashboard},
}

// SignalsFor returns a copy of the signals for e, or nil for an unknown entity.
func SignalsFor(e Entity) []Signal {
	s, ok := Table[e]
	if !ok {
		return nil
	}
	return append([]Signal(nil), s...)
}

// Strings converts signals to plain names.
func Strings(signals []Signal) []string {
	out := make([]string, len(signals))
	for i, s := range signals {
		out[i] = string(s)
	}
	return out
}
