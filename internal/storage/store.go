package storage

// Store bundles the repositories over one database.
type Store struct {
	DB           *DB
	Accounts     *AccountRepository
	Categories   *CategoryRepository
	Investments  *InvestmentRepository
	Transactions *TransactionRepository
	Budgets      *BudgetRepository
	Members      *MemberRepository
}

func NewStore(db *DB) *Store {
	return &Store{
		DB:           db,
		Accounts:     NewAccountRepository(db),
		Categories:   NewCategoryRepository(db),
		Investments:  NewInvestmentRepository(db),
		Transactions: NewTransactionRepository(db),
		Budgets:      NewBudgetRepository(db),
		Members:      NewMemberRepository(db),
	}
}

func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
