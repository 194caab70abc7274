package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	AccountType    string
	CategoryKind   string
	InvestmentType string
	BudgetPeriod   string
)

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"

	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"

	InvestmentStock  InvestmentType = "stock"
	InvestmentETF    InvestmentType = "etf"
	InvestmentBond   InvestmentType = "bond"
	InvestmentCrypto InvestmentType = "crypto"
	InvestmentFund   InvestmentType = "fund"
	InvestmentOther  InvestmentType = "other"

	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

const maxNameLength = 100

func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountCash, AccountInvestment:
		return true
	}
	return false
}

func (k CategoryKind) IsValid() bool {
	return k == CategoryIncome || k == CategoryExpense
}

func (t InvestmentType) IsValid() bool {
	switch t {
	case InvestmentStock, InvestmentETF, InvestmentBond, InvestmentCrypto, InvestmentFund, InvestmentOther:
		return true
	}
	return false
}

func (p BudgetPeriod) IsValid() bool {
	return p == Monthly || p == Yearly
}

// Record holds the fields every stored entity carries. They are set by the
// persistence layer and never accepted from callers.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type (
	Account struct {
		Record
		Name     string      `json:"name"`
		Type     AccountType `json:"type"`
		Balance  Money       `json:"balance"`
		Currency string      `json:"currency"`
		MemberID string      `json:"member_id,omitempty"`
	}

	Category struct {
		Record
		Name  string       `json:"name"`
		Kind  CategoryKind `json:"kind"`
		Color string       `json:"color"`
	}

	Investment struct {
		Record
		Name          string          `json:"name"`
		Symbol        string          `json:"symbol"`
		Type          InvestmentType  `json:"type"`
		Quantity      decimal.Decimal `json:"quantity"`
		PurchasePrice decimal.Decimal `json:"purchase_price"`
		CurrentPrice  decimal.Decimal `json:"current_price"`
	}

	Transaction struct {
		Record
		AccountID   string    `json:"account_id"`
		CategoryID  string    `json:"category_id,omitempty"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
	}

	Budget struct {
		Record
		CategoryID string       `json:"category_id"`
		Amount     Money        `json:"amount"`
		Period     BudgetPeriod `json:"period"`
	}

	// Member is a household member the dashboard can be scoped to.
	Member struct {
		Record
		Name  string `json:"name"`
		Email string `json:"email"`
	}
)

// CostBasis is quantity times purchase price.
func (i Investment) CostBasis() decimal.Decimal {
	return i.Quantity.Mul(i.PurchasePrice)
}

// MarketValue is quantity times current price.
func (i Investment) MarketValue() decimal.Decimal {
	return i.Quantity.Mul(i.CurrentPrice)
}

// Gain is market value minus cost basis.
func (i Investment) Gain() decimal.Decimal {
	return i.MarketValue().Sub(i.CostBasis())
}

func checkName(v *validator, name string) {
	v.check(!IsBlank(name), "name", "is required")
	v.check(len(name) <= maxNameLength, "name", "is too long (max 100 characters)")
}

// AccountInput carries the mutable fields of a new account.
type AccountInput struct {
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	Balance  Money       `json:"balance"`
	Currency string      `json:"currency"`
	MemberID string      `json:"member_id,omitempty"`
}

func (in AccountInput) Validate() error {
	var v validator
	checkName(&v, in.Name)
	v.check(in.Type.IsValid(), "type", "is not a known account type")
	v.check(IsValidCurrency(in.Currency), "currency", "must be a three letter code")
	return v.err()
}

// AccountPatch holds optional account changes; nil fields are left untouched.
type AccountPatch struct {
	Name     *string      `json:"name,omitempty"`
	Type     *AccountType `json:"type,omitempty"`
	Balance  *Money       `json:"balance,omitempty"`
	Currency *string      `json:"currency,omitempty"`
	MemberID *string      `json:"member_id,omitempty"`
}

func (p AccountPatch) Validate() error {
	var v validator
	if p.Name != nil {
		checkName(&v, *p.Name)
	}
	if p.Type != nil {
		v.check(p.Type.IsValid(), "type", "is not a known account type")
	}
	if p.Currency != nil {
		v.check(IsValidCurrency(*p.Currency), "currency", "must be a three letter code")
	}
	return v.err()
}

type CategoryInput struct {
	Name  string       `json:"name"`
	Kind  CategoryKind `json:"kind"`
	Color string       `json:"color"`
}

func (in CategoryInput) Validate() error {
	var v validator
	checkName(&v, in.Name)
	v.check(in.Kind.IsValid(), "kind", "must be income or expense")
	v.check(in.Color == "" || IsValidHexColor(in.Color), "color", "must be a hex color")
	return v.err()
}

type CategoryPatch struct {
	Name  *string       `json:"name,omitempty"`
	Kind  *CategoryKind `json:"kind,omitempty"`
	Color *string       `json:"color,omitempty"`
}

func (p CategoryPatch) Validate() error {
	var v validator
	if p.Name != nil {
		checkName(&v, *p.Name)
	}
	if p.Kind != nil {
		v.check(p.Kind.IsValid(), "kind", "must be income or expense")
	}
	if p.Color != nil {
		v.check(*p.Color == "" || IsValidHexColor(*p.Color), "color", "must be a hex color")
	}
	return v.err()
}

type InvestmentInput struct {
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	Type          InvestmentType  `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
}

func (in InvestmentInput) Validate() error {
	var v validator
	checkName(&v, in.Name)
	v.check(len(in.Symbol) <= 16, "symbol", "is too long (max 16 characters)")
	v.check(in.Type.IsValid(), "type", "is not a known investment type")
	v.check(!in.Quantity.IsNegative(), "quantity", "cannot be negative")
	v.check(!in.PurchasePrice.IsNegative(), "purchase_price", "cannot be negative")
	v.check(!in.CurrentPrice.IsNegative(), "current_price", "cannot be negative")
	return v.err()
}

type InvestmentPatch struct {
	Name          *string          `json:"name,omitempty"`
	Symbol        *string          `json:"symbol,omitempty"`
	Type          *InvestmentType  `json:"type,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	CurrentPrice  *decimal.Decimal `json:"current_price,omitempty"`
}

func (p InvestmentPatch) Validate() error {
	var v validator
	if p.Name != nil {
		checkName(&v, *p.Name)
	}
	if p.Symbol != nil {
		v.check(len(*p.Symbol) <= 16, "symbol", "is too long (max 16 characters)")
	}
	if p.Type != nil {
		v.check(p.Type.IsValid(), "type", "is not a known investment type")
	}
	if p.Quantity != nil {
		v.check(!p.Quantity.IsNegative(), "quantity", "cannot be negative")
	}
	if p.PurchasePrice != nil {
		v.check(!p.PurchasePrice.IsNegative(), "purchase_price", "cannot be negative")
	}
	if p.CurrentPrice != nil {
		v.check(!p.CurrentPrice.IsNegative(), "current_price", "cannot be negative")
	}
	return v.err()
}

type TransactionInput struct {
	AccountID   string    `json:"account_id"`
	CategoryID  string    `json:"category_id,omitempty"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

func (in TransactionInput) Validate() error {
	var v validator
	v.check(!IsBlank(in.AccountID), "account_id", "is required")
	v.check(in.Amount.Cents != 0, "amount", "cannot be zero")
	v.check(len(in.Description) <= 200, "description", "is too long (max 200 characters)")
	v.check(!in.Date.IsZero(), "date", "is required")
	return v.err()
}

type TransactionPatch struct {
	AccountID   *string    `json:"account_id,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
	Amount      *Money     `json:"amount,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

func (p TransactionPatch) Validate() error {
	var v validator
	if p.AccountID != nil {
		v.check(!IsBlank(*p.AccountID), "account_id", "is required")
	}
	if p.Amount != nil {
		v.check(p.Amount.Cents != 0, "amount", "cannot be zero")
	}
	if p.Description != nil {
		v.check(len(*p.Description) <= 200, "description", "is too long (max 200 characters)")
	}
	if p.Date != nil {
		v.check(!p.Date.IsZero(), "date", "is required")
	}
	return v.err()
}

type BudgetInput struct {
	CategoryID string       `json:"category_id"`
	Amount     Money        `json:"amount"`
	Period     BudgetPeriod `json:"period"`
}

func (in BudgetInput) Validate() error {
	var v validator
	v.check(!IsBlank(in.CategoryID), "category_id", "is required")
	v.check(in.Amount.Cents > 0, "amount", "must be positive")
	v.check(in.Period.IsValid(), "period", "must be monthly or yearly")
	return v.err()
}

type BudgetPatch struct {
	CategoryID *string       `json:"category_id,omitempty"`
	Amount     *Money        `json:"amount,omitempty"`
	Period     *BudgetPeriod `json:"period,omitempty"`
}

func (p BudgetPatch) Validate() error {
	var v validator
	if p.CategoryID != nil {
		v.check(!IsBlank(*p.CategoryID), "category_id", "is required")
	}
	if p.Amount != nil {
		v.check(p.Amount.Cents > 0, "amount", "must be positive")
	}
	if p.Period != nil {
		v.check(p.Period.IsValid(), "period", "must be monthly or yearly")
	}
	return v.err()
}

type MemberInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (in MemberInput) Validate() error {
	var v validator
	checkName(&v, in.Name)
	v.check(IsValidEmail(strings.TrimSpace(in.Email)), "email", "is not a valid email address")
	return v.err()
}

type MemberPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (p MemberPatch) Validate() error {
	var v validator
	if p.Name != nil {
		checkName(&v, *p.Name)
	}
	if p.Email != nil {
		v.check(IsValidEmail(strings.TrimSpace(*p.Email)), "email", "is not a valid email address")
	}
	return v.err()
}
