package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Limits carried over from the wire protocol the ledger serves.
const (
	MaxAccounts         = 100
	MaxTransactions     = 100
	AccountNumberDigits = 10
	PINDigits           = 6
)

// MinBalance is the floor every active account must stay at or above.
// MinTransaction is the smallest accepted deposit/withdrawal and the unit
// withdrawals must be a multiple of.
var (
	MinBalance     = decimal.NewFromInt(1000)
	MinTransaction = decimal.NewFromInt(500)
)

// AccountType represents the product type of an account.
type AccountType int8

const (
	AccountTypeSavings AccountType = iota
	AccountTypeChecking
)

func (t AccountType) String() string {
	if t == AccountTypeChecking {
		return "Checking"
	}
	return "Savings"
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

// TransactionKind represents the direction of a ledger entry.
type TransactionKind int8

const (
	TransactionDeposit TransactionKind = iota
	TransactionWithdrawal
)

func (k TransactionKind) String() string {
	if k == TransactionWithdrawal {
		return "Withdrawal"
	}
	return "Deposit"
}

// Transaction is a single immutable ledger entry.
type Transaction struct {
	Timestamp   time.Time       `json:"timestamp"`
	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Account is one ledger record. Closed accounts stay in the store with
// Active=false for audit history and never become visible to lookups again.
type Account struct {
	Number       string          `json:"accountNumber"`
	PIN          string          `json:"pin"`
	Name         string          `json:"name"`
	NationalID   string          `json:"nationalID"`
	Type         AccountType     `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
	Active       bool            `json:"isActive"`
}

// clone returns a deep copy safe to hand outside the store's lock.
func (a *Account) clone() *Account {
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}

// appendTransaction appends t, evicting the oldest entry once the ledger is
// at capacity (sliding window).
func (a *Account) appendTransaction(t Transaction) {
	if len(a.Transactions) >= MaxTransactions {
		a.Transactions = append(a.Transactions[:0], a.Transactions[1:]...)
	}
	a.Transactions = append(a.Transactions, t)
}

// SnapshotFormat and SnapshotVersion identify the durable file layout.
const (
	SnapshotFormat  = "bank_snapshot"
	SnapshotVersion = 1
)

// SnapshotMeta makes the durable file self-describing.
type SnapshotMeta struct {
	Format  string    `json:"format"`
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
}

// Snapshot is the full durable state of the store: every account ever
// created, closed ones included, in creation order.
type Snapshot struct {
	Meta         SnapshotMeta `json:"meta"`
	AccountCount int          `json:"accountCount"`
	Accounts     []Account    `json:"accounts"`
}
