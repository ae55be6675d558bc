/*
 * @Author:    thepoy
 * @File Name: usercrawl.go
 */

package asyncrawler

import "github.com/go-predator/asyncrawler/transaction"

// Callback parses a completed Transaction and yields zero or more child
// Transactions to enqueue next. It is looked up by name on a UserCrawl
// through CallbackNamed, never stored by reference, so a Transaction's
// CallbackName survives a round trip through the persistent store.
type Callback func(txn *transaction.Transaction) []*transaction.Transaction

// ResultWriter is the user-crawl contract's writer field: a sink for
// finished records, out of core per spec (see the writer package for a
// ready-made CSV implementation).
type ResultWriter interface {
	Mode() string
	WriteRow(record []string) error
}

// UserCrawl is the object a caller supplies to Orchestrator: a seed
// Transaction, a result writer, and a registry of named callbacks that
// Transactions reference by CallbackName.
type UserCrawl interface {
	// Start returns the seed Transaction used when no snapshot is restored.
	Start() *transaction.Transaction
	// Writer returns the result sink callbacks write rows to.
	Writer() ResultWriter
	// CallbackNamed resolves a Transaction's CallbackName to the function
	// that should process it. Reports false for an unknown name.
	CallbackNamed(name string) (Callback, bool)
}
