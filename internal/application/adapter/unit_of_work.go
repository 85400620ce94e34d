package adapter

import "context"

// TxRepositories are the repositories bound to one database transaction.
type TxRepositories struct {
	Accounts     AccountRepository
	Aggregates   AggregateStore
	Transactions TransactionRepository
	Categories   CategoryRepository
}

// UnitOfWork runs a function inside one database transaction.
type UnitOfWork interface {
	// Do commits when fn returns nil and rolls back otherwise.
	Do(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
