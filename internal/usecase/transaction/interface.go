package transaction

import "context"

// Lister defines the transaction listing operation served by one backend.
type Lister interface {
	ListTransactions(ctx context.Context, in ListTransactionsRequest) (*ListTransactionsResponse, error)
	Backend() string
}

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
	Backend() string
}
