package store

import (
	"context"

	"operadoras/internal/core"
)

// Ports for the dataset backends.
type (
	// OperatorReader lists every operator in insertion order.
	OperatorReader interface {
		ListOperators(ctx context.Context) ([]core.Operator, error)
	}

	// ExpenseReader lists every expense in insertion order.
	ExpenseReader interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	Reader interface {
		OperatorReader
		ExpenseReader
	}

	// Pinger is implemented by backends that can report readiness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
