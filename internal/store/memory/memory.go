package memory

import (
	"context"

	"operadoras/internal/core"
)

// Store serves a dataset held in process memory. It is never mutated after
// New returns, so concurrent readers need no locking.
type Store struct {
	operators []core.Operator
	expenses  []core.Expense
}

func New(ds core.Dataset) *Store {
	return &Store{
		operators: append([]core.Operator(nil), ds.Operators...),
		expenses:  append([]core.Expense(nil), ds.Expenses...),
	}
}

// ListOperators returns a copy of the operators in insertion order.
func (s *Store) ListOperators(_ context.Context) ([]core.Operator, error) {
	return append([]core.Operator(nil), s.operators...), nil
}

// ListExpenses returns a copy of the expenses in insertion order.
func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}
