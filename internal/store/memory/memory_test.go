package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"operadoras/internal/core"
	"operadoras/internal/dataset"
)

func TestStoreListsInInsertionOrder(t *testing.T) {
	ds := dataset.New(dataset.NewRand(1))
	s := New(ds)

	ops, err := s.ListOperators(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Operators, ops)

	exps, err := s.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Expenses, exps)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStoreReturnsCopies(t *testing.T) {
	s := New(core.Dataset{
		Operators: []core.Operator{{ID: 1, Name: "Amil", CNPJ: "1", State: "SP"}},
		Expenses:  []core.Expense{{ID: 1, OperatorID: 1, Quarter: core.Q1, Amount: core.Money{Cents: 1}}},
	})

	ops, _ := s.ListOperators(context.Background())
	ops[0].Name = "changed"
	exps, _ := s.ListExpenses(context.Background())
	exps[0].Amount.Cents = 99

	ops, _ = s.ListOperators(context.Background())
	exps, _ = s.ListExpenses(context.Background())
	assert.Equal(t, "Amil", ops[0].Name)
	assert.Equal(t, int64(1), exps[0].Amount.Cents)
}
