package dataset

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"operadoras/internal/core"
)

func TestOperatorsFixedList(t *testing.T) {
	ops := Operators()
	require.Len(t, ops, 10)
	for i, op := range ops {
		assert.Equal(t, i+1, op.ID)
		assert.NoError(t, op.Validate())
	}
	assert.Equal(t, "Amil", ops[0].Name)
	assert.Equal(t, "17.197.385/0001-21", ops[0].CNPJ)

	// Callers get their own copy.
	ops[0].Name = "changed"
	assert.Equal(t, "Amil", Operators()[0].Name)
}

func TestGenerateExpensesShape(t *testing.T) {
	ds := New(rand.New(rand.NewPCG(1, 2)))
	require.Len(t, ds.Expenses, 40)

	for i, e := range ds.Expenses {
		assert.Equal(t, i+1, e.ID)
		assert.Equal(t, i/4+1, e.OperatorID)
		assert.Equal(t, core.Quarters[i%4], e.Quarter)
		assert.GreaterOrEqual(t, e.Amount.Cents, MinAmountCents)
		assert.Less(t, e.Amount.Cents, MaxAmountCents)
	}

	for _, a := range ds.Check() {
		assert.NotEqual(t, core.AnomalyOrphanExpense, a.Kind, a.String())
		assert.NotEqual(t, core.AnomalyDuplicateID, a.Kind, a.String())
		assert.NotEqual(t, core.AnomalyInvalidRecord, a.Kind, a.String())
	}
}

func TestDeterministicSeed(t *testing.T) {
	a := New(NewRand(42))
	b := New(NewRand(42))
	assert.Equal(t, a.Expenses, b.Expenses)

	statsA := core.Summarize(a, time.Now())
	statsB := core.Summarize(b, time.Now())
	assert.Equal(t, statsA.Total, statsB.Total)
	assert.Equal(t, statsA.Median, statsB.Median)
	assert.Equal(t, statsA.TopOperators, statsB.TopOperators)

	c := New(NewRand(43))
	assert.NotEqual(t, a.Expenses, c.Expenses)
}

func TestSeededStatistics(t *testing.T) {
	ds := New(NewRand(7))
	stats := core.Summarize(ds, time.Now())

	var total int64
	for _, e := range ds.Expenses {
		total += e.Amount.Cents
	}
	assert.Equal(t, total, stats.Total.Cents)

	require.Len(t, stats.TopOperators, 5)
	for i := 1; i < len(stats.TopOperators); i++ {
		assert.GreaterOrEqual(t, stats.TopOperators[i-1].Total.Cents, stats.TopOperators[i].Total.Cents)
	}

	allowed := map[string]bool{"SP": true, "RJ": true, "MG": true, "DF": true, "CE": true}
	for _, st := range stats.ByState {
		assert.True(t, allowed[st.State], st.State)
	}
	assert.Equal(t, stats.Total, stats.ByState.Sum())
	// First expense belongs to Amil (SP), so SP leads the distribution.
	assert.Equal(t, "SP", stats.ByState[0].State)
}
