// Package dataset builds the fixed operator list and the randomly generated
// quarterly expenses served by the API.
package dataset

import (
	"math/rand/v2"
	"time"

	"operadoras/internal/core"
)

// Amount range for generated expenses, in cents: [1,000,000.00, 5,000,000.00).
const (
	MinAmountCents int64 = 100_000_000
	MaxAmountCents int64 = 500_000_000
)

// Operators returns a fresh copy of the fixed operator list.
func Operators() []core.Operator {
	return []core.Operator{
		{ID: 1, Name: "Amil", CNPJ: "17.197.385/0001-21", State: "SP", Kind: core.Kind("Medicina")},
		{ID: 2, Name: "Bradesco", CNPJ: "07.455.999/0001-80", State: "RJ", Kind: core.Kind("Seguro")},
		{ID: 3, Name: "SulAmérica", CNPJ: "35.188.869/0001-70", State: "MG", Kind: core.Kind("Seguro")},
		{ID: 4, Name: "Unimed", CNPJ: "41.672.190/0001-70", State: "SP", Kind: core.Kind("Cooperativa")},
		{ID: 5, Name: "Caixa", CNPJ: "36.402.401/0001-95", State: "DF", Kind: core.Kind("Seguro")},
		{ID: 6, Name: "Notre Dame", CNPJ: "17.098.066/0001-84", State: "RJ", Kind: core.Kind("Medicina")},
		{ID: 7, Name: "Geap", CNPJ: "29.140.261/0001-22", State: "SP", Kind: core.Kind("Associação")},
		{ID: 8, Name: "Hapvida", CNPJ: "06.171.633/0001-01", State: "CE", Kind: core.Kind("Medicina")},
		{ID: 9, Name: "Itaú", CNPJ: "17.197.092/0001-21", State: "SP", Kind: core.Kind("Seguro")},
		{ID: 10, Name: "Mediservice", CNPJ: "01.614.188/0001-36", State: "RJ", Kind: core.Kind("Medicina")},
	}
}

// GenerateExpenses creates one expense per quarter for each operator, operator
// by operator, with consecutive ids starting at 1.
func GenerateExpenses(ops []core.Operator, rng *rand.Rand) []core.Expense {
	out := make([]core.Expense, 0, len(ops)*len(core.Quarters))
	id := 1
	for _, op := range ops {
		for _, q := range core.Quarters {
			out = append(out, core.Expense{
				ID:         id,
				OperatorID: op.ID,
				Quarter:    q,
				Amount:     core.Money{Cents: MinAmountCents + rng.Int64N(MaxAmountCents-MinAmountCents)},
			})
			id++
		}
	}
	return out
}

// New seeds a dataset from rng.
func New(rng *rand.Rand) core.Dataset {
	ops := Operators()
	return core.Dataset{
		Operators: ops,
		Expenses:  GenerateExpenses(ops, rng),
	}
}

// NewRand returns a source seeded with seed, or with the current time when
// seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
