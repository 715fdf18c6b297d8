package core

import (
	"errors"
	"fmt"
	"strings"
)

// Quarter markers for the 2024 expense series, in chronological order.
const (
	Q1 Quarter = "2024-01-01"
	Q2 Quarter = "2024-04-01"
	Q3 Quarter = "2024-07-01"
	Q4 Quarter = "2024-10-01"
)

// Quarters lists every quarter marker in chronological order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

type (
	Quarter string

	// Operator is a healthcare-plan provider.
	Operator struct {
		ID    int     `json:"id_operadora"`
		Name  string  `json:"nome"`
		CNPJ  string  `json:"cnpj"`
		State string  `json:"uf"`
		Kind  *string `json:"tipo"`
	}

	// Expense is a quarterly amount attributed to one operator.
	Expense struct {
		ID         int     `json:"id"`
		OperatorID int     `json:"id_operadora"`
		Quarter    Quarter `json:"trimestre"`
		Amount     Money   `json:"valor_despesa"`
	}
)

var (
	ErrInvalidID      = errors.New("invalid id")
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyCNPJ      = errors.New("empty cnpj")
	ErrInvalidState   = errors.New("invalid state code")
	ErrInvalidQuarter = errors.New("invalid quarter")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// Kind returns a pointer suitable for Operator.Kind.
func Kind(s string) *string {
	return &s
}

// NormalizedCNPJ returns the operator CNPJ with punctuation removed.
func (o Operator) NormalizedCNPJ() string {
	return NormalizeCNPJ(o.CNPJ)
}

func (o Operator) Validate() error {
	if o.ID < 1 {
		return ErrInvalidID
	}
	if strings.TrimSpace(o.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(o.CNPJ) == "" {
		return ErrEmptyCNPJ
	}
	if len(o.State) != 2 {
		return ErrInvalidState
	}
	return nil
}

func (q Quarter) Valid() bool {
	for _, v := range Quarters {
		if q == v {
			return true
		}
	}
	return false
}

func (e Expense) Validate() error {
	if e.ID < 1 || e.OperatorID < 1 {
		return ErrInvalidID
	}
	if !e.Quarter.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidQuarter, e.Quarter)
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
