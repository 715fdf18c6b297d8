package core

import "fmt"

// Dataset is the read-only set of operators and expenses loaded at startup.
// Both slices are in insertion order, which every query preserves.
type Dataset struct {
	Operators []Operator
	Expenses  []Expense
}

// Anomaly describes a seed record that breaks a dataset invariant.
type Anomaly struct {
	Kind   string
	Detail string
}

func (a Anomaly) String() string {
	return a.Kind + ": " + a.Detail
}

const (
	AnomalyOrphanExpense   = "orphan_expense"
	AnomalyDuplicateID     = "duplicate_id"
	AnomalyInvalidRecord   = "invalid_record"
	AnomalyCNPJCheckDigits = "cnpj_check_digits"
)

// Check reports records that break the dataset invariants. Nothing is
// rejected: the store does not enforce these rules, so callers log the
// anomalies instead.
func (d Dataset) Check() []Anomaly {
	var out []Anomaly

	operatorIDs := make(map[int]struct{}, len(d.Operators))
	for _, op := range d.Operators {
		if _, dup := operatorIDs[op.ID]; dup {
			out = append(out, Anomaly{AnomalyDuplicateID, fmt.Sprintf("operator id %d", op.ID)})
		}
		operatorIDs[op.ID] = struct{}{}
		if err := op.Validate(); err != nil {
			out = append(out, Anomaly{AnomalyInvalidRecord, fmt.Sprintf("operator %d: %v", op.ID, err)})
		}
		if !ValidCNPJ(op.CNPJ) {
			out = append(out, Anomaly{AnomalyCNPJCheckDigits, fmt.Sprintf("operator %d cnpj %s", op.ID, op.CNPJ)})
		}
	}

	expenseIDs := make(map[int]struct{}, len(d.Expenses))
	for _, e := range d.Expenses {
		if _, dup := expenseIDs[e.ID]; dup {
			out = append(out, Anomaly{AnomalyDuplicateID, fmt.Sprintf("expense id %d", e.ID)})
		}
		expenseIDs[e.ID] = struct{}{}
		if err := e.Validate(); err != nil {
			out = append(out, Anomaly{AnomalyInvalidRecord, fmt.Sprintf("expense %d: %v", e.ID, err)})
		}
		if _, ok := operatorIDs[e.OperatorID]; !ok {
			out = append(out, Anomaly{AnomalyOrphanExpense, fmt.Sprintf("expense %d references operator %d", e.ID, e.OperatorID)})
		}
	}

	return out
}

