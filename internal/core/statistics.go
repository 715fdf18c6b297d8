package core

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// TopOperatorsLimit caps the ranking returned in Statistics.TopOperators.
const TopOperatorsLimit = 5

// TimestampLayout is ISO 8601 local time with microseconds and no offset.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// OperatorTotal is an operator ranked by its summed expenses.
type OperatorTotal struct {
	ID    int    `json:"id_operadora"`
	Name  string `json:"nome"`
	Total Money  `json:"total_despesas"`
	State string `json:"uf"`
}

// StateTotal is the summed expense amount for one state code.
type StateTotal struct {
	State string
	Total Money
}

// StateDistribution is an insertion-ordered state -> total mapping.
type StateDistribution []StateTotal

// Statistics is the aggregate view over every expense.
type Statistics struct {
	Total        Money             `json:"total_despesas"`
	Mean         float64           `json:"media_despesas"`
	Median       Money             `json:"mediana_despesas"`
	TopOperators []OperatorTotal   `json:"top_5_operadoras"`
	ByState      StateDistribution `json:"distribuicao_por_uf"`
	Timestamp    string            `json:"timestamp"`
}

// Summarize computes Statistics over ds, stamping it with now.
//
// The median is the element at index len/2 of the sorted amounts. For even
// counts that is the higher of the two middle values, not their average.
// Expenses whose operator is missing still count towards
// total, mean and median but are left out of the ranking and the
// distribution.
func Summarize(ds Dataset, now time.Time) Statistics {
	stats := Statistics{
		TopOperators: []OperatorTotal{},
		ByState:      StateDistribution{},
		Timestamp:    now.Format(TimestampLayout),
	}

	n := len(ds.Expenses)
	if n == 0 {
		return stats
	}

	amounts := make([]int64, 0, n)
	for _, e := range ds.Expenses {
		stats.Total = stats.Total.Add(e.Amount)
		amounts = append(amounts, e.Amount.Cents)
	}
	stats.Mean = stats.Total.Float() / float64(n)

	sort.Slice(amounts, func(i, j int) bool { return amounts[i] < amounts[j] })
	stats.Median = Money{Cents: amounts[n/2]}

	operators := make(map[int]Operator, len(ds.Operators))
	for _, op := range ds.Operators {
		if _, seen := operators[op.ID]; !seen {
			operators[op.ID] = op
		}
	}

	// Group per operator in encounter order.
	var groups []OperatorTotal
	groupIndex := make(map[int]int)
	stateIndex := make(map[string]int)
	for _, e := range ds.Expenses {
		op, ok := operators[e.OperatorID]
		if !ok {
			continue
		}

		if i, seen := groupIndex[op.ID]; seen {
			groups[i].Total = groups[i].Total.Add(e.Amount)
		} else {
			groupIndex[op.ID] = len(groups)
			groups = append(groups, OperatorTotal{ID: op.ID, Name: op.Name, Total: e.Amount, State: op.State})
		}

		if i, seen := stateIndex[op.State]; seen {
			stats.ByState[i].Total = stats.ByState[i].Total.Add(e.Amount)
		} else {
			stateIndex[op.State] = len(stats.ByState)
			stats.ByState = append(stats.ByState, StateTotal{State: op.State, Total: e.Amount})
		}
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Total.Cents > groups[j].Total.Cents })
	if len(groups) > TopOperatorsLimit {
		groups = groups[:TopOperatorsLimit]
	}
	stats.TopOperators = append(stats.TopOperators, groups...)

	return stats
}

// Get returns the total for state.
func (d StateDistribution) Get(state string) (Money, bool) {
	for _, st := range d {
		if st.State == state {
			return st.Total, true
		}
	}
	return Money{}, false
}

// Sum returns the total across every state.
func (d StateDistribution) Sum() Money {
	var total Money
	for _, st := range d {
		total = total.Add(st.Total)
	}
	return total
}

// MarshalJSON renders the distribution as a JSON object keeping insertion order.
func (d StateDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, st := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(st.State)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(st.Total.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
