package core

// State is the full set of tracked data.
type State struct {
	Expenses    []Expense    `json:"expenses"`
	Investments []Investment `json:"investments"`
	Budgets     Budgets      `json:"budgets"`
	Settings    Settings     `json:"settings"`
}

// NewState returns an empty tracker seeded with default budgets and settings.
func NewState() State {
	return State{
		Expenses:    []Expense{},
		Investments: []Investment{},
		Budgets:     DefaultBudgets(),
		Settings:    DefaultSettings(),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Expenses:    make([]Expense, len(s.Expenses)),
		Investments: make([]Investment, len(s.Investments)),
		Budgets:     s.Budgets.Clone(),
		Settings:    s.Settings,
	}
	for i, e := range s.Expenses {
		out.Expenses[i] = e.Clone()
	}
	copy(out.Investments, s.Investments)
	return out
}
