package ast

// Check validates a stylesheet without modifying it.
type Check interface {
	Name() string
	Check(sheet *Stylesheet) Diagnostics
}

// CheckChain runs checks in order.
type CheckChain []Check

// Run executes every check and returns all diagnostics they recorded.
// A failing check does not stop the ones after it.
func (cc CheckChain) Run(sheet *Stylesheet) Diagnostics {
	var all Diagnostics
	for _, c := range cc {
		all = append(all, c.Check(sheet)...)
	}
	return all
}
