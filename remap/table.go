package remap

import "fmt"

// Range moves chapters From..To (inclusive) either by Shift or, when Target
// is set, all onto Target.
type Range struct {
	From   int `yaml:"from"`
	To     int `yaml:"to"`
	Shift  int `yaml:"shift,omitempty"`
	Target int `yaml:"target,omitempty"`
}

// Table is an ordered list of ranges. The first range containing a chapter
// decides; chapters outside every range keep their number.
type Table []Range

func (t Table) Map(chapter int) int {
	for _, r := range t {
		if chapter < r.From || chapter > r.To {
			continue
		}
		if r.Target != 0 {
			return r.Target
		}
		return chapter + r.Shift
	}
	return chapter
}

// Mapping adapts the table to chapter keys.
func (t Table) Mapping() Mapping {
	return Numeric(t.Map)
}

func (t Table) Validate() error {
	for i, r := range t {
		if r.From <= 0 || r.To < r.From {
			return fmt.Errorf("range %d: invalid bounds %d..%d", i, r.From, r.To)
		}
		if r.Target < 0 || (r.Target == 0 && r.From+r.Shift <= 0) {
			return fmt.Errorf("range %d: maps below chapter 1", i)
		}
	}
	return nil
}

// VulgateToModern converts Vulgate/Douay psalm numbers to the Hebrew-based
// modern numbering. Vulgate 112 and 113 both land on 113, 114 and 115 on
// 116, 146 and 147 on 147; remapping a full psalter needs the combining
// strategy.
var VulgateToModern = Table{
	{From: 9, To: 9, Shift: 0},
	{From: 10, To: 112, Shift: 1},
	{From: 113, To: 113, Shift: 0},
	{From: 114, To: 115, Target: 116},
	{From: 116, To: 116, Target: 117},
	{From: 117, To: 145, Shift: 1},
	{From: 146, To: 147, Target: 147},
}

// Builtin returns a named table shipped with the binary.
func Builtin(name string) (Table, bool) {
	switch name {
	case "vulgate-to-modern", "douay-to-modern":
		return VulgateToModern, true
	}
	return nil, false
}
