package parser

import "fmt"

// StringPool is an ordered collection of unique string literals. Each
// literal is assigned a stable label str_<N>, N being its insertion
// index; duplicate source literals share one entry.
type StringPool struct {
	values []string
	index  map[string]int
}

func newStringPool() *StringPool {
	return &StringPool{index: make(map[string]int)}
}

// Intern returns s's id, assigning it a new one on first occurrence.
func (p *StringPool) Intern(s string) int {
	if id, ok := p.index[s]; ok {
		return id
	}
	id := len(p.values)
	p.values = append(p.values, s)
	p.index[s] = id
	return id
}

// Values returns the interned strings in insertion order.
func (p *StringPool) Values() []string {
	return p.values
}

// Label returns the .data label for the string interned with the given id.
func (p *StringPool) Label(id int) string {
	return fmt.Sprintf("str_%d", id)
}
