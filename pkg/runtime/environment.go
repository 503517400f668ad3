package runtime

import (
	"hash/fnv"

	"github.com/raviqqe/hamt"
)

// Cell is the unit of mutable storage bound to a name. Every environment
// that reaches a cell observes writes made through any other holder.
type Cell struct {
	value Value
}

// NewCell allocates a cell holding value.
func NewCell(value Value) *Cell {
	return &Cell{value: value}
}

// Get returns the current contents of the cell.
func (c *Cell) Get() Value {
	return c.value
}

// Set overwrites the cell in place.
func (c *Cell) Set(value Value) {
	c.value = value
}

// nameKey adapts binding names to hamt entries.
type nameKey string

func (k nameKey) Hash() uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(k))
	return h.Sum32()
}

func (k nameKey) Equal(other hamt.Entry) bool {
	o, ok := other.(nameKey)
	return ok && o == k
}

// Environment is a persistent mapping from names to cells. Extension never
// touches the receiver; the returned environment shares structure with it.
type Environment struct {
	bindings hamt.Map
	size     int
}

// NewEnvironment returns an environment with no bindings.
func NewEnvironment() *Environment {
	return &Environment{bindings: hamt.NewMap()}
}

// Extend binds name to a fresh cell holding value.
func (e *Environment) Extend(name string, value Value) *Environment {
	return e.Bind(name, NewCell(value))
}

// Bind binds name to an existing cell, shadowing any earlier binding.
func (e *Environment) Bind(name string, cell *Cell) *Environment {
	size := e.size
	if e.bindings.Find(nameKey(name)) == nil {
		size++
	}
	return &Environment{bindings: e.bindings.Insert(nameKey(name), cell), size: size}
}

// Lookup returns the cell bound to name by the most recent extension.
func (e *Environment) Lookup(name string) (*Cell, bool) {
	if e == nil {
		return nil, false
	}
	found := e.bindings.Find(nameKey(name))
	if found == nil {
		return nil, false
	}
	cell, ok := found.(*Cell)
	return cell, ok
}

// Size reports the number of distinct visible names.
func (e *Environment) Size() int {
	if e == nil {
		return 0
	}
	return e.size
}
