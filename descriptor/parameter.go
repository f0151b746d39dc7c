package descriptor

import (
	"strconv"
	"strings"
)

// Parameter describes one named function parameter.  Default holds the value
// used when the parameter is absent from the argument bag and HasDefault is
// set.
type Parameter struct {
	Name       string
	Type       *Type
	HasDefault bool
	Default    any
}

// Parameters is an ordered parameter list.
type Parameters []Parameter

// Names returns parameter names in declaration order.
func (p Parameters) Names() []string {
	ret := make([]string, len(p))
	for i, param := range p {
		ret[i] = param.Name
	}
	return ret
}

// Lookup returns the parameter with the given name.
func (p Parameters) Lookup(name string) *Parameter {
	for i := range p {
		if p[i].Name == name {
			return &p[i]
		}
	}
	return nil
}

// Path locates a value inside a nested argument: field names, sequence indexes
// and map keys, outermost first.
type Path []string

// Append returns a new path extended with elem; the receiver is never aliased.
func (p Path) Append(elem string) Path {
	ret := make(Path, len(p), len(p)+1)
	copy(ret, p)
	return append(ret, elem)
}

// Index appends a sequence index.
func (p Path) Index(i int) Path {
	return p.Append(strconv.Itoa(i))
}

func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	return strings.Join(p, ".")
}
