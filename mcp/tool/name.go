package tool

import "strings"

// Name represents tool name
type Name string

// Service returns the namespace part, with "_" mapped back to "/".
func (t Name) Service() string {
	tool := string(t)
	if idx := strings.LastIndex(tool, "-"); idx != -1 {
		return strings.ReplaceAll(tool[:idx], "_", "/")
	}
	return tool
}

// Method returns the function part.
func (t Name) Method() string {
	tool := string(t)
	if idx := strings.LastIndex(tool, "-"); idx != -1 {
		return tool[idx+1:]
	}
	return ""
}

func (t Name) String() string {
	return string(t)
}

// NewName new name
func NewName(service, name string) Name {
	return Name(strings.ReplaceAll(service, "/", "_") + "-" + name)
}

// Canonical normalises user supplied tool references: "ns/fn", "ns.fn" and
// "ns-fn" all become "ns-fn".
func Canonical(name string) string {
	for _, sep := range []string{"-", ".", "/"} {
		if idx := strings.LastIndex(name, sep); idx != -1 {
			return NewName(name[:idx], name[idx+1:]).String()
		}
	}
	return name
}
