package mcp

import (
	"sort"

	"github.com/viant/dyncall/mcp/matcher"
	"github.com/viant/fluxor/model/types"

	nop "github.com/viant/fluxor/service/action/nop"
	printer "github.com/viant/fluxor/service/action/printer"
)

// builtinFactories lists Fluxor action services that workflows may combine
// with function actions.  Keys match the service name.
var builtinFactories = map[string]func() types.Service{
	"nop":     func() types.Service { return nop.New() },
	"printer": func() types.Service { return printer.New() },
}

// resolveBuiltinServices instantiates builtins matching any pattern, in name
// order.
func resolveBuiltinServices(patterns []string) []types.Service {
	names := make([]string, 0, len(builtinFactories))
	for name := range builtinFactories {
		if matcher.MatchAny(patterns, name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]types.Service, 0, len(names))
	for _, name := range names {
		out = append(out, builtinFactories[name]())
	}
	return out
}
