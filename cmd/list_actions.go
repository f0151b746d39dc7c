package cmd

import (
	"fmt"
	"sort"

	"github.com/viant/dyncall/mcp/matcher"
	"github.com/viant/fluxor/model/types"
)

// ListActionsCmd prints Fluxor services with their action methods; the
// function namespace is one of them.
type ListActionsCmd struct {
	Service string `short:"s" long:"service" description:"service name or prefix (default: all)"`
}

func (c *ListActionsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	pattern := c.Service
	if pattern == "" {
		pattern = "*"
	}
	actions := svc.WorkflowService().Actions()
	names := actions.Services()
	sort.Strings(names)
	for _, name := range names {
		service := actions.Lookup(name)
		if service == nil || !matcher.Match(pattern, name) {
			continue
		}
		fmt.Fprintln(stdout, name)
		sigs := append(types.Signatures{}, service.Methods()...)
		sort.Slice(sigs, func(i, j int) bool { return sigs[i].Name < sigs[j].Name })
		for _, sig := range sigs {
			output := "-"
			if sig.Output != nil {
				output = sig.Output.String()
			}
			fmt.Fprintf(stdout, "  %s\t%s\t%s\n", sig.Name, output, sig.Description)
		}
	}
	return nil
}
