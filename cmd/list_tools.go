package cmd

import (
	"fmt"

	"github.com/viant/dyncall/internal/conv"
)

// ListToolsCmd prints every exposed tool with its description.
type ListToolsCmd struct {
	Pattern string `short:"p" long:"pattern" description:"tool name pattern (*, ns/, prefix)" default:"*"`
}

func (c *ListToolsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	for _, t := range svc.MatchTools(c.Pattern) {
		fmt.Fprintf(stdout, "%s\t%s\n", t.Metadata.Name, conv.Dereference[string](t.Metadata.Description))
	}
	return nil
}
