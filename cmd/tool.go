package cmd

import (
	"encoding/json"
	"fmt"
)

// ToolCmd prints metadata & input schema for a single tool.
type ToolCmd struct {
	Name string `short:"n" long:"name" description:"tool name (ns-function, ns/function)" required:"yes"`
	JSON bool   `long:"json" description:"print result as JSON"`
}

type toolInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

func (c *ToolCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	description, schema, ok := svc.ToolMetadata(c.Name)
	if !ok {
		return fmt.Errorf("tool %q not found", c.Name)
	}
	entry, err := svc.LookupTool(c.Name)
	if err != nil {
		return err
	}
	found := &toolInfo{Name: entry.Metadata.Name, Description: description, InputSchema: schema}

	if c.JSON {
		data, _ := json.MarshalIndent(found, "", "  ")
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	fmt.Fprintf(stdout, "Name : %s\n", found.Name)
	fmt.Fprintf(stdout, "Desc : %s\n", found.Description)
	js, _ := json.MarshalIndent(found.InputSchema, "", "  ")
	fmt.Fprintf(stdout, "InputSchema:\n%s\n", string(js))
	return nil
}
