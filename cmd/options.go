package cmd

// Options is the root for the CLI, interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"c" long:"config" description:"service configuration YAML/JSON URL"`

	ListTools   *ListToolsCmd   `command:"list-tools"   description:"List exposed tools"`
	Tool        *ToolCmd        `command:"tool"         description:"Show metadata and input schema of one tool"`
	Function    *FunctionCmd    `command:"function"     description:"Show parameters and Go types of one function"`
	Exec        *ExecCmd        `command:"exec"         description:"Execute a tool with JSON arguments"`
	Serve       *ServeCmd       `command:"serve"        description:"Start MCP server exposing the tools"`
	Run         *RunCmd         `command:"run"          description:"Run a workflow"`
	ListActions *ListActionsCmd `command:"list-actions" description:"List Fluxor services and their actions"`
}

// Init instantiates the sub-command referenced by the first positional argument
// so that go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "list-tools":
		o.ListTools = &ListToolsCmd{}
	case "tool":
		o.Tool = &ToolCmd{}
	case "function":
		o.Function = &FunctionCmd{}
	case "exec":
		o.Exec = &ExecCmd{}
	case "serve":
		o.Serve = &ServeCmd{}
	case "run":
		o.Run = &RunCmd{}
	case "list-actions":
		o.ListActions = &ListActionsCmd{}
	}
}
