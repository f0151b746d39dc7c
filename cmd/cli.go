package cmd

import (
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/viant/dyncall/mcp"
)

// Run is the entry point for the CLI.  opts carry the functions of the
// embedding program (mcp.WithFunction) and any other service option.
func Run(args []string, opts ...mcp.Option) error {
	setConfigPath(extractConfigPath(args))
	setServiceOptions(opts)

	options := &Options{}
	options.Init(commandName(args))

	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

// extractConfigPath searches the raw argument list for the -c/--config option
// before the full flags parsing is performed so that sub-commands can load the
// config early from a deterministic location.
func extractConfigPath(args []string) string {
	for i, a := range args {
		switch a {
		case "-c", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		default:
			if strings.HasPrefix(a, "--config=") {
				return strings.TrimPrefix(a, "--config=")
			}
		}
	}
	return ""
}

// commandName returns the first positional argument, skipping global flags.
func commandName(args []string) string {
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "-c" || a == "--config":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			return a
		}
	}
	return ""
}
