package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ExecCmd executes a tool from the CLI.  Arguments can be supplied either
// inline via -i/--input or loaded from a JSON file via -f/--file.  With
// --action the name is a Fluxor service/method run on the workflow runtime.
type ExecCmd struct {
	Name       string `short:"n" long:"name" description:"tool name (ns-function) or service/method with --action" required:"yes"`
	Inline     string `short:"i" long:"input" description:"Inline JSON arguments (object)"`
	File       string `short:"f" long:"file" description:"Path to JSON file with arguments (use - for stdin)"`
	Action     bool   `short:"a" long:"action" description:"execute as a Fluxor action on the workflow runtime"`
	TimeoutSec int    `long:"timeout" description:"Seconds to wait for completion" default:"120"`
	JSON       bool   `long:"json" description:"Print result as JSON"`
}

func (c *ExecCmd) Execute(_ []string) error {
	if c.Inline != "" && c.File != "" {
		return fmt.Errorf("-i/--input and -f/--file are mutually exclusive")
	}

	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	args, err := c.arguments()
	if err != nil {
		return err
	}

	ctx := context.Background()
	timeout := time.Duration(c.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	var out interface{}
	if c.Action {
		idx := strings.LastIndex(c.Name, "/")
		if idx == -1 {
			return fmt.Errorf("action name must be service/method")
		}
		if err = svc.Start(ctx); err != nil {
			return err
		}
		defer svc.Shutdown(ctx)
		out, err = svc.ExecuteAction(ctx, c.Name[:idx], c.Name[idx+1:], args, timeout)
	} else {
		out, err = svc.ExecuteTool(ctx, c.Name, args, timeout)
	}
	if err != nil {
		return err
	}

	if !c.JSON {
		switch v := out.(type) {
		case string:
			fmt.Fprintln(stdout, v)
			return nil
		case []byte:
			fmt.Fprintln(stdout, string(v))
			return nil
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}

func (c *ExecCmd) arguments() (map[string]interface{}, error) {
	var args map[string]interface{}
	var data []byte
	switch {
	case c.Inline != "":
		data = []byte(c.Inline)
	case c.File != "":
		var rdr io.Reader
		if c.File == "-" {
			rdr = os.Stdin
		} else {
			f, err := os.Open(c.File)
			if err != nil {
				return nil, fmt.Errorf("open input file: %w", err)
			}
			defer f.Close()
			rdr = f
		}
		var err error
		if data, err = io.ReadAll(rdr); err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
	default:
		return nil, nil
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("decode JSON arguments: %w", err)
	}
	return args, nil
}
