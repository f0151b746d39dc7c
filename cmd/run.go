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

// RunCmd starts a workflow whose tasks may call function actions.
type RunCmd struct {
	Location   string `short:"l" long:"location" description:"Workflow definition path (YAML)" required:"yes"`
	InputFile  string `short:"i" long:"input"    description:"JSON file with initial state (stdin if empty)"`
	State      string `short:"s" long:"state" description:"JSON Object with initial state"`
	TimeoutSec int    `long:"timeout" description:"Seconds to wait for completion" default:"30"`
}

func (c *RunCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err = svc.Start(ctx); err != nil {
		return fmt.Errorf("start runtime: %w", err)
	}
	defer svc.Shutdown(ctx)

	rt := svc.WorkflowRuntime()
	wf, err := rt.LoadWorkflow(ctx, c.Location)
	if err != nil {
		return fmt.Errorf("load workflow: %w", err)
	}

	initState, err := c.initialState()
	if err != nil {
		return err
	}
	process, wait, err := rt.StartProcess(ctx, wf, initState)
	if err != nil {
		return fmt.Errorf("start process: %w", err)
	}

	timeout := time.Duration(c.TimeoutSec) * time.Second
	output, err := wait(ctx, timeout)
	if err != nil {
		return fmt.Errorf("wait for process: %w", err)
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, "Workflow output:")
	fmt.Fprintln(stdout, string(data))
	svc.Logger().WithField("process", process.ID).Info("process completed")
	return nil
}

func (c *RunCmd) initialState() (map[string]interface{}, error) {
	initState := make(map[string]interface{})
	if c.State != "" {
		if err := json.Unmarshal([]byte(strings.TrimSpace(c.State)), &initState); err != nil {
			return nil, fmt.Errorf("decode initial state: %w", err)
		}
		return initState, nil
	}
	var reader io.Reader = os.Stdin
	if c.InputFile != "" {
		f, err := os.Open(c.InputFile)
		if err != nil {
			return nil, fmt.Errorf("open input file: %w", err)
		}
		defer f.Close()
		reader = f
	}
	if data, err := io.ReadAll(reader); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &initState); err != nil {
			return nil, fmt.Errorf("decode initial state: %w", err)
		}
	}
	return initState, nil
}
