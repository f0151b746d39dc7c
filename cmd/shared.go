package cmd

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/viant/dyncall/mcp"
	mcpconfig "github.com/viant/dyncall/mcp/config"
)

var (
	cfgPath        string
	serviceOptions []mcp.Option
	stdout         io.Writer = os.Stdout

	svcOnce sync.Once
	svcInst *mcp.Service
	svcErr  error
)

// setConfigPath remembers the CLI-level -c/--config parameter so that the
// service singleton can be created lazily by whichever sub-command runs.
func setConfigPath(p string) { cfgPath = p }

func setServiceOptions(opts []mcp.Option) { serviceOptions = opts }

// resetService drops the cached service so that Run can be called again
// with different options.
func resetService() {
	svcOnce = sync.Once{}
	svcInst, svcErr = nil, nil
}

// serviceSingleton initialises an mcp.Service only once and reuses the instance
// across sub-commands within the same CLI invocation.
func serviceSingleton() (*mcp.Service, error) {
	svcOnce.Do(func() {
		ctx := context.Background()
		opts := append([]mcp.Option{}, serviceOptions...)
		if cfgPath != "" {
			cfg, err := mcpconfig.Load(ctx, cfgPath)
			if err != nil {
				svcErr = err
				return
			}
			opts = append([]mcp.Option{mcp.WithConfig(cfg)}, opts...)
		}
		svcInst, svcErr = mcp.New(ctx, opts...)
	})
	return svcInst, svcErr
}
