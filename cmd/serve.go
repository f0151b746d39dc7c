package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/mcp"
)

// ServeCmd launches an MCP server exposing the registered functions as tools.
// Transport, port and auth come from the server section of the config.
type ServeCmd struct{}

func (c *ServeCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err = svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Shutdown(ctx)

	var srvOpts *mcp.ServerOptions
	if cfg := svc.Config(); cfg != nil {
		srvOpts = cfg.Server
	}
	mcpServer, err := mcp.NewServer(svc.NewHandler, srvOpts)
	if err != nil {
		return err
	}

	logger := svc.Logger()
	httpSrv := mcpServer.HTTP(ctx, "")
	errs := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	logger.WithField("addr", httpSrv.Addr).WithField("tools", len(svc.ToolNames())).Info("MCP server listening")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err = <-errs:
		return err
	case <-sigs:
	}
	logger.Info("shutting down")
	return httpSrv.Close()
}
