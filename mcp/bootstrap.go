package mcp

import (
	"context"
	"fmt"

	"github.com/viant/dyncall/convert"
	"github.com/viant/dyncall/internal/logging"
	"github.com/viant/dyncall/mcp/action"
	"github.com/viant/dyncall/mcp/config"
	"github.com/viant/dyncall/registry"
	"github.com/viant/fluxor"
	"github.com/viant/fluxor/model/types"
	"github.com/viant/x"
)

// init orchestrates the bootstrap: defaults, registry, pending function
// registrations and the workflow engine.  The runtime is not started; call
// Start before running workflows.
func (s *Service) init(ctx context.Context) error {
	if err := s.initDefaults(); err != nil {
		return err
	}
	for _, fn := range s.functions {
		if err := s.registry.Add(fn.name, fn.fn, fn.opts...); err != nil {
			return fmt.Errorf("register %v: %w", fn.name, err)
		}
	}
	s.initWorkflowService()
	s.logger.WithField("functions", len(s.registry.Names())).Debug("service initialised")
	return nil
}

// initDefaults applies fall-back values for dependencies that were not
// supplied through options.
func (s *Service) initDefaults() error {
	if s.config == nil {
		s.config = &config.Config{}
	}
	s.config.Init()
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		logger, err := logging.New(&s.config.Log)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if s.registry == nil {
		converter := convert.New(convert.WithMaxDepth(s.config.Engine.MaxDepth))
		s.registry = registry.New(
			registry.WithLogger(s.logger),
			registry.WithConverter(converter),
			registry.WithFallbackAllowed(s.config.Engine.AllowFallback),
		)
	}
	return nil
}

// initWorkflowService assembles Fluxor options and instantiates the engine
// with the function action service.
func (s *Service) initWorkflowService() {
	opts := append([]fluxor.Option{}, s.config.Options...)

	extensionTypes := append([]*x.Type{}, s.config.ExtensionTypes...)
	for _, t := range s.registry.Types() {
		extensionTypes = append(extensionTypes, x.NewType(t))
	}
	s.Workflow.ExtensionTypes = extensionTypes
	if len(extensionTypes) > 0 {
		opts = append(opts, fluxor.WithExtensionTypes(extensionTypes...))
	}

	extensions := append([]types.Service{}, s.config.Extensions...)
	extensions = append(extensions, s.Workflow.Extensions...)
	extensions = append(extensions, resolveBuiltinServices(s.config.Builtins)...)
	functions := action.New(s.config.Namespace, s.registry, s.config.Expose, s.logger)
	if len(functions.Methods()) > 0 {
		extensions = append(extensions, functions)
	}
	s.Workflow.Extensions = extensions
	if len(extensions) > 0 {
		opts = append(opts, fluxor.WithExtensionServices(extensions...))
	}

	opts = append(opts, s.Workflow.Options...)
	s.Workflow.Service = fluxor.New(opts...)
	s.Workflow.Runtime = s.Workflow.Service.Runtime()
}
