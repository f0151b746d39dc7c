package mcp

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/viant/dyncall/mcp/config"
	"github.com/viant/dyncall/registry"
	"github.com/viant/fluxor"
	"github.com/viant/fluxor/model/types"
	"github.com/viant/x"
)

// Service exposes registered functions as MCP tools and as Fluxor workflow
// actions.  Bootstrap lives in bootstrap.go.
type Service struct {
	Workflow
	started   int32
	config    *config.Config
	registry  *registry.Registry
	logger    *logrus.Logger
	functions []function
}

type Workflow struct {
	Options        []fluxor.Option
	Runtime        *fluxor.Runtime
	Service        *fluxor.Service
	Extensions     []types.Service
	ExtensionTypes []*x.Type `json:"-"`
}

// function is a registration deferred until the registry exists.
type function struct {
	name string
	fn   any
	opts []registry.AddOption
}

// WorkflowRuntime returns the underlying Fluxor runtime.
func (s *Service) WorkflowRuntime() *fluxor.Runtime { return s.Workflow.Runtime }

// WorkflowService returns the Fluxor service holding all actions.
func (s *Service) WorkflowService() *fluxor.Service { return s.Workflow.Service }

// Config returns the effective configuration.  Callers must treat it as
// read-only.
func (s *Service) Config() *config.Config { return s.config }

// Registry returns the function registry backing the tools.
func (s *Service) Registry() *registry.Registry { return s.registry }

// Logger returns the service logger.
func (s *Service) Logger() *logrus.Logger { return s.logger }

// Option modifies a service instance before it is initialised.
type Option func(*Service)

// WithConfig sets a custom configuration instance. When omitted a zero value
// config is assumed.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithRegistry uses an existing registry instead of creating one from the
// engine configuration.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Service) {
		s.registry = reg
	}
}

// WithFunction registers fn under name during bootstrap.
func WithFunction(name string, fn any, opts ...registry.AddOption) Option {
	return func(s *Service) {
		s.functions = append(s.functions, function{name: name, fn: fn, opts: opts})
	}
}

// WithLogger sets the logger; by default one is built from the log config.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithWorkflowOptions appends additional Fluxor options that will be used when
// the Workflow engine gets instantiated.
func WithWorkflowOptions(opts ...fluxor.Option) Option {
	return func(s *Service) {
		s.Workflow.Options = append(s.Workflow.Options, opts...)
	}
}

// WithExtensions registers custom Fluxor services next to the function
// actions.
func WithExtensions(ext ...types.Service) Option {
	return func(s *Service) {
		s.Workflow.Extensions = append(s.Workflow.Extensions, ext...)
	}
}

// New constructs a new service instance; see init in bootstrap.go.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	svc := &Service{}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.init(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Start launches the underlying Fluxor runtime. Multiple invocations are safe,
// subsequent calls are ignored.
func (s *Service) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.started, 0, 1) {
		return nil
	}
	return s.Workflow.Runtime.Start(ctx)
}

// Shutdown terminates the Fluxor runtime. Additional invocations after the
// first successful call have no effect.
func (s *Service) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.started, 1, 2) {
		return nil
	}
	return s.Workflow.Runtime.Shutdown(ctx)
}
