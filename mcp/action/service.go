package action

import (
	"context"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/viant/dyncall/internal/conv"
	"github.com/viant/dyncall/introspect"
	"github.com/viant/dyncall/mcp/matcher"
	"github.com/viant/dyncall/mcp/tool/conversion"
	"github.com/viant/dyncall/registry"
	"github.com/viant/fluxor/model/types"
)

var (
	mapType       = reflect.TypeOf(map[string]interface{}{})
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
)

// Service adapts a registry to types.Service; each exposed function becomes
// a method named after it.
type Service struct {
	name      string
	registry  *registry.Registry
	sigs      types.Signatures
	executors map[string]types.Executable
}

// New builds the action service for functions matching any expose pattern.
func New(name string, reg *registry.Registry, expose []string, logger logrus.FieldLogger) *Service {
	s := &Service{name: name, registry: reg, executors: map[string]types.Executable{}}
	for _, entry := range reg.List() {
		if !matcher.MatchAny(expose, entry.Name) {
			continue
		}
		s.sigs = append(s.sigs, types.Signature{
			Name:        entry.Name,
			Description: entry.Description,
			Input:       inputType(entry, logger),
			Output:      outputType(entry),
		})
		s.executors[entry.Name] = s.executor(entry.Name)
	}
	return s
}

// inputType builds a struct mirroring the function schema; a function whose
// parameter names cannot become struct fields takes a generic map.
func inputType(entry *registry.Entry, logger logrus.FieldLogger) reflect.Type {
	inputSchema, err := conversion.InputSchema(entry.Schema)
	if err == nil {
		var ret reflect.Type
		if ret, err = conversion.TypeFromInputSchema(inputSchema); err == nil {
			return ret
		}
	}
	logger.WithField("function", entry.Name).WithError(err).Debug("using generic action input")
	return mapType
}

func outputType(entry *registry.Entry) reflect.Type {
	fnType := entry.Function.Signature().Type
	switch entry.Function.Signature().Results {
	case introspect.ResultValue, introspect.ResultValueError:
		return fnType.Out(0)
	}
	return interfaceType
}

func (s *Service) executor(name string) types.Executable {
	return func(ctx context.Context, input, output interface{}) error {
		args, err := conv.ToMap(input)
		if err != nil {
			return err
		}
		result, err := s.registry.Invoke(ctx, name, args)
		if err != nil {
			return err
		}
		if output == nil {
			return nil
		}
		switch outPtr := output.(type) {
		case *interface{}:
			*outPtr = result
			return nil
		default:
			return conv.Convert(result, outPtr)
		}
	}
}

func (s *Service) Name() string { return s.name }

func (s *Service) Methods() types.Signatures { return s.sigs }

func (s *Service) Method(name string) (types.Executable, error) {
	if exec, ok := s.executors[name]; ok {
		return exec, nil
	}
	return nil, types.NewMethodNotFoundError(name)
}
