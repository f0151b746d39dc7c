package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/dyncall/internal/logging"
	"github.com/viant/fluxor"
	"github.com/viant/fluxor/model/types"
	"github.com/viant/x"
	"gopkg.in/yaml.v3"

	mcp "github.com/viant/mcp"
)

// DefaultNamespace prefixes tool names and names the workflow service.
const DefaultNamespace = "fn"

// Engine controls argument conversion and invocation.
type Engine struct {
	MaxDepth      int  `yaml:"maxDepth,omitempty" json:"maxDepth,omitempty"`
	AllowFallback bool `yaml:"allowFallback,omitempty" json:"allowFallback,omitempty"`
}

type Config struct {
	Namespace      string             `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Expose         []string           `yaml:"expose,omitempty" json:"expose,omitempty"`
	Engine         Engine             `yaml:"engine,omitempty" json:"engine,omitempty"`
	Log            logging.Config     `yaml:"log,omitempty" json:"log,omitempty"`
	Server         *mcp.ServerOptions `yaml:"server,omitempty" json:"server,omitempty"`
	Builtins       []string           `yaml:"builtins,omitempty" json:"builtins,omitempty"`
	Options        []fluxor.Option    `yaml:"-" json:"-"`
	Extensions     []types.Service    `yaml:"-" json:"-"`
	ExtensionTypes []*x.Type          `yaml:"-" json:"-"`
}

// Load reads a YAML (or JSON) configuration from URL; any afs scheme is
// accepted, a plain path is read from the local file system.
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", URL, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", URL, err)
	}
	cfg.Init()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", URL, err)
	}
	return &cfg, nil
}

// Init applies defaults.
func (c *Config) Init() {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if len(c.Expose) == 0 {
		c.Expose = []string{"*"}
	}
}

func (c *Config) Validate() error {
	if strings.Contains(c.Namespace, "-") {
		return fmt.Errorf("namespace %q must not contain '-'", c.Namespace)
	}
	if c.Engine.MaxDepth < 0 {
		return fmt.Errorf("engine.maxDepth must not be negative: %d", c.Engine.MaxDepth)
	}
	for _, pattern := range c.Expose {
		if pattern == "" {
			return fmt.Errorf("expose pattern was empty")
		}
	}
	return nil
}
