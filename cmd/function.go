package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/dyncall/introspect"
)

// FunctionCmd shows parameters of one registered function: descriptor, Go
// type, required flag and default.
type FunctionCmd struct {
	Name string `short:"n" long:"name" description:"registered function name" required:"yes"`
	JSON bool   `long:"json" description:"print result as JSON"`
}

type parameterInfo struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	GoType     string      `json:"goType"`
	Definition string      `json:"definition,omitempty"`
	Required   bool        `json:"required"`
	Default    interface{} `json:"default,omitempty"`
}

type functionInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Signature   string          `json:"signature"`
	Context     bool            `json:"context"`
	Fallback    bool            `json:"fallback"`
	Parameters  []parameterInfo `json:"parameters"`
}

func (c *FunctionCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	entry, ok := svc.Registry().Lookup(c.Name)
	if !ok {
		return fmt.Errorf("function %q not found", c.Name)
	}
	signature := entry.Function.Signature()
	info := functionInfo{
		Name:        entry.Name,
		Description: entry.Description,
		Signature:   signature.Type.String(),
		Context:     signature.HasContext,
		Fallback:    signature.Results == introspect.ResultOther,
	}
	for i, param := range signature.Parameters {
		info.Parameters = append(info.Parameters, parameterInfo{
			Name:       param.Name,
			Type:       param.Type.String(),
			GoType:     typeString(signature.In[i]),
			Definition: typeDefinition(signature.In[i], "  "),
			Required:   !param.Type.IsOptional(),
			Default:    param.Default,
		})
	}

	if c.JSON {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	fmt.Fprintf(stdout, "Function : %s\n", info.Name)
	fmt.Fprintf(stdout, "Desc     : %s\n", info.Description)
	fmt.Fprintf(stdout, "Go       : %s\n", info.Signature)
	if info.Fallback {
		fmt.Fprintf(stdout, "Fallback : yes\n")
	}
	for _, param := range info.Parameters {
		marker := ""
		if param.Required {
			marker = " (required)"
		}
		fmt.Fprintf(stdout, "  %s %s [%s]%s\n", param.Name, param.Type, param.GoType, marker)
		if param.Default != nil {
			fmt.Fprintf(stdout, "    default: %v\n", param.Default)
		}
		if param.Definition != "" {
			fmt.Fprintf(stdout, "  %s\n", param.Definition)
		}
	}
	return nil
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<none>"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		return "*" + t.String()
	}
	return t.String()
}

// typeDefinition returns a Go-like struct definition for anonymous types or
// an empty string for named/builtin ones.
func typeDefinition(t reflect.Type, indent string) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		return typeDefinition(t.Elem(), indent)
	}
	if t.Name() != "" { // named type
		return ""
	}

	switch t.Kind() {
	case reflect.Struct:
		var b strings.Builder
		b.WriteString("struct {\n")
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			b.WriteString(indent)
			b.WriteString("    ")
			b.WriteString(f.Name)
			b.WriteString(" ")
			b.WriteString(simpleTypeExpr(f.Type))
			if tag := strings.TrimSpace(string(f.Tag)); tag != "" {
				b.WriteString(" `")
				b.WriteString(tag)
				b.WriteString("`")
			}
			b.WriteString("\n")
		}
		b.WriteString(indent)
		b.WriteString("}")
		return b.String()
	default:
		return "" // other anonymous kinds not elaborated
	}
}

func simpleTypeExpr(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + simpleTypeExpr(t.Elem())
	}
	if t.Name() != "" {
		return t.String()
	}
	switch t.Kind() {
	case reflect.Slice:
		return "[]" + simpleTypeExpr(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), simpleTypeExpr(t.Elem()))
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", simpleTypeExpr(t.Key()), simpleTypeExpr(t.Elem()))
	case reflect.Struct:
		return "struct{...}"
	default:
		return t.String()
	}
}
