package options

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			return yamlName(field.Tag.Get("yaml"), field.Name)
		})
	})
	return validate
}

// FieldError describes one rejected option.
type FieldError struct {
	Field string
	Rule  string
	Value string
}

// Error lists every rejected option.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: invalid value %q (%s)", f.Field, f.Value, f.Rule)
	}
	return "invalid options: " + strings.Join(parts, "; ")
}

// Validate checks enumerations, ranges and cross-field requirements.
func (o RenderOptions) Validate() error {
	err := validatorInstance().Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate options: %w", err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.Fields = append(out.Fields, FieldError{
			Field: strings.TrimPrefix(fe.Namespace(), "RenderOptions."),
			Rule:  rule,
			Value: fmt.Sprint(derefValue(fe.Value())),
		})
	}
	sort.Slice(out.Fields, func(i, j int) bool { return out.Fields[i].Field < out.Fields[j].Field })
	return out
}

// Load reads options from a YAML (or JSON) file layered over base, then
// sanitizes and validates them. A missing file yields base unchanged.
func Load(path string, base RenderOptions) (RenderOptions, error) {
	opts := base.Clone()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return RenderOptions{}, fmt.Errorf("read options: %w", err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return RenderOptions{}, fmt.Errorf("parse options: %w", err)
		}
	}
	opts.Sanitize()
	if err := opts.Validate(); err != nil {
		return RenderOptions{}, err
	}
	return opts, nil
}

func yamlName(tag, fallback string) string {
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" || name == "-" {
		return fallback
	}
	return name
}

func derefValue(v any) any {
	if p, ok := v.(*float64); ok && p != nil {
		return *p
	}
	return v
}
