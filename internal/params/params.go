// Package params resolves command options from their three sources
// (explicit value, environment variable, static default) and enforces
// mutually-exclusive option groups. Resolution is a pure computation
// over the declared option table: the only I/O is the injected
// environment lookup, and the resolved set is immutable afterwards.
package params

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
)

// EnvPrefix is prepended to the derived environment variable name of
// every option that does not declare a dedicated one.
const EnvPrefix = "ALF_"

// Spec declares a single option: where its value may come from and how
// the final value is checked.
type Spec struct {
	// Name is the canonical (long) option name, e.g. "region".
	Name string

	// Env names a dedicated environment variable fallback, e.g.
	// AWS_DEFAULT_REGION. When empty the variable name is derived from
	// Name as EnvPrefix + SCREAMING_SNAKE(Name).
	Env string

	// Default applies when neither an explicit value nor an environment
	// value is present.
	Default string

	// Required makes an empty value after resolution a fatal
	// configuration error.
	Required bool

	// Group names a mutually-exclusive group this option belongs to.
	// At most one member of a group may be supplied explicitly.
	Group string

	// GroupDefault marks this option as the member whose Default applies
	// when no member of the group is supplied at all.
	GroupDefault bool

	// Prompt marks the option as one the command layer may ask for
	// interactively when it is absent. The resolver itself never
	// prompts.
	Prompt bool

	// Secret marks the option as sensitive; prompting hides the input.
	Secret bool

	// Validate checks the resolved value. It runs only when the value is
	// non-empty.
	Validate func(string) error
}

// EnvVar returns the environment variable this option resolves from.
func (s Spec) EnvVar() string {
	if s.Env != "" {
		return s.Env
	}
	return EnvPrefix + strcase.ToScreamingSnake(s.Name)
}

// Input is the raw, possibly-absent value collected from the command
// line for one option.
type Input struct {
	Value string
	Set   bool
}

// Resolved is the immutable option set produced by Resolve.
type Resolved struct {
	values map[string]string
}

// Get returns the resolved value for an option, or the empty string
// when the option was not declared or resolved to nothing.
func (r Resolved) Get(name string) string {
	return r.values[name]
}

// MissingOptionError reports a required option that resolved to
// nothing.
type MissingOptionError struct {
	Option string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("required option --%s was not provided", e.Option)
}

// ConflictError reports two or more members of a mutually-exclusive
// group supplied together.
type ConflictError struct {
	Options []string
}

func (e *ConflictError) Error() string {
	quoted := make([]string, len(e.Options))
	for i, o := range e.Options {
		quoted[i] = "--" + o
	}
	return fmt.Sprintf("options %s are mutually exclusive", strings.Join(quoted, " and "))
}

// InvalidOptionError reports a value that failed validation, naming the
// offending option.
type InvalidOptionError struct {
	Option string
	Err    error
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid value for --%s: %v", e.Option, e.Err)
}

func (e *InvalidOptionError) Unwrap() error { return e.Err }

// IsConfigError reports whether err belongs to the configuration error
// category: a failure the operator corrects by fixing the invocation,
// detected before any collaborator call.
func IsConfigError(err error) bool {
	var missing *MissingOptionError
	var conflict *ConflictError
	var invalid *InvalidOptionError
	return errors.As(err, &missing) || errors.As(err, &conflict) || errors.As(err, &invalid)
}

// Resolve evaluates the option table against the collected inputs.
// Precedence per option: explicit value, then environment variable,
// then default. Mutual exclusivity considers explicitly-supplied values
// only; when no member of a group is supplied, the group's designated
// default member keeps its default and the rest resolve to nothing.
func Resolve(specs []Spec, inputs map[string]Input, lookupEnv func(string) (string, bool)) (Resolved, error) {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}

	suppressed, err := groupLosers(specs, inputs, lookupEnv)
	if err != nil {
		return Resolved{}, err
	}

	values := make(map[string]string, len(specs))
	for _, spec := range specs {
		if suppressed[spec.Name] {
			values[spec.Name] = ""
			continue
		}

		value := spec.Default
		if env, ok := lookupEnv(spec.EnvVar()); ok && env != "" {
			value = env
		}
		if in, ok := inputs[spec.Name]; ok && in.Set {
			value = in.Value
		}

		if value == "" {
			if spec.Required {
				return Resolved{}, &MissingOptionError{Option: spec.Name}
			}
			values[spec.Name] = ""
			continue
		}

		if spec.Validate != nil {
			if err := spec.Validate(value); err != nil {
				return Resolved{}, &InvalidOptionError{Option: spec.Name, Err: err}
			}
		}
		values[spec.Name] = value
	}

	return Resolved{values: values}, nil
}

// groupLosers works out, per mutually-exclusive group, which members
// must resolve to nothing so that exactly one member carries a value.
func groupLosers(specs []Spec, inputs map[string]Input, lookupEnv func(string) (string, bool)) (map[string]bool, error) {
	groups := make(map[string][]Spec)
	for _, spec := range specs {
		if spec.Group != "" {
			groups[spec.Group] = append(groups[spec.Group], spec)
		}
	}

	suppressed := make(map[string]bool)
	for _, members := range groups {
		var explicit []string
		for _, m := range members {
			if in, ok := inputs[m.Name]; ok && in.Set {
				explicit = append(explicit, m.Name)
			}
		}
		if len(explicit) > 1 {
			return nil, &ConflictError{Options: explicit}
		}

		winner := ""
		if len(explicit) == 1 {
			winner = explicit[0]
		} else {
			for _, m := range members {
				if env, ok := lookupEnv(m.EnvVar()); ok && env != "" {
					winner = m.Name
					break
				}
			}
		}
		if winner == "" {
			for _, m := range members {
				if m.GroupDefault {
					winner = m.Name
					break
				}
			}
		}

		for _, m := range members {
			if m.Name != winner {
				suppressed[m.Name] = true
			}
		}
	}
	return suppressed, nil
}
