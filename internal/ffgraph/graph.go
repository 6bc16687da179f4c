// Package ffgraph models ffmpeg filter graphs as chains of typed filters
// joined by named pads. Graphs are built in memory and serialized to
// ffmpeg's filtergraph syntax only when a command line is assembled.
package ffgraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Pad names a link between chains. Stream specifiers such as "0:v" refer to
// process inputs; bare names such as "v1" are labels produced inside the graph.
type Pad string

// Stream returns the pad for input index idx of the given media kind ("v" or "a").
func Stream(idx int, kind string) Pad {
	return Pad(strconv.Itoa(idx) + ":" + kind)
}

// IsStream reports whether the pad addresses a process input.
func (p Pad) IsStream() bool {
	return strings.Contains(string(p), ":")
}

// Label renders the pad in bracket form.
func (p Pad) Label() string {
	return "[" + string(p) + "]"
}

// Arg is one filter option. An empty Key renders as a positional value.
type Arg struct {
	Key   string
	Value string
}

// Filter is a single filter invocation.
type Filter struct {
	Name string
	Args []Arg
}

// New builds a filter from positional values.
func New(name string, values ...string) Filter {
	args := make([]Arg, len(values))
	for i, v := range values {
		args[i] = Arg{Value: v}
	}
	return Filter{Name: name, Args: args}
}

// With appends a key=value option.
func (f Filter) With(key, value string) Filter {
	f.Args = append(append([]Arg(nil), f.Args...), Arg{Key: key, Value: value})
	return f
}

// Arg returns the value for key and whether it was set.
func (f Filter) Arg(key string) (string, bool) {
	for _, a := range f.Args {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		if a.Key == "" {
			parts[i] = a.Value
		} else {
			parts[i] = a.Key + "=" + a.Value
		}
	}
	return f.Name + "=" + strings.Join(parts, ":")
}

// Chain is a linear run of filters with optional input and output pads.
type Chain struct {
	Inputs  []Pad
	Filters []Filter
	Outputs []Pad
}

// Then appends filters to the chain.
func (c Chain) Then(filters ...Filter) Chain {
	c.Filters = append(append([]Filter(nil), c.Filters...), filters...)
	return c
}

// Names returns the filter names in order.
func (c Chain) Names() []string {
	names := make([]string, len(c.Filters))
	for i, f := range c.Filters {
		names[i] = f.Name
	}
	return names
}

func (c Chain) String() string {
	var b strings.Builder
	for _, p := range c.Inputs {
		b.WriteString(p.Label())
	}
	for i, f := range c.Filters {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.String())
	}
	for _, p := range c.Outputs {
		b.WriteString(p.Label())
	}
	return b.String()
}

// Graph is an ordered list of chains.
type Graph struct {
	chains []Chain
}

// Add appends a chain and returns its first output pad, if any.
func (g *Graph) Add(c Chain) Pad {
	g.chains = append(g.chains, c)
	if len(c.Outputs) == 0 {
		return ""
	}
	return c.Outputs[0]
}

// Link is shorthand for adding a chain of filters from inputs to out.
func (g *Graph) Link(inputs []Pad, out Pad, filters ...Filter) Pad {
	return g.Add(Chain{Inputs: inputs, Filters: filters, Outputs: []Pad{out}})
}

// Chains returns a copy of the chains in order.
func (g *Graph) Chains() []Chain {
	return append([]Chain(nil), g.chains...)
}

// Len returns the number of chains.
func (g *Graph) Len() int {
	return len(g.chains)
}

// Empty reports whether the graph has no chains.
func (g *Graph) Empty() bool {
	return g == nil || len(g.chains) == 0
}

// Count returns how many filters with the given name the graph contains.
func (g *Graph) Count(name string) int {
	n := 0
	for _, c := range g.chains {
		for _, f := range c.Filters {
			if f.Name == name {
				n++
			}
		}
	}
	return n
}

// Find returns the first chain containing a filter named name.
func (g *Graph) Find(name string) (Chain, bool) {
	for _, c := range g.chains {
		for _, f := range c.Filters {
			if f.Name == name {
				return c, true
			}
		}
	}
	return Chain{}, false
}

// Validate checks that every label is produced before it is consumed and
// consumed at most once.
func (g *Graph) Validate() error {
	produced := make(map[Pad]bool)
	consumed := make(map[Pad]bool)
	for i, c := range g.chains {
		if len(c.Filters) == 0 {
			return fmt.Errorf("chain %d has no filters", i)
		}
		for _, p := range c.Inputs {
			if p.IsStream() {
				continue
			}
			if !produced[p] {
				return fmt.Errorf("chain %d consumes %s before it is produced", i, p.Label())
			}
			if consumed[p] {
				return fmt.Errorf("chain %d consumes %s twice", i, p.Label())
			}
			consumed[p] = true
		}
		for _, p := range c.Outputs {
			if produced[p] {
				return fmt.Errorf("chain %d redefines %s", i, p.Label())
			}
			produced[p] = true
		}
	}
	return nil
}

func (g *Graph) String() string {
	if g == nil {
		return ""
	}
	parts := make([]string, len(g.chains))
	for i, c := range g.chains {
		parts[i] = c.String()
	}
	return strings.Join(parts, ";")
}

// Float formats a number the way ffmpeg options expect, without trailing zeros.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Int formats an integer option.
func Int(v int) string {
	return strconv.Itoa(v)
}
