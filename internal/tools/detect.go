package tools

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"clipsmith/internal/runner"
)

// Options controls tool detection. Paths maps a tool name to a configured
// executable; empty entries fall back to PATH lookup.
type Options struct {
	Runner   runner.Runner
	Paths    map[string]string
	Minimums map[string]string
}

// Detect returns the status of each required tool sorted by name.
func Detect(ctx context.Context, opts Options) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	r := opts.Runner
	if r == nil {
		r = runner.CmdRunner{}
	}

	var statuses []Status
	for _, name := range KnownTools() {
		def, _ := Definition(name)
		statuses = append(statuses, detectOne(ctx, r, def, opts))
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Tool < statuses[j].Tool })
	return statuses
}

// Missing returns the statuses that do not satisfy their minimum.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, st := range statuses {
		if !st.Satisfied {
			out = append(out, st)
		}
	}
	return out
}

func detectOne(ctx context.Context, r runner.Runner, def ToolDefinition, opts Options) Status {
	minimum, notes := resolveMinimumVersion(def, opts.Minimums)
	status := Status{Tool: def.Name, Minimum: minimum, Notes: notes}

	path, source, err := locate(def, opts.Paths[def.Name])
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Path = path
	status.Source = source

	version, err := readVersion(ctx, r, def, path)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = version
	status.Satisfied = meetsMinimum(version, minimum)
	if !status.Satisfied {
		status.Error = fmt.Sprintf("version %s below minimum %s", version, minimum)
	}
	return status
}

func locate(def ToolDefinition, configured string) (string, Source, error) {
	configured = strings.TrimSpace(configured)
	if configured != "" && configured != def.Name && configured != def.Executable {
		path, err := exec.LookPath(configured)
		if err != nil {
			return "", SourceConfig, fmt.Errorf("%s not found at %s", def.Name, configured)
		}
		return path, SourceConfig, nil
	}
	path, err := exec.LookPath(def.Executable)
	if err != nil {
		return "", SourceSystem, fmt.Errorf("%s not found in PATH", def.Executable)
	}
	return path, SourceSystem, nil
}
