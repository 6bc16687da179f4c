package tools

import (
	"fmt"
	"strings"
)

// resolveMinimumVersion applies a configured minimum on top of the built-in
// one. A configured value lower than the built-in minimum is ignored.
func resolveMinimumVersion(def ToolDefinition, overrides map[string]string) (string, []string) {
	minimum := strings.TrimSpace(def.MinimumVersion)

	override := ""
	for name, value := range overrides {
		if strings.EqualFold(name, def.Name) {
			override = strings.TrimSpace(value)
			break
		}
	}
	if override == "" {
		return minimum, nil
	}

	if meetsMinimum(override, minimum) {
		var notes []string
		if override != minimum {
			notes = append(notes, fmt.Sprintf("minimum overridden by config (%s)", override))
		}
		return override, notes
	}
	return minimum, []string{fmt.Sprintf("config minimum %s ignored; default minimum %s is higher", override, minimum)}
}
