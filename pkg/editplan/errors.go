package editplan

import (
	"fmt"
	"strconv"
	"strings"
)

// PlanningError reports a plan that cannot be rendered. It is never retried.
type PlanningError struct {
	Reason string
}

func (e *PlanningError) Error() string {
	return "planning: " + e.Reason
}

// ValidationError captures a single field-level problem in a plan file.
type ValidationError struct {
	Section string
	Index   int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	parts := []string{formatLocation(e.Section, e.Index)}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ValidationErrors aggregates multiple validation issues.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Issues returns a copy of the underlying validation errors.
func (errs ValidationErrors) Issues() []ValidationError {
	return append([]ValidationError(nil), errs...)
}

func formatLocation(section string, index int) string {
	if section == "" {
		section = "plan"
	}
	if index <= 0 {
		return section
	}
	return fmt.Sprintf("%s[%s]", section, strconv.Itoa(index))
}
