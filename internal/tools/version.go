package tools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"clipsmith/internal/runner"
)

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// readVersion runs the tool's version switch and extracts the dotted
// version from the banner's first line.
func readVersion(ctx context.Context, r runner.Runner, def ToolDefinition, path string) (string, error) {
	res, err := r.Run(ctx, path, []string{def.VersionSwitch}, runner.RunOptions{})
	if err != nil {
		return "", fmt.Errorf("%s version: %w", def.Name, err)
	}
	banner, _, _ := strings.Cut(strings.TrimSpace(string(res.Stdout)), "\n")
	return normalizeFFmpegVersion(banner), nil
}

// normalizeFFmpegVersion pulls "6.1.1" out of banners such as
// "ffmpeg version n6.1.1-static https://...". Lines without a number are
// returned unchanged.
func normalizeFFmpegVersion(line string) string {
	rest := line
	if _, after, ok := strings.Cut(line, "version"); ok {
		rest = after
	}
	if match := versionPattern.FindString(rest); match != "" {
		return match
	}
	return line
}

// meetsMinimum compares dotted versions numerically; missing components
// count as zero.
func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}
	have, want := numericParts(version), numericParts(minimum)
	for i := 0; i < max(len(have), len(want)); i++ {
		h, w := partAt(have, i), partAt(want, i)
		if h != w {
			return h > w
		}
	}
	return true
}

func partAt(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

func numericParts(version string) []int {
	fields := strings.FieldsFunc(version, func(r rune) bool { return r < '0' || r > '9' })
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, _ := strconv.Atoi(f)
		parts = append(parts, n)
	}
	return parts
}
