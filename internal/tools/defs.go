package tools

import "runtime"

// The pipeline relies on xfade offsets and sidechaincompress, both of which
// need ffmpeg 4.3.
const pipelineMinimum = "4.3"

var toolDefinitions = []ToolDefinition{
	probeable("ffmpeg"),
	probeable("ffprobe"),
}

func probeable(name string) ToolDefinition {
	exe := name
	if runtime.GOOS == "windows" {
		exe += ".exe"
	}
	return ToolDefinition{
		Name:           name,
		MinimumVersion: pipelineMinimum,
		Executable:     exe,
		VersionSwitch:  "-version",
	}
}

// KnownTools returns the required tool names in sorted order.
func KnownTools() []string {
	names := make([]string, len(toolDefinitions))
	for i, def := range toolDefinitions {
		names[i] = def.Name
	}
	return names
}

// Definition looks up a tool by name.
func Definition(name string) (ToolDefinition, bool) {
	for _, def := range toolDefinitions {
		if def.Name == name {
			return def, true
		}
	}
	return ToolDefinition{}, false
}
