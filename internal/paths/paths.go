package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipsmith/internal/config"
)

// WorkspacePaths captures canonical locations for a clipsmith workspace.
type WorkspacePaths struct {
	Root       string
	ConfigFile string
	JobsDir    string
}

// Resolve determines the workspace root using the optional --workspace flag
// or the current working directory when the flag is empty.
func Resolve(workspaceFlag string) (WorkspacePaths, error) {
	var (
		root string
		err  error
	)

	if workspaceFlag != "" {
		root, err = filepath.Abs(workspaceFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return WorkspacePaths{}, fmt.Errorf("resolve workspace root: %w", err)
	}

	return newWorkspacePaths(root), nil
}

func newWorkspacePaths(root string) WorkspacePaths {
	return WorkspacePaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "clipsmith.yaml"),
		JobsDir:    filepath.Join(root, "runs"),
	}
}

// ApplyConfig overrides locations configured in the workspace config.
func ApplyConfig(wp WorkspacePaths, cfg config.Config) WorkspacePaths {
	if jobs := strings.TrimSpace(cfg.Workspace.JobsDir); jobs != "" {
		wp.JobsDir = resolveWorkspacePath(wp.Root, jobs)
	}
	return wp
}

func resolveWorkspacePath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureJobsDir creates the jobs directory.
func (p WorkspacePaths) EnsureJobsDir() error {
	if err := os.MkdirAll(p.JobsDir, 0o755); err != nil {
		return fmt.Errorf("create jobs dir: %w", err)
	}
	return nil
}

// Job returns the layout for one job's working directory.
func (p WorkspacePaths) Job(id string) JobPaths {
	return NewJobPaths(filepath.Join(p.JobsDir, id))
}

// JobPaths lists every artifact a job may write. Nothing is written outside Dir.
type JobPaths struct {
	Dir            string
	AssetsDir      string
	CommandLog     string
	StderrLog      string
	ServerLog      string
	StatusFile     string
	PlanRaw        string
	PlanNormalized string
	OptionsFile    string
	ConcatList     string
	Concat         string
	Overlay        string
	Captions       string
	Final          string
}

// NewJobPaths lays out a job directory rooted at dir.
func NewJobPaths(dir string) JobPaths {
	return JobPaths{
		Dir:            dir,
		AssetsDir:      filepath.Join(dir, "assets"),
		CommandLog:     filepath.Join(dir, "ffmpeg_commands.txt"),
		StderrLog:      filepath.Join(dir, "ffmpeg_stderr.log"),
		ServerLog:      filepath.Join(dir, "server.log"),
		StatusFile:     filepath.Join(dir, "status.json"),
		PlanRaw:        filepath.Join(dir, "plan_raw.json"),
		PlanNormalized: filepath.Join(dir, "plan_normalized.json"),
		OptionsFile:    filepath.Join(dir, "options.json"),
		ConcatList:     filepath.Join(dir, "concat.txt"),
		Concat:         filepath.Join(dir, "concat.mp4"),
		Overlay:        filepath.Join(dir, "overlay.mp4"),
		Captions:       filepath.Join(dir, "captions.ass"),
		Final:          filepath.Join(dir, "final.mp4"),
	}
}

// Clip returns the path of the i-th trimmed clip.
func (j JobPaths) Clip(i int) string {
	return filepath.Join(j.Dir, fmt.Sprintf("clip_%d.mp4", i))
}

// SFX returns the path of the i-th resolved sound effect with the given extension.
func (j JobPaths) SFX(i int, ext string) string {
	return filepath.Join(j.Dir, fmt.Sprintf("sfx_%d%s", i, ext))
}

// Ensure creates the job and assets directories.
func (j JobPaths) Ensure() error {
	for _, dir := range []string{j.Dir, j.AssetsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
