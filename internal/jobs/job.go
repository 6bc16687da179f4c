// Package jobs tracks render jobs and runs them in the background.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusPlanning  Status = "planning"
	StatusRendering Status = "rendering"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

var statusProgress = map[Status]int{
	StatusQueued:    10,
	StatusPlanning:  60,
	StatusRendering: 80,
	StatusDone:      100,
	StatusError:     100,
}

// Progress returns the percentage reported for the status.
func (s Status) Progress() int {
	return statusProgress[s]
}

// Terminal reports whether no further transitions happen.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Job is the persisted record of one render request.
type Job struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Stage     string    `json:"stage,omitempty"`
	Attempt   int       `json:"attempt,omitempty"`
	Source    string    `json:"source,omitempty"`
	Output    string    `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
	Dir       string    `json:"dir"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WriteStatus persists the job as status.json inside its directory.
func WriteStatus(path string, job Job) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure job directory: %w", err)
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace status: %w", err)
	}
	return nil
}

// ReadStatus loads one status.json file.
func ReadStatus(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("read status: %w", err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("decode status %s: %w", path, err)
	}
	return job, nil
}

// ReadAll loads every job status under jobsDir, newest first. Directories
// without a status file are ignored.
func ReadAll(jobsDir string) ([]Job, error) {
	entries, err := os.ReadDir(jobsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read jobs directory: %w", err)
	}
	var jobs []Job
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		job, err := ReadStatus(filepath.Join(jobsDir, entry.Name(), "status.json"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}
