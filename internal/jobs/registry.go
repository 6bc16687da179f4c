package jobs

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clipsmith/internal/paths"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("job registry closed")

// ErrNotFound reports an unknown job ID.
var ErrNotFound = errors.New("job not found")

type createReq struct {
	source string
	reply  chan Job
}

type updateReq struct {
	id     string
	mutate func(*Job)
	reply  chan updateResp
}

type updateResp struct {
	job Job
	err error
}

type getReq struct {
	id    string
	reply chan getResp
}

type getResp struct {
	job Job
	ok  bool
}

type listReq struct {
	reply chan []Job
}

// Registry owns every job record. A single goroutine serves all requests,
// so records are never shared between goroutines.
type Registry struct {
	workspace paths.WorkspacePaths
	logger    zerolog.Logger
	now       func() time.Time

	reqs chan any
	quit chan struct{}
	done chan struct{}
}

// NewRegistry starts the registry goroutine. Status changes are persisted
// under the workspace jobs directory.
func NewRegistry(ws paths.WorkspacePaths, logger zerolog.Logger) *Registry {
	r := &Registry{
		workspace: ws,
		logger:    logger,
		now:       time.Now,
		reqs:      make(chan any),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Registry) loop() {
	defer close(r.done)
	jobs := make(map[string]*Job)
	for {
		select {
		case <-r.quit:
			return
		case msg := <-r.reqs:
			switch req := msg.(type) {
			case createReq:
				req.reply <- r.create(jobs, req.source)
			case updateReq:
				req.reply <- r.update(jobs, req.id, req.mutate)
			case getReq:
				job, ok := jobs[req.id]
				if ok {
					req.reply <- getResp{job: *job, ok: true}
				} else {
					req.reply <- getResp{}
				}
			case listReq:
				out := make([]Job, 0, len(jobs))
				for _, job := range jobs {
					out = append(out, *job)
				}
				sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
				req.reply <- out
			}
		}
	}
}

func (r *Registry) create(jobs map[string]*Job, source string) Job {
	id := uuid.NewString()
	now := r.now().UTC()
	job := &Job{
		ID:        id,
		Status:    StatusQueued,
		Progress:  StatusQueued.Progress(),
		Source:    source,
		Dir:       r.workspace.Job(id).Dir,
		CreatedAt: now,
		UpdatedAt: now,
	}
	jobs[id] = job
	r.persist(*job)
	return *job
}

func (r *Registry) update(jobs map[string]*Job, id string, mutate func(*Job)) updateResp {
	job, ok := jobs[id]
	if !ok {
		return updateResp{err: fmt.Errorf("%w: %s", ErrNotFound, id)}
	}
	mutate(job)
	job.UpdatedAt = r.now().UTC()
	r.persist(*job)
	return updateResp{job: *job}
}

func (r *Registry) persist(job Job) {
	if err := WriteStatus(r.workspace.Job(job.ID).StatusFile, job); err != nil {
		r.logger.Warn().Err(err).Str("job_id", job.ID).Msg("persist job status")
	}
}

func (r *Registry) send(msg any) bool {
	select {
	case r.reqs <- msg:
		return true
	case <-r.done:
		return false
	}
}

// Create registers a queued job and returns it.
func (r *Registry) Create(source string) (Job, error) {
	reply := make(chan Job, 1)
	if !r.send(createReq{source: source, reply: reply}) {
		return Job{}, ErrClosed
	}
	return <-reply, nil
}

// Update applies mutate to the job inside the registry goroutine.
func (r *Registry) Update(id string, mutate func(*Job)) (Job, error) {
	reply := make(chan updateResp, 1)
	if !r.send(updateReq{id: id, mutate: mutate, reply: reply}) {
		return Job{}, ErrClosed
	}
	resp := <-reply
	return resp.job, resp.err
}

// SetStatus moves the job to status and sets the matching progress.
func (r *Registry) SetStatus(id string, status Status) (Job, error) {
	return r.Update(id, func(j *Job) {
		j.Status = status
		j.Progress = status.Progress()
	})
}

// Get returns a snapshot of the job.
func (r *Registry) Get(id string) (Job, bool) {
	reply := make(chan getResp, 1)
	if !r.send(getReq{id: id, reply: reply}) {
		return Job{}, false
	}
	resp := <-reply
	return resp.job, resp.ok
}

// List returns snapshots of all jobs, oldest first.
func (r *Registry) List() []Job {
	reply := make(chan []Job, 1)
	if !r.send(listReq{reply: reply}) {
		return nil
	}
	return <-reply
}

// Close stops the registry goroutine. Later calls return ErrClosed.
func (r *Registry) Close() {
	select {
	case <-r.done:
		return
	default:
	}
	select {
	case r.quit <- struct{}{}:
	case <-r.done:
	}
	<-r.done
}
