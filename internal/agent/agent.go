// Package agent sequences the aggregation-and-matching pipeline:
// sources → keyword filter → AI ranker → store diff → persist.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jobscout/jobscout/internal/model"
)

// ErrAllSourcesFailed is returned when every configured source errored.
// A partial source failure only degrades the run; this is the one condition
// that surfaces as a run-level failure.
var ErrAllSourcesFailed = errors.New("all sources failed")

// State tracks where a run is in the pipeline.
type State int

const (
	StateIdle State = iota
	StateSourcing
	StateFiltering
	StateRanking
	StateDiffing
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSourcing:
		return "sourcing"
	case StateFiltering:
		return "filtering"
	case StateRanking:
		return "ranking"
	case StateDiffing:
		return "diffing"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Filter narrows the aggregated set before the costlier ranking stage.
type Filter interface {
	Apply(jobs []model.JobRecord) []model.JobRecord
}

// Agent owns one full search cycle across all configured sources.
type Agent struct {
	sources  []model.Source
	spec     model.SearchSpec
	filter   Filter
	ranker   model.Ranker
	store    model.MatchStore
	notifier model.Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates an agent wired with all its dependencies. notifier may be nil.
func New(
	sources []model.Source,
	spec model.SearchSpec,
	filter Filter,
	ranker model.Ranker,
	store model.MatchStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *Agent {
	return &Agent{
		sources:  sources,
		spec:     spec,
		filter:   filter,
		ranker:   ranker,
		store:    store,
		notifier: notifier,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the agent's current pipeline state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Agent) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
	a.logger.Debug("pipeline state", "state", s.String())
}

// Run executes one cycle and returns only the newly discovered jobs, in
// descending overall-score order. The store is read and written strictly
// after ranking completes, and persisted exactly once.
func (a *Agent) Run(ctx context.Context) ([]model.JobRecord, error) {
	a.setState(StateSourcing)
	raw, err := a.collect(ctx)
	if err != nil {
		a.setState(StateFailed)
		return nil, err
	}

	a.setState(StateFiltering)
	matched := a.filter.Apply(raw)

	a.setState(StateRanking)
	ranked, err := a.ranker.Rank(ctx, matched)
	if err != nil {
		a.setState(StateFailed)
		return nil, fmt.Errorf("ranking: %w", err)
	}

	a.setState(StateDiffing)
	var newJobs []model.JobRecord
	for _, job := range ranked {
		seen, err := a.store.Contains(job.URL)
		if err != nil {
			a.setState(StateFailed)
			return nil, fmt.Errorf("checking store for %s: %w", job.URL, err)
		}
		if seen {
			continue
		}
		if err := a.store.Record(job); err != nil {
			a.setState(StateFailed)
			return nil, fmt.Errorf("recording %s: %w", job.URL, err)
		}
		newJobs = append(newJobs, job)
	}

	a.setState(StatePersisting)
	if err := a.store.Persist(); err != nil {
		a.setState(StateFailed)
		return nil, fmt.Errorf("persisting store: %w", err)
	}

	if len(newJobs) > 0 && a.notifier != nil {
		if err := a.notifier.Notify(newJobs); err != nil {
			a.logger.Error("notification failed", "error", err)
		}
	}

	a.logger.Info("run complete",
		"sourced", len(raw),
		"matched", len(matched),
		"ranked", len(ranked),
		"new", len(newJobs),
	)

	a.setState(StateDone)
	return newJobs, nil
}

// collect fans out to every source in parallel, downgrades individual source
// failures to zero results, and aggregates admissible records with global url
// dedup (first sighting wins).
func (a *Agent) collect(ctx context.Context) ([]model.JobRecord, error) {
	type result struct {
		name string
		jobs []model.JobRecord
		err  error
	}
	results := make([]result, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			jobs, err := src.Search(ctx, a.spec)
			results[i] = result{name: src.Name(), jobs: jobs, err: err}
			return nil
		})
	}
	// Goroutines never return errors; failures are per-source data.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failures := 0
	var raw []model.JobRecord
	for _, res := range results {
		if res.err != nil {
			failures++
			a.logger.Warn("source failed, continuing with partial results",
				"source", res.name,
				"error", res.err,
			)
			continue
		}
		a.logger.Info("source returned", "source", res.name, "jobs", len(res.jobs))
		for _, job := range res.jobs {
			if !job.Admissible() {
				a.logger.Debug("dropping record without title or url", "source", res.name, "url", job.URL)
				continue
			}
			raw = append(raw, job)
		}
	}

	if len(a.sources) > 0 && failures == len(a.sources) {
		return nil, ErrAllSourcesFailed
	}

	// Uniqueness is enforced here at the aggregation boundary, not assumed
	// from any single source.
	seen := make(map[string]struct{}, len(raw))
	unique := raw[:0]
	for _, job := range raw {
		if _, ok := seen[job.URL]; ok {
			continue
		}
		seen[job.URL] = struct{}{}
		unique = append(unique, job)
	}
	return unique, nil
}
