// Package run orchestrates a full reconciliation: classification,
// intra-source collision resolution and cross-source grouping, with all
// per-run state bundled in one context created fresh for each batch.
package run

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/townreach/ownermatch/internal/classify"
	"github.com/townreach/ownermatch/internal/collision"
	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/groups"
	"github.com/townreach/ownermatch/internal/similarity"
	"github.com/townreach/ownermatch/internal/source"
)

// ProgressFunc receives incremental progress without blocking the batch:
// stage name, records done and records total.
type ProgressFunc func(stage string, done, total int)

// Options configures a reconciliation run.
type Options struct {
	// CollisionPassThrough registers every entity without collision
	// checking.
	CollisionPassThrough bool
	// ProgressEvery is the record interval between progress callbacks.
	ProgressEvery int
	// Overrides are the manual force-match/force-exclude rules, nil for
	// none.
	Overrides *groups.OverrideSet
	// Progress is invoked during long batches, nil for none.
	Progress ProgressFunc
}

// Counts summarizes a run. Failed and flagged records are always surfaced,
// never silently dropped.
type Counts struct {
	PrimaryRecords   int `json:"primary_records"`
	SecondaryRecords int `json:"secondary_records"`
	Classified       int `json:"classified"`
	// Failed counts records no builder could classify; they are excluded
	// from all groups.
	Failed int `json:"failed"`
	// Flagged counts unresolved complex households held for manual review.
	Flagged    int `json:"flagged"`
	Merged     int `json:"merged"`
	Suffixed   int `json:"suffixed"`
	Groups     int `json:"groups"`
	NearMisses int `json:"near_misses"`
}

// Failure records one classification failure for reporting.
type Failure struct {
	SourceTag string `json:"source_tag"`
	RecordID  string `json:"record_id"`
	OwnerName string `json:"owner_name"`
	Reason    string `json:"reason"`
}

// Result is the outcome of one reconciliation run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Counts    Counts
	Failures  []Failure
	// Builder holds the run's groups and supports consensus/collapse
	// queries on them.
	Builder *groups.Builder
}

// Reconciler executes reconciliation runs. The reconciler itself is
// stateless across runs; every Run builds its registries and group state
// fresh.
type Reconciler struct {
	classifier *classify.Classifier
	comparator *similarity.Comparator
	opts       Options
	logger     zerolog.Logger
}

// New creates a reconciler.
func New(logger zerolog.Logger, opts Options) *Reconciler {
	if opts.ProgressEvery < 1 {
		opts.ProgressEvery = 250
	}
	return &Reconciler{
		classifier: classify.New(logger),
		comparator: similarity.NewComparator(),
		opts:       opts,
		logger:     logger.With().Str("component", "run").Logger(),
	}
}

// Run reconciles a primary (assessor) batch against a secondary (donor)
// batch. Records are processed strictly in input order in every stage, so
// the same input always yields identical suffixes and groups.
func (r *Reconciler) Run(primary, secondary []source.Record) *Result {
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	result.Counts.PrimaryRecords = len(primary)
	result.Counts.SecondaryRecords = len(secondary)

	logger := r.logger.With().Str("run_id", result.RunID).Logger()
	logger.Info().
		Int("primary", len(primary)).
		Int("secondary", len(secondary)).
		Bool("pass_through", r.opts.CollisionPassThrough).
		Msg("starting reconciliation")

	primaryEntities := r.classifyAndCollide("primary", primary, result, logger)
	secondaryEntities := r.classifyAndCollide("secondary", secondary, result, logger)

	builder := groups.NewBuilder(r.comparator, r.opts.Overrides, logger)
	for _, e := range primaryEntities {
		builder.Seed(e)
	}
	for i, e := range secondaryEntities {
		placement := builder.Place(e)
		if placement.NearMiss {
			result.Counts.NearMisses++
		}
		r.progress("group", i+1, len(secondaryEntities))
	}

	result.Builder = builder
	result.Counts.Groups = len(builder.Groups())

	logger.Info().
		Int("groups", result.Counts.Groups).
		Int("failed", result.Counts.Failed).
		Int("flagged", result.Counts.Flagged).
		Int("near_misses", result.Counts.NearMisses).
		Msg("reconciliation complete")
	return result
}

// classifyAndCollide runs one source's records through classification and
// intra-source collision resolution, in input order.
func (r *Reconciler) classifyAndCollide(stage string, records []source.Record, result *Result, logger zerolog.Logger) []entity.Entity {
	resolver := collision.NewResolver(r.comparator, r.opts.CollisionPassThrough, logger)

	for i, rec := range records {
		e, err := r.classifier.Classify(rec.OwnerName, rec)
		if err != nil {
			result.Counts.Failed++
			result.Failures = append(result.Failures, Failure{
				SourceTag: rec.SourceTag,
				RecordID:  rec.RecordID,
				OwnerName: rec.OwnerName,
				Reason:    err.Error(),
			})
			logger.Warn().
				Str("record_id", rec.RecordID).
				Str("source", rec.SourceTag).
				Err(err).
				Msg("classification failed")
			continue
		}
		result.Counts.Classified++

		if hh, ok := e.(*entity.AggregateHousehold); ok && hh.NeedsReview {
			result.Counts.Flagged++
		}

		outcome := resolver.Register(e)
		if outcome.Merged {
			result.Counts.Merged++
		} else if outcome.Suffix != "" {
			result.Counts.Suffixed++
		}

		r.progress("classify_"+stage, i+1, len(records))
	}

	return resolver.Registry().Entities()
}

func (r *Reconciler) progress(stage string, done, total int) {
	if r.opts.Progress == nil {
		return
	}
	if done == total || done%r.opts.ProgressEvery == 0 {
		r.opts.Progress(stage, done, total)
	}
}
