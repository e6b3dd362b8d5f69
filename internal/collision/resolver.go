package collision

import (
	"github.com/rs/zerolog"

	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/similarity"
)

// Resolver decides, for each newly classified entity, whether it is the
// same owner as one already registered at its location key (merge) or a
// distinct owner at the same location (register with a suffixed key).
type Resolver struct {
	registry   *Registry
	comparator *similarity.Comparator
	// passThrough disables collision checking: every entity is registered
	// as a new owner. Used for batches where the collision logic is known
	// to be unreliable; a configuration choice, not an error path.
	passThrough bool
	logger      zerolog.Logger
}

// NewResolver creates a resolver over a fresh registry.
func NewResolver(comparator *similarity.Comparator, passThrough bool, logger zerolog.Logger) *Resolver {
	return &Resolver{
		registry:    NewRegistry(),
		comparator:  comparator,
		passThrough: passThrough,
		logger:      logger.With().Str("component", "collision").Logger(),
	}
}

// Registry exposes the resolver's per-run registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Outcome describes what Register did with an entity.
type Outcome struct {
	// Entity is the surviving entity: the merge target when Merged, else
	// the newly registered entity.
	Entity entity.Entity
	// Key is the full (possibly suffixed) location key.
	Key string
	// Suffix is the allocated suffix, "" for the first owner at a key.
	Suffix string
	// Merged is true when the entity was folded into an existing owner.
	Merged bool
	// Score is the winning comparison when Merged.
	Score similarity.Score
}

// Register places an entity into the registry. At a used key the entity is
// compared against every owner already registered there; the highest
// overall scorer that clears the same-owner rule absorbs it, otherwise the
// entity is registered as a new owner with the next suffix. Registration
// order is the caller's input order, which fixes suffix allocation.
func (r *Resolver) Register(e entity.Entity) Outcome {
	baseKey := e.Base().LocationKey

	if !r.passThrough {
		if match, score := r.bestMatch(baseKey, e); match != nil {
			r.merge(match, e)
			r.logger.Debug().
				Str("key", match.Base().LocationKey).
				Str("absorbed", e.Base().RefKey()).
				Float64("overall", score.Overall).
				Msg("merged same owner")
			return Outcome{Entity: match, Key: match.Base().LocationKey, Merged: true, Score: score}
		}
	}

	slip := r.registry.add(baseKey, e)
	if slip.Suffix != "" {
		r.logger.Debug().
			Str("base_key", baseKey).
			Str("suffix", slip.Suffix).
			Str("entity", e.Base().RefKey()).
			Msg("distinct owner at used key")
	}
	return Outcome{Entity: e, Key: e.Base().LocationKey, Suffix: slip.Suffix}
}

// bestMatch compares the entity against every owner registered at the base
// key and returns the highest overall scorer clearing the same-owner rule.
func (r *Resolver) bestMatch(baseKey string, e entity.Entity) (entity.Entity, similarity.Score) {
	var best entity.Entity
	var bestScore similarity.Score

	for _, slip := range r.registry.At(baseKey) {
		score := r.comparator.Compare(slip.Entity, e)
		if !score.SameOwner() {
			continue
		}
		if best == nil || score.Overall > bestScore.Overall {
			best = slip.Entity
			bestScore = score
		}
	}
	return best, bestScore
}

// merge folds the new entity into the matched owner: its source records
// join the subdivision ledger and any contact detail the owner was missing
// is taken from the new entity, so no data is discarded.
func (r *Resolver) merge(target, absorbed entity.Entity) {
	tc := target.Base()
	ac := absorbed.Base()

	for _, recID := range ac.Ledger {
		tc.AppendLedger(recID)
	}

	if tc.Contact.Email == "" {
		tc.Contact.Email = ac.Contact.Email
	}
	if tc.Contact.Phone == "" {
		tc.Contact.Phone = ac.Contact.Phone
	}
	for _, sec := range ac.Contact.Secondary {
		if !containsAddress(tc.Contact.Secondary, sec) {
			tc.Contact.Secondary = append(tc.Contact.Secondary, sec)
		}
	}
	for key, term := range ac.OtherInfo {
		if _, ok := tc.OtherInfo[key]; !ok {
			if tc.OtherInfo == nil {
				tc.OtherInfo = make(map[string]entity.AttributedTerm)
			}
			tc.OtherInfo[key] = term
		}
	}
}

func containsAddress(addrs []entity.Address, a entity.Address) bool {
	for _, existing := range addrs {
		if existing.Raw == a.Raw {
			return true
		}
	}
	return false
}
