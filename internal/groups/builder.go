package groups

import (
	"github.com/rs/zerolog"

	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/similarity"
)

// Builder incrementally assembles EntityGroups. Seed one group per
// primary-source entity, then Place each secondary-source entity; matching
// is sequential over groups-so-far in index order, so processing the same
// batch twice yields identical groups. Builders are scoped to one run;
// construct a fresh one instead of reusing.
type Builder struct {
	comparator *similarity.Comparator
	overrides  *OverrideSet
	groups     []*EntityGroup
	// assigned maps entity key to group index, enforcing that a key joins
	// at most one group's members across the run.
	assigned map[string]int
	logger   zerolog.Logger
}

// NewBuilder creates a builder for one processing run. overrides may be
// nil when no manual rules are loaded.
func NewBuilder(comparator *similarity.Comparator, overrides *OverrideSet, logger zerolog.Logger) *Builder {
	if overrides == nil {
		overrides = NewOverrideSet()
	}
	return &Builder{
		comparator: comparator,
		overrides:  overrides,
		assigned:   make(map[string]int),
		logger:     logger.With().Str("component", "groups").Logger(),
	}
}

// Seed creates a new group founded by the given entity. Used for every
// primary-source entity and for secondary entities that match nothing.
func (b *Builder) Seed(e entity.Entity) *EntityGroup {
	g := newGroup(len(b.groups), e)
	b.groups = append(b.groups, g)
	b.assigned[e.Base().RefKey()] = g.Index
	return g
}

// Placement describes what Place did with an entity.
type Placement struct {
	Group *EntityGroup
	// Joined is true when the entity became a member; NearMiss when it
	// was recorded for review instead. Both false means a new singleton
	// group was seeded.
	Joined   bool
	NearMiss bool
	// Overridden is true when a manual rule decided the placement.
	Overridden bool
	Score      similarity.Score
}

// Place assigns a secondary-source entity: manual overrides first, then
// the best-scoring group. A same-owner score joins the group, a review-band
// score records a near miss, anything else seeds a new singleton group.
func (b *Builder) Place(e entity.Entity) Placement {
	key := e.Base().RefKey()
	if idx, ok := b.assigned[key]; ok {
		// Already a member somewhere; never double-assign.
		return Placement{Group: b.groups[idx], Joined: true}
	}

	if g := b.forcedGroup(key); g != nil {
		g.addMember(e)
		b.assigned[key] = g.Index
		b.logger.Debug().Str("entity", key).Int("group", g.Index).Msg("force-matched")
		return Placement{Group: g, Joined: true, Overridden: true}
	}

	best, bestScore := b.bestGroup(e)

	if best != nil && bestScore.SameOwner() {
		best.addMember(e)
		b.assigned[key] = best.Index
		return Placement{Group: best, Joined: true, Score: bestScore}
	}
	if best != nil && bestScore.NearMiss() {
		best.addNearMiss(e)
		g := b.Seed(e)
		b.logger.Debug().
			Str("entity", key).
			Int("near_group", best.Index).
			Float64("overall", bestScore.Overall).
			Msg("near miss retained for review")
		return Placement{Group: g, NearMiss: true, Score: bestScore}
	}

	return Placement{Group: b.Seed(e)}
}

// forcedGroup returns the group containing an entity force-matched with
// the given key, if any.
func (b *Builder) forcedGroup(key string) *EntityGroup {
	for _, g := range b.groups {
		for _, memberKey := range g.MemberKeys {
			if action, ok := b.overrides.Lookup(key, memberKey); ok && action == ForceMatch {
				return g
			}
		}
	}
	return nil
}

// bestGroup scores the entity against every group in index order, using
// the better of the founding member and the consensus representative, and
// skipping groups any member of which is force-excluded from this entity.
func (b *Builder) bestGroup(e entity.Entity) (*EntityGroup, similarity.Score) {
	key := e.Base().RefKey()

	var best *EntityGroup
	var bestScore similarity.Score

	for _, g := range b.groups {
		if b.excluded(key, g) {
			continue
		}

		score := b.comparator.Compare(g.Founder(), e)
		if len(g.MemberKeys) > 1 {
			if c := b.comparator.Compare(b.Consensus(g), e); c.Overall > score.Overall {
				score = c
			}
		}

		if best == nil || score.Overall > bestScore.Overall {
			best = g
			bestScore = score
		}
	}
	return best, bestScore
}

func (b *Builder) excluded(key string, g *EntityGroup) bool {
	for _, memberKey := range g.MemberKeys {
		if action, ok := b.overrides.Lookup(key, memberKey); ok && action == ForceExclude {
			return true
		}
	}
	return false
}

// Groups returns all groups in index order.
func (b *Builder) Groups() []*EntityGroup {
	return b.groups
}

// Group returns the group at the given index, or nil.
func (b *Builder) Group(index int) *EntityGroup {
	if index < 0 || index >= len(b.groups) {
		return nil
	}
	return b.groups[index]
}
