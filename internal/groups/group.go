// Package groups assembles canonical entity groups across sources: the
// cross-source deduplication layer that folds assessor and donor entities
// believed to be the same real-world owner into one EntityGroup.
package groups

import (
	"github.com/townreach/ownermatch/internal/entity"
)

// Phase tracks where a group is in its lifecycle, recorded for audit.
// Groups have no terminal closed state; they stay mutable for the life of
// a processing run.
type Phase string

const (
	PhaseSeeded         Phase = "seeded"
	PhaseGrowing        Phase = "growing"
	PhaseConsensusBuilt Phase = "consensus_built"
	PhaseCollapsible    Phase = "collapsible"
	PhaseNotCollapsible Phase = "not_collapsible"
)

// EntityGroup is the canonical output unit: a cluster of entity keys
// confirmed to be one real-world owner, plus the near-misses retained for
// human review.
type EntityGroup struct {
	// Index is the stable integer id, assigned in seeding order.
	Index int
	// FoundingMemberKey is the entity that created the group. Always a
	// member.
	FoundingMemberKey string
	// MemberKeys are the confirmed same-owner entity keys, founding
	// member first, in join order. Set semantics: no duplicates, and a
	// key belongs to at most one group across a run.
	MemberKeys []string
	// NearMissKeys scored in the review band against this group. They are
	// informational only: never part of consensus or collapse decisions.
	NearMissKeys []string
	// HasForeignSourceMember is set when any member came from the
	// secondary (donor) source.
	HasForeignSourceMember bool
	// Phase is the current lifecycle phase; PhaseLog records every phase
	// the group has passed through.
	Phase    Phase
	PhaseLog []Phase

	members   []entity.Entity
	consensus entity.Entity
}

func newGroup(index int, founder entity.Entity) *EntityGroup {
	g := &EntityGroup{
		Index:                  index,
		FoundingMemberKey:      founder.Base().RefKey(),
		MemberKeys:             []string{founder.Base().RefKey()},
		HasForeignSourceMember: founder.Base().Foreign(),
		members:                []entity.Entity{founder},
	}
	g.setPhase(PhaseSeeded)
	return g
}

func (g *EntityGroup) setPhase(p Phase) {
	g.Phase = p
	g.PhaseLog = append(g.PhaseLog, p)
}

// addMember joins an entity to the group. The consensus cache is dropped
// since membership changed.
func (g *EntityGroup) addMember(e entity.Entity) {
	key := e.Base().RefKey()
	for _, existing := range g.MemberKeys {
		if existing == key {
			return
		}
	}
	g.MemberKeys = append(g.MemberKeys, key)
	g.members = append(g.members, e)
	if e.Base().Foreign() {
		g.HasForeignSourceMember = true
	}
	g.consensus = nil
	g.setPhase(PhaseGrowing)
}

// addNearMiss records an entity that scored close to but below the
// same-owner rule against this group.
func (g *EntityGroup) addNearMiss(e entity.Entity) {
	key := e.Base().RefKey()
	for _, existing := range g.NearMissKeys {
		if existing == key {
			return
		}
	}
	g.NearMissKeys = append(g.NearMissKeys, key)
}

// Members returns the member entities in join order, founder first.
func (g *EntityGroup) Members() []entity.Entity {
	return g.members
}

// Founder returns the founding member entity.
func (g *EntityGroup) Founder() entity.Entity {
	return g.members[0]
}
