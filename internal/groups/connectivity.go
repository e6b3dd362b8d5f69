package groups

import (
	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/similarity"
)

// CollapseLabel distinguishes confident single-row collapses from the
// lower-confidence consensus fallback. Downstream mail-merge deduplication
// relies on the distinction.
type CollapseLabel string

const (
	// LabelCollapsed marks a contact-info-connected group collapsed with
	// the name-selection policy.
	LabelCollapsed CollapseLabel = "collapsed"
	// LabelConsensusCollapse marks a non-connected group still collapsed
	// to one row, using the consensus representation.
	LabelConsensusCollapse CollapseLabel = "consensus_collapse"
)

// CollapseDecision is the single mailing row a group collapses to.
type CollapseDecision struct {
	Connected bool
	Label     CollapseLabel
	// Name is the selected mailing name.
	Name string
	// Address is the selected mailing address.
	Address entity.Address
}

// ContactConnected runs the connectivity test: an undirected graph over
// the group's members with an edge wherever the pairwise contact score
// exceeds the connectivity threshold (including the PO-Box raw-string
// fallback), flood-filled from the first member. The group is connected
// iff every member is reached. Single-member groups are trivially
// connected.
func (b *Builder) ContactConnected(g *EntityGroup) bool {
	members := g.members
	n := len(members)
	if n <= 1 {
		return true
	}

	adjacent := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score := b.comparator.Compare(members[i], members[j])
			if score.Contact > similarity.ConnectivityThreshold {
				adjacent[i] = append(adjacent[i], j)
				adjacent[j] = append(adjacent[j], i)
			}
		}
	}

	reached := make([]bool, n)
	stack := []int{0}
	reached[0] = true
	count := 1
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adjacent[node] {
			if !reached[next] {
				reached[next] = true
				count++
				stack = append(stack, next)
			}
		}
	}
	return count == n
}

// Collapse reduces a group to one mailing row. Connected groups use the
// name-selection policy: the single Individual member's name when there is
// exactly one; the first of exactly two Individuals whose names clear the
// name threshold; else the consensus name. Non-connected groups fall back
// to a consensus collapse, distinctly labeled, rather than exploding into
// per-member rows.
func (b *Builder) Collapse(g *EntityGroup) CollapseDecision {
	connected := b.ContactConnected(g)
	consensus := b.Consensus(g)

	decision := CollapseDecision{
		Connected: connected,
		Address:   consensus.Base().Contact.MailingAddress(),
	}

	if !connected {
		decision.Label = LabelConsensusCollapse
		decision.Name = consensus.DisplayName()
		g.setPhase(PhaseNotCollapsible)
		return decision
	}

	decision.Label = LabelCollapsed
	decision.Name = b.collapseName(g, consensus)
	g.setPhase(PhaseCollapsible)
	return decision
}

func (b *Builder) collapseName(g *EntityGroup, consensus entity.Entity) string {
	var individuals []*entity.Individual
	for _, member := range g.members {
		if ind, ok := member.(*entity.Individual); ok {
			individuals = append(individuals, ind)
		}
	}

	switch len(individuals) {
	case 1:
		return individuals[0].DisplayName()
	case 2:
		score := b.comparator.Compare(individuals[0], individuals[1])
		if score.Name >= similarity.SameOwnerName {
			return individuals[0].DisplayName()
		}
	}
	return consensus.DisplayName()
}
