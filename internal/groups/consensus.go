package groups

import (
	"github.com/townreach/ownermatch/internal/entity"
)

// Consensus returns the group's synthesized best-representative entity,
// building it lazily from the members (never the near-misses). For every
// field the founding member's value wins when present, else the first
// non-empty value among the other members in join order. The result has
// the same structural shape as a plain member.
func (b *Builder) Consensus(g *EntityGroup) entity.Entity {
	if g.consensus != nil {
		return g.consensus
	}

	g.consensus = buildConsensus(g.members)
	g.setPhase(PhaseConsensusBuilt)
	return g.consensus
}

func buildConsensus(members []entity.Entity) entity.Entity {
	founder := members[0]

	var consensus entity.Entity
	switch f := founder.(type) {
	case *entity.Individual:
		clone := *f
		consensus = &clone
	case *entity.AggregateHousehold:
		clone := *f
		clone.Members = append([]*entity.Individual(nil), f.Members...)
		consensus = &clone
	case *entity.Business:
		clone := *f
		consensus = &clone
	case *entity.LegalConstruct:
		clone := *f
		consensus = &clone
	default:
		return founder
	}

	core := consensus.Base()
	core.Contact.Secondary = append([]entity.Address(nil), founder.Base().Contact.Secondary...)
	if len(founder.Base().OtherInfo) > 0 {
		core.OtherInfo = make(map[string]entity.AttributedTerm, len(founder.Base().OtherInfo))
		for k, v := range founder.Base().OtherInfo {
			core.OtherInfo[k] = v
		}
	}

	for _, member := range members[1:] {
		fillMissing(consensus, member)
	}
	return consensus
}

// fillMissing copies a member's values into the consensus wherever the
// consensus is still empty.
func fillMissing(consensus, member entity.Entity) {
	cc := consensus.Base()
	mc := member.Base()

	if cc.Contact.Primary.IsZero() {
		cc.Contact.Primary = mc.Contact.Primary
	}
	if cc.Contact.Email == "" {
		cc.Contact.Email = mc.Contact.Email
	}
	if cc.Contact.Phone == "" {
		cc.Contact.Phone = mc.Contact.Phone
	}
	for _, sec := range mc.Contact.Secondary {
		if !containsRaw(cc.Contact.Secondary, sec.Raw) {
			cc.Contact.Secondary = append(cc.Contact.Secondary, sec)
		}
	}
	for key, term := range mc.OtherInfo {
		if _, ok := cc.OtherInfo[key]; !ok {
			if cc.OtherInfo == nil {
				cc.OtherInfo = make(map[string]entity.AttributedTerm)
			}
			cc.OtherInfo[key] = term
		}
	}

	ci, ok := consensus.(*entity.Individual)
	if !ok {
		return
	}
	mi, ok := member.(*entity.Individual)
	if !ok {
		return
	}
	if ci.First.IsZero() {
		ci.First = mi.First
	}
	if ci.Middle.IsZero() {
		ci.Middle = mi.Middle
	}
	if ci.Last.IsZero() {
		ci.Last = mi.Last
	}
	if ci.Suffix.IsZero() {
		ci.Suffix = mi.Suffix
	}
	if ci.OtherNames.IsZero() {
		ci.OtherNames = mi.OtherNames
	}
}

func containsRaw(addrs []entity.Address, raw string) bool {
	for _, a := range addrs {
		if a.Raw == raw {
			return true
		}
	}
	return false
}
