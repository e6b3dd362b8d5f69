package run

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/groups"
	"github.com/townreach/ownermatch/internal/store"
)

// Document is the persisted form of a run: counts, failures and every
// group with its consensus entity and collapse decision. Stored as one
// opaque JSON document under the run id.
type Document struct {
	RunID     string     `json:"run_id"`
	StartedAt time.Time  `json:"started_at"`
	Counts    Counts     `json:"counts"`
	Failures  []Failure  `json:"failures,omitempty"`
	Groups    []GroupDoc `json:"groups"`
}

// GroupDoc is the persisted form of one EntityGroup.
type GroupDoc struct {
	Index                  int             `json:"index"`
	FoundingMemberKey      string          `json:"founding_member_key"`
	MemberKeys             []string        `json:"member_keys"`
	NearMissKeys           []string        `json:"near_miss_keys,omitempty"`
	HasForeignSourceMember bool            `json:"has_foreign_source_member"`
	Phase                  groups.Phase    `json:"phase"`
	PhaseLog               []groups.Phase  `json:"phase_log"`
	Consensus              json.RawMessage `json:"consensus"`
	Connected              bool            `json:"connected"`
	CollapseLabel          string          `json:"collapse_label"`
	CollapseName           string          `json:"collapse_name"`
	MailingAddress         entity.Address  `json:"mailing_address"`
}

// Document renders the result into its persistable form, building each
// group's consensus and collapse decision on the way.
func (res *Result) Document() (*Document, error) {
	doc := &Document{
		RunID:     res.RunID,
		StartedAt: res.StartedAt,
		Counts:    res.Counts,
		Failures:  res.Failures,
	}

	for _, g := range res.Builder.Groups() {
		decision := res.Builder.Collapse(g)

		consensusJSON, err := entity.Marshal(res.Builder.Consensus(g))
		if err != nil {
			return nil, fmt.Errorf("failed to encode consensus for group %d: %w", g.Index, err)
		}

		doc.Groups = append(doc.Groups, GroupDoc{
			Index:                  g.Index,
			FoundingMemberKey:      g.FoundingMemberKey,
			MemberKeys:             g.MemberKeys,
			NearMissKeys:           g.NearMissKeys,
			HasForeignSourceMember: g.HasForeignSourceMember,
			Phase:                  g.Phase,
			PhaseLog:               g.PhaseLog,
			Consensus:              consensusJSON,
			Connected:              decision.Connected,
			CollapseLabel:          string(decision.Label),
			CollapseName:           decision.Name,
			MailingAddress:         decision.Address,
		})
	}
	return doc, nil
}

// Save persists the run document under its run id.
func (res *Result) Save(ctx context.Context, st store.Store) error {
	doc, err := res.Document()
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode run document: %w", err)
	}
	if err := st.Save(ctx, "run:"+res.RunID, body); err != nil {
		return fmt.Errorf("failed to save run %s: %w", res.RunID, err)
	}
	return nil
}

// LoadDocument retrieves a saved run document by run id.
func LoadDocument(ctx context.Context, st store.Store, runID string) (*Document, error) {
	body, err := st.Load(ctx, "run:"+runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", runID, err)
	}
	return &doc, nil
}
