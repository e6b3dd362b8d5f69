package classify

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/normalize"
	"github.com/townreach/ownermatch/internal/source"
)

// ErrUnclassifiable marks a record whose owner-name field could not be
// turned into an entity. Callers count these per record and continue.
var ErrUnclassifiable = errors.New("unclassifiable owner name")

// Classifier turns raw owner-name strings into typed entities. Rules are
// held sorted by priority; the first matching rule's builder wins, and the
// catchall (business/legal construct from the joined tokens) applies when
// nothing matches.
type Classifier struct {
	rules  []Rule
	parser *normalize.AddressParser
	logger zerolog.Logger
}

// New creates a classifier with the default rule table.
func New(logger zerolog.Logger) *Classifier {
	return NewWithRules(logger, DefaultRules())
}

// NewWithRules creates a classifier with a custom rule table, used by rule
// tests. Rules are sorted ascending by priority.
func NewWithRules(logger zerolog.Logger, rules []Rule) *Classifier {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	return &Classifier{
		rules:  sorted,
		parser: normalize.NewAddressParser(),
		logger: logger.With().Str("component", "classifier").Logger(),
	}
}

// Classify builds a typed entity from the record's owner-name string. It
// is total with respect to malformed input: unmatched shapes fall through
// to the business/legal-construct catchall. A non-nil error means the
// selected builder could not honor its shape; the caller records that as a
// per-record classification failure and continues the batch.
func (c *Classifier) Classify(rawName string, rec source.Record) (e entity.Entity, err error) {
	defer func() {
		// A builder panic is a per-record failure, never batch-fatal.
		if r := recover(); r != nil {
			c.logger.Error().
				Str("record_id", rec.RecordID).
				Interface("panic", r).
				Msg("builder panicked")
			e = nil
			err = fmt.Errorf("%w: builder panicked on %q: %v", ErrUnclassifiable, rawName, r)
		}
	}()

	f := ComputeFeatures(rawName)
	if f.WordCount == 0 {
		return nil, fmt.Errorf("%w: empty owner name on record %s", ErrUnclassifiable, rec.RecordID)
	}

	var matched *Rule
	for i := range c.rules {
		if c.rules[i].When(f) {
			matched = &c.rules[i]
			break
		}
	}

	if matched != nil {
		e, err = matched.Build(f, rec)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %s: %w", ErrUnclassifiable, matched.Name, err)
		}
		c.logger.Debug().
			Str("record_id", rec.RecordID).
			Str("rule", matched.Name).
			Str("kind", string(e.Kind())).
			Msg("classified")
	} else {
		e, err = buildBusinessOrLegal(f, rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnclassifiable, err)
		}
		c.logger.Debug().
			Str("record_id", rec.RecordID).
			Str("rule", "catchall").
			Str("kind", string(e.Kind())).
			Msg("classified")
	}

	c.attachRecord(e, rec)
	return e, nil
}

// attachRecord fills in the shared location/contact/ledger state from the
// source record, including each household member.
func (c *Classifier) attachRecord(e entity.Entity, rec source.Record) {
	core := e.Base()
	core.LocationKey = rec.LocationKey()
	core.SourceTag = rec.SourceTag
	core.RecordID = rec.RecordID
	core.Ledger = []string{rec.RecordID}

	contact := entity.ContactInfo{
		Primary: c.parser.Parse(rec.LocationRaw),
		Email:   strings.TrimSpace(rec.Email),
		Phone:   strings.TrimSpace(rec.Phone),
	}
	if sec := strings.TrimSpace(rec.SecondaryRaw); sec != "" {
		contact.Secondary = append(contact.Secondary, c.parser.Parse(sec))
	}
	core.Contact = contact

	other := map[string]entity.AttributedTerm{}
	if rec.AssessedValue != "" {
		other["assessed_value"] = entity.NewTerm(rec.AssessedValue, rec.SourceTag, -1, rec.RecordID)
	}
	if rec.LegacyID != "" {
		other["legacy_id"] = entity.NewTerm(rec.LegacyID, rec.SourceTag, -1, rec.RecordID)
	}
	if len(other) > 0 {
		core.OtherInfo = other
	}

	if hh, ok := e.(*entity.AggregateHousehold); ok {
		for _, member := range hh.Members {
			member.LocationKey = core.LocationKey
			member.SourceTag = core.SourceTag
			member.RecordID = core.RecordID
			member.Contact = contact
		}
	}
}
