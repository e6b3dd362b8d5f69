// Package export renders saved run documents into the CSV reports the
// outreach team consumes: a group roster and a one-row-per-group mailing
// list.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/townreach/ownermatch/internal/run"
)

// Exporter writes group and mailing-list CSVs for a run document.
type Exporter struct {
	logger zerolog.Logger
}

// NewExporter creates a new exporter.
func NewExporter(logger zerolog.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// ExportAll writes groups.csv and mailing_list.csv into outputDir.
func (e *Exporter) ExportAll(doc *run.Document, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := e.ExportGroups(doc, filepath.Join(outputDir, "groups.csv")); err != nil {
		return err
	}
	if err := e.ExportMailingList(doc, filepath.Join(outputDir, "mailing_list.csv")); err != nil {
		return err
	}

	e.logger.Info().
		Str("run_id", doc.RunID).
		Int("groups", len(doc.Groups)).
		Str("output_dir", outputDir).
		Msg("Export complete")
	return nil
}

// ExportGroups writes the full group roster: every group with its members,
// near-misses, phase history and collapse decision.
func (e *Exporter) ExportGroups(doc *run.Document, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"group_index", "founding_member_key", "member_keys", "near_miss_keys",
		"has_foreign_source_member", "phase", "connected", "collapse_label",
		"collapse_name", "mailing_address",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, g := range doc.Groups {
		row := []string{
			strconv.Itoa(g.Index),
			g.FoundingMemberKey,
			strings.Join(g.MemberKeys, ";"),
			strings.Join(g.NearMissKeys, ";"),
			strconv.FormatBool(g.HasForeignSourceMember),
			string(g.Phase),
			strconv.FormatBool(g.Connected),
			g.CollapseLabel,
			g.CollapseName,
			g.MailingAddress.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write group %d: %w", g.Index, err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	e.logger.Info().Int("groups", len(doc.Groups)).Str("path", path).Msg("Wrote group roster")
	return nil
}

// ExportMailingList writes one row per group: the collapse name and mailing
// address, the shape a mail-merge run expects.
func (e *Exporter) ExportMailingList(doc *run.Document, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"group_index", "name", "address", "collapse_label", "member_count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, g := range doc.Groups {
		row := []string{
			strconv.Itoa(g.Index),
			g.CollapseName,
			g.MailingAddress.String(),
			g.CollapseLabel,
			strconv.Itoa(len(g.MemberKeys)),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write group %d: %w", g.Index, err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	e.logger.Info().Int("rows", len(doc.Groups)).Str("path", path).Msg("Wrote mailing list")
	return nil
}
