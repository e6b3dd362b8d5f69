package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/groups"
	"github.com/townreach/ownermatch/internal/run"
)

func sampleDocument() *run.Document {
	return &run.Document{
		RunID: "test-run",
		Groups: []run.GroupDoc{
			{
				Index:                  0,
				FoundingMemberKey:      "assessor:A1",
				MemberKeys:             []string{"assessor:A1", "donor:D1"},
				NearMissKeys:           []string{"donor:D7"},
				HasForeignSourceMember: true,
				Phase:                  groups.PhaseCollapsible,
				Connected:              true,
				CollapseLabel:          string(groups.LabelCollapsed),
				CollapseName:           "JONATHAN KASTNER",
				MailingAddress: entity.Address{
					Number: "45", Street: "RIVER ROAD", City: "MILLBROOK", State: "NH", Zip: "03299",
					Raw: "45 River Rd, Millbrook NH 03299",
				},
			},
			{
				Index:             1,
				FoundingMemberKey: "assessor:A2",
				MemberKeys:        []string{"assessor:A2"},
				Phase:             groups.PhaseNotCollapsible,
				CollapseLabel:     string(groups.LabelConsensusCollapse),
				CollapseName:      "PRISCILLA VOGELSANG",
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportGroups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groups.csv")

	exporter := NewExporter(zerolog.Nop())
	require.NoError(t, exporter.ExportGroups(sampleDocument(), path))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)

	assert.Equal(t, "group_index", rows[0][0])
	assert.Equal(t, []string{
		"0", "assessor:A1", "assessor:A1;donor:D1", "donor:D7",
		"true", "collapsible", "true", "collapsed",
		"JONATHAN KASTNER", "45 RIVER ROAD MILLBROOK NH 03299",
	}, rows[1])
	assert.Equal(t, "consensus_collapse", rows[2][7])
}

func TestExportMailingList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mailing_list.csv")

	exporter := NewExporter(zerolog.Nop())
	require.NoError(t, exporter.ExportMailingList(sampleDocument(), path))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"0", "JONATHAN KASTNER", "45 RIVER ROAD MILLBROOK NH 03299", "collapsed", "2"}, rows[1])
	assert.Equal(t, "1", rows[2][4], "one mailing row per group regardless of label")
}

func TestExportAllCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	exporter := NewExporter(zerolog.Nop())
	require.NoError(t, exporter.ExportAll(sampleDocument(), dir))

	assert.FileExists(t, filepath.Join(dir, "groups.csv"))
	assert.FileExists(t, filepath.Join(dir, "mailing_list.csv"))
}
