package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/townreach/ownermatch/internal/groups"
)

// header indexes a CSV header row by lowercased column name.
type header map[string]int

func readHeader(reader *csv.Reader) (header, error) {
	row, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	h := make(header, len(row))
	for i, col := range row {
		h[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return h, nil
}

// get returns the trimmed cell under the first matching column name.
func (h header) get(row []string, names ...string) string {
	for _, name := range names {
		if idx, ok := h[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
	}
	return ""
}

// LoadAssessorCSV reads the municipal assessor feed. Expected columns (by
// any of the listed names): record id, owner name, property location,
// mailing address, fire number, parcel id, assessed value.
func LoadAssessorCSV(path string) ([]Record, error) {
	return loadCSV(path, func(h header, row []string, line int) Record {
		return Record{
			SourceTag:     TagAssessor,
			RecordID:      defaultID(h.get(row, "record_id", "id"), TagAssessor, line),
			OwnerName:     h.get(row, "owner_name", "owner", "name"),
			LocationRaw:   h.get(row, "property_location", "location", "situs"),
			SecondaryRaw:  h.get(row, "mailing_address", "mail_address", "mailing"),
			FireNumber:    h.get(row, "fire_number", "fire_no"),
			ParcelID:      h.get(row, "parcel_id", "pid", "parcel"),
			AssessedValue: h.get(row, "assessed_value", "assessment", "total_value"),
		}
	})
}

// LoadDonorCSV reads the donor database export.
func LoadDonorCSV(path string) ([]Record, error) {
	return loadCSV(path, func(h header, row []string, line int) Record {
		return Record{
			SourceTag:    TagDonor,
			RecordID:     defaultID(h.get(row, "donor_id", "record_id", "id"), TagDonor, line),
			OwnerName:    h.get(row, "name", "donor_name", "owner_name"),
			LocationRaw:  h.get(row, "address", "street_address", "home_address"),
			SecondaryRaw: h.get(row, "mailing_address", "mailing"),
			FireNumber:   h.get(row, "fire_number", "fire_no"),
			ParcelID:     h.get(row, "parcel_id", "pid"),
			Email:        h.get(row, "email"),
			Phone:        h.get(row, "phone", "phone_number"),
			LegacyID:     h.get(row, "legacy_id", "prior_donor_id", "prior_id"),
		}
	})
}

func loadCSV(path string, build func(h header, row []string, line int) Record) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	h, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", path, line+1, err)
		}
		line++
		rec := build(h, row, line)
		if rec.OwnerName == "" && rec.LocationRaw == "" {
			continue // blank filler row
		}
		records = append(records, rec)
	}
	return records, nil
}

// defaultID falls back to a positional id when the feed has no id column.
func defaultID(id, tag string, line int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", tag, line)
}

// LoadOverridesCSV reads manual override rules: columns key_a, key_b,
// action (force_match or force_exclude). Keys are entity reference keys
// ("assessor:123", "donor:D-45").
func LoadOverridesCSV(path string) (*groups.OverrideSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	h, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	set := groups.NewOverrideSet()
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", path, line+1, err)
		}
		line++

		keyA := h.get(row, "key_a", "entity_a")
		keyB := h.get(row, "key_b", "entity_b")
		action := strings.ToLower(h.get(row, "action"))
		if keyA == "" || keyB == "" {
			continue
		}

		switch action {
		case string(groups.ForceMatch):
			set.Add(keyA, keyB, groups.ForceMatch)
		case string(groups.ForceExclude):
			set.Add(keyA, keyB, groups.ForceExclude)
		default:
			return nil, fmt.Errorf("unknown override action %q at %s line %d", action, path, line)
		}
	}
	return set, nil
}
