package evaluation

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// MasterDataset is the ground truth for one competition: record id to true
// binary class. Loaded once at competition creation and immutable afterwards,
// so it can be shared across concurrent evaluations without locking.
type MasterDataset struct {
	classes   map[int]bool
	positives int
}

// LoadMasterDataset reads a two-column CSV (id, binary class) with a header
// row. A class value of 1 is positive, anything else negative. Every id must
// appear exactly once.
func LoadMasterDataset(r io.Reader) (*MasterDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading master data CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("master data CSV has no data rows")
	}

	md := &MasterDataset{classes: make(map[int]bool, len(records)-1)}

	// Skip the header row.
	for i, record := range records[1:] {
		line := i + 2
		if len(record) < 2 {
			return nil, fmt.Errorf("master data line %d: expected at least 2 columns (id, class)", line)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("master data line %d: invalid id %q", line, record[0])
		}

		class, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("master data line %d: invalid class %q", line, record[1])
		}

		if _, exists := md.classes[id]; exists {
			return nil, fmt.Errorf("master data line %d: id %d appears more than once", line, id)
		}

		md.classes[id] = class == 1
		if class == 1 {
			md.positives++
		}
	}

	return md, nil
}

// Contains reports whether id exists in the dataset.
func (m *MasterDataset) Contains(id int) bool {
	_, ok := m.classes[id]
	return ok
}

// IsPositive reports the true class of id. Ids not in the dataset are
// reported negative; callers validate membership first.
func (m *MasterDataset) IsPositive(id int) bool {
	return m.classes[id]
}

func (m *MasterDataset) Size() int {
	return len(m.classes)
}

func (m *MasterDataset) PositiveCount() int {
	return m.positives
}

// DatasetVersion is the digest of the raw master data blob. Submissions carry
// the version they were scored against so stale scores can never be mixed
// into a current leaderboard.
func DatasetVersion(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
