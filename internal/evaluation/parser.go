package evaluation

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// PredictionSet holds the record ids a submission predicts positive. Every id
// not in the set is implicitly predicted negative.
type PredictionSet map[int]struct{}

// ParsePredictions validates raw uploaded bytes against the master dataset
// and returns the predicted-positive set. The file must be a single column of
// integer ids, one per line, no header. Empty lines are ignored; an empty
// file is a valid "predict all negative" submission.
//
// Parsing is deterministic and side-effect-free. It fails with a typed
// validation error on the first malformed row, unknown id, or id repeated
// within the file.
func ParsePredictions(data []byte, master *MasterDataset) (PredictionSet, error) {
	set := make(PredictionSet)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		id, err := strconv.Atoi(text)
		if err != nil {
			return nil, &MalformedRowError{Line: line, Value: text}
		}

		if !master.Contains(id) {
			return nil, &UnknownRecordIDError{ID: id}
		}

		if _, seen := set[id]; seen {
			return nil, &DuplicateRowError{ID: id, Line: line}
		}
		set[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, &MalformedRowError{Line: line + 1, Value: "unreadable line"}
	}

	return set, nil
}

// Contains reports whether id is predicted positive.
func (p PredictionSet) Contains(id int) bool {
	_, ok := p[id]
	return ok
}

func (p PredictionSet) Size() int {
	return len(p)
}
