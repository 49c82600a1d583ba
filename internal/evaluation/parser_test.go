package evaluation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMaster(t *testing.T) *MasterDataset {
	t.Helper()
	md, err := LoadMasterDataset(strings.NewReader("id,clase_binaria\n1,0\n2,1\n3,0\n4,1\n"))
	assert.NoError(t, err)
	return md
}

func TestParsePredictions(t *testing.T) {
	md := testMaster(t)

	set, err := ParsePredictions([]byte("2\n4\n"), md)
	assert.NoError(t, err)
	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains(2))
	assert.True(t, set.Contains(4))
	assert.False(t, set.Contains(1))
}

func TestParsePredictionsEmptyFile(t *testing.T) {
	md := testMaster(t)

	// Zero predicted positives is a valid "all negative" submission.
	set, err := ParsePredictions([]byte(""), md)
	assert.NoError(t, err)
	assert.Equal(t, 0, set.Size())
}

func TestParsePredictionsSkipsEmptyLines(t *testing.T) {
	md := testMaster(t)

	set, err := ParsePredictions([]byte("\n2\n\n\n4\n\n"), md)
	assert.NoError(t, err)
	assert.Equal(t, 2, set.Size())
}

func TestParsePredictionsHandlesCRLF(t *testing.T) {
	md := testMaster(t)

	set, err := ParsePredictions([]byte("2\r\n4\r\n"), md)
	assert.NoError(t, err)
	assert.True(t, set.Contains(2))
	assert.True(t, set.Contains(4))
}

func TestParsePredictionsMalformedRow(t *testing.T) {
	md := testMaster(t)

	_, err := ParsePredictions([]byte("2\nnot-a-number\n4\n"), md)
	assert.Error(t, err)

	var malformed *MalformedRowError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Line)
	assert.Equal(t, "not-a-number", malformed.Value)
	assert.True(t, IsValidationError(err))
}

func TestParsePredictionsUnknownRecordID(t *testing.T) {
	md := testMaster(t)

	_, err := ParsePredictions([]byte("2\n5\n"), md)
	assert.Error(t, err)

	var unknown *UnknownRecordIDError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, 5, unknown.ID)
	assert.True(t, IsValidationError(err))
}

func TestParsePredictionsDuplicateRow(t *testing.T) {
	md := testMaster(t)

	// Intra-file duplicates are a user error, never silently collapsed.
	_, err := ParsePredictions([]byte("2\n4\n2\n"), md)
	assert.Error(t, err)

	var duplicate *DuplicateRowError
	assert.ErrorAs(t, err, &duplicate)
	assert.Equal(t, 2, duplicate.ID)
	assert.Equal(t, 3, duplicate.Line)
	assert.True(t, IsValidationError(err))
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(nil))
	assert.False(t, IsValidationError(&ConfigurationError{Reason: "x"}))
	assert.True(t, IsConfigurationError(&ConfigurationError{Reason: "x"}))
	assert.False(t, IsConfigurationError(&UnknownRecordIDError{ID: 1}))
}
