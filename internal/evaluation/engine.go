package evaluation

import (
	"fmt"
	"sync"
	"time"

	"gainboard/internal/models"
	"gainboard/internal/repository"
)

// CompetitionData is the loaded, immutable configuration one submission is
// scored against.
type CompetitionData struct {
	ID              uint
	Name            string
	Deadline        time.Time
	ResultsRevealAt time.Time
	DatasetVersion  string
	Master          *MasterDataset
	GainMatrix      GainMatrix
	Thresholds      []GainThreshold
}

// Validate rejects competitions that cannot score anything. A failure here is
// fatal for the competition, not for the submitter.
func (c *CompetitionData) Validate() error {
	if c.Master == nil || c.Master.Size() == 0 {
		return &ConfigurationError{Reason: "no master dataset loaded"}
	}
	if c.GainMatrix.IsZero() {
		return &ConfigurationError{Reason: "gain matrix is empty"}
	}
	return nil
}

// ResultsRevealed reports whether students may see actual gains yet.
// Teachers always see them.
func (c *CompetitionData) ResultsRevealed(now time.Time) bool {
	return !now.Before(c.ResultsRevealAt)
}

// EvaluateInput carries one upload through the pipeline.
type EvaluateInput struct {
	UserID       uint
	ModelName    string
	ExpectedGain float64
	Raw          []byte
	SubmittedAt  time.Time
	FilePath     string
}

// Report is the outcome of one accepted evaluation. Duplicate submissions
// still produce a report; the record is stored flagged and excluded from
// ranking.
type Report struct {
	Submission    *models.Submission
	Matrix        ConfusionMatrix
	Gain          float64
	Tier          GainThreshold
	Duplicate     bool
	DuplicateOf   *models.Submission
	AfterDeadline bool
}

// Evaluator runs the parse, dedup, score, categorize, persist pipeline.
// Evaluations for the same (user, competition) pair are serialized so two
// concurrent identical uploads cannot both pass the duplicate gate; different
// pairs run fully in parallel.
type Evaluator struct {
	store repository.SubmissionRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEvaluator(store repository.SubmissionRepository) *Evaluator {
	return &Evaluator{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (e *Evaluator) pairLock(userID, competitionID uint) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := fmt.Sprintf("%d/%d", competitionID, userID)
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	return lock
}

// EvaluateSubmission scores one upload. Validation failures reject the upload
// with nothing persisted; a store failure after scoring is returned to the
// caller so the append can be retried. Persistence is all-or-nothing.
func (e *Evaluator) EvaluateSubmission(comp *CompetitionData, in EvaluateInput) (*Report, error) {
	if err := comp.Validate(); err != nil {
		return nil, err
	}

	predicted, err := ParsePredictions(in.Raw, comp.Master)
	if err != nil {
		return nil, err
	}

	matrix := BuildConfusionMatrix(predicted, comp.Master)
	gain := Gain(matrix, comp.GainMatrix)
	tier := ClassifyGain(gain, comp.Thresholds)
	fingerprint := predicted.Fingerprint()
	afterDeadline := in.SubmittedAt.After(comp.Deadline)

	// Duplicate lookup and append must not race for the same pair.
	lock := e.pairLock(in.UserID, comp.ID)
	lock.Lock()
	defer lock.Unlock()

	prior, err := e.store.FindEarliestByFingerprint(in.UserID, comp.ID, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("duplicate lookup failed: %w", err)
	}

	submission := &models.Submission{
		UserID:             in.UserID,
		CompetitionID:      comp.ID,
		ModelName:          in.ModelName,
		SubmittedAt:        in.SubmittedAt,
		ExpectedGain:       in.ExpectedGain,
		ActualGain:         gain,
		TP:                 matrix.TP,
		TN:                 matrix.TN,
		FP:                 matrix.FP,
		FN:                 matrix.FN,
		PositivesPredicted: predicted.Size(),
		Fingerprint:        fingerprint,
		FilePath:           in.FilePath,
		Category:           tier.Category,
		DatasetVersion:     comp.DatasetVersion,
		AfterDeadline:      afterDeadline,
	}
	if prior != nil {
		submission.Duplicate = true
		submission.DuplicateOfID = &prior.ID
	}

	if err := e.store.SaveSubmission(submission); err != nil {
		return nil, fmt.Errorf("saving submission: %w", err)
	}

	return &Report{
		Submission:    submission,
		Matrix:        matrix,
		Gain:          gain,
		Tier:          tier,
		Duplicate:     prior != nil,
		DuplicateOf:   prior,
		AfterDeadline: afterDeadline,
	}, nil
}
