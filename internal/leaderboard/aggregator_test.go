package leaderboard

import (
	"testing"
	"time"

	"gainboard/internal/models"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func sub(id, userID uint, gain float64, offset time.Duration, mods ...func(*models.Submission)) models.Submission {
	s := models.Submission{
		UserID:         userID,
		CompetitionID:  1,
		ModelName:      "m",
		SubmittedAt:    baseTime.Add(offset),
		ActualGain:     gain,
		Fingerprint:    "fp",
		DatasetVersion: "v1",
		User:           models.User{Name: "user"},
	}
	s.ID = id
	for _, mod := range mods {
		mod(&s)
	}
	return s
}

func duplicate(ofID uint) func(*models.Submission) {
	return func(s *models.Submission) {
		s.Duplicate = true
		s.DuplicateOfID = &ofID
	}
}

func late(s *models.Submission) { s.AfterDeadline = true }

func TestBuildRanksByBestGain(t *testing.T) {
	subs := []models.Submission{
		sub(1, 10, 50.0, 0),
		sub(2, 10, 80.0, time.Hour),
		sub(3, 20, 95.0, 2*time.Hour),
		sub(4, 30, 10.0, 3*time.Hour),
	}

	entries, stale := Build(subs, Options{CountDuplicates: true})

	assert.Empty(t, stale)
	assert.Len(t, entries, 3)
	assert.Equal(t, uint(20), entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(10), entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, uint(30), entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)

	assert.InDelta(t, 80.0, entries[1].BestGain, 1e-9)
	assert.Equal(t, uint(2), entries[1].BestSubmissionID)
	assert.Equal(t, 2, entries[1].SubmissionCount)
	assert.InDelta(t, 80.0, entries[1].LatestGain, 1e-9)
	assert.InDelta(t, 65.0, entries[1].AverageGain, 1e-9)
}

func TestBuildTiesBreakOnEarliestBest(t *testing.T) {
	subs := []models.Submission{
		sub(1, 10, 80.0, 2*time.Hour),
		sub(2, 20, 80.0, time.Hour),
	}

	entries, _ := Build(subs, Options{})

	assert.Equal(t, uint(20), entries[0].UserID)
	assert.Equal(t, uint(10), entries[1].UserID)
}

func TestBuildTieWithinUserKeepsEarliestBest(t *testing.T) {
	subs := []models.Submission{
		sub(1, 10, 80.0, 2*time.Hour),
		sub(2, 10, 80.0, time.Hour),
	}

	entries, _ := Build(subs, Options{})

	assert.Equal(t, uint(2), entries[0].BestSubmissionID)
	assert.Equal(t, baseTime.Add(time.Hour), entries[0].BestSubmittedAt)
}

func TestBuildDuplicatesCountTowardQuotaOnly(t *testing.T) {
	subs := []models.Submission{
		sub(1, 10, 50.0, 0),
		sub(2, 10, 90.0, time.Hour, duplicate(1)),
	}

	entries, _ := Build(subs, Options{CountDuplicates: true})

	assert.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].SubmissionCount)
	// The duplicate's gain never reaches best, latest or average.
	assert.InDelta(t, 50.0, entries[0].BestGain, 1e-9)
	assert.InDelta(t, 50.0, entries[0].LatestGain, 1e-9)
	assert.InDelta(t, 50.0, entries[0].AverageGain, 1e-9)

	entries, _ = Build(subs, Options{CountDuplicates: false})
	assert.Equal(t, 1, entries[0].SubmissionCount)
}

func TestBuildUserWithOnlyDuplicatesIsHidden(t *testing.T) {
	subs := []models.Submission{
		sub(1, 10, 50.0, 0, duplicate(99)),
	}

	entries, _ := Build(subs, Options{CountDuplicates: true})
	assert.Empty(t, entries)
}

func TestBuildLateSubmissions(t *testing.T) {
	subs := []models.Submission{
		sub(1, 10, 50.0, 0),
		sub(2, 10, 90.0, time.Hour, late),
	}

	entries, _ := Build(subs, Options{})
	assert.InDelta(t, 50.0, entries[0].BestGain, 1e-9)
	assert.Equal(t, 2, entries[0].SubmissionCount)

	entries, _ = Build(subs, Options{IncludeLate: true})
	assert.InDelta(t, 90.0, entries[0].BestGain, 1e-9)
}

func TestBuildExcludesStaleDatasetVersions(t *testing.T) {
	fresh := sub(1, 10, 50.0, 0)
	old := sub(2, 20, 99.0, time.Hour)
	old.DatasetVersion = "v0"

	entries, stale := Build([]models.Submission{fresh, old}, Options{DatasetVersion: "v1"})

	assert.Len(t, entries, 1)
	assert.Equal(t, uint(10), entries[0].UserID)
	assert.Len(t, stale, 1)
	assert.Equal(t, uint(2), stale[0].ID)
}

func TestBuildIsDeterministic(t *testing.T) {
	subs := []models.Submission{
		sub(1, 10, 80.0, time.Hour),
		sub(2, 20, 80.0, time.Hour),
		sub(3, 30, 80.0, time.Hour),
	}

	first, _ := Build(subs, Options{})
	for i := 0; i < 20; i++ {
		again, _ := Build(subs, Options{})
		assert.Equal(t, first, again)
	}
	// Identical gain and timestamp fall back to user id order.
	assert.Equal(t, uint(10), first[0].UserID)
	assert.Equal(t, uint(20), first[1].UserID)
	assert.Equal(t, uint(30), first[2].UserID)
}

func TestDuplicateGroups(t *testing.T) {
	shared := func(fp string) func(*models.Submission) {
		return func(s *models.Submission) { s.Fingerprint = fp }
	}

	subs := []models.Submission{
		sub(1, 10, 50.0, 0, shared("aaa")),
		sub(2, 20, 50.0, time.Hour, shared("aaa")),
		sub(3, 30, 40.0, 2*time.Hour, shared("bbb")),
		sub(4, 30, 40.0, 3*time.Hour, shared("bbb")),
		sub(5, 40, 30.0, 4*time.Hour, shared("ccc")),
	}

	groups := DuplicateGroups(subs)

	// "bbb" is one user resubmitting their own file, "ccc" is unique.
	assert.Len(t, groups, 1)
	assert.Equal(t, "aaa", groups[0].Fingerprint)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []uint{10, 20}, groups[0].UserIDs)
	assert.ElementsMatch(t, []uint{1, 2}, groups[0].SubmissionIDs)
}

func TestDuplicateGroupsEmptyHistory(t *testing.T) {
	assert.Empty(t, DuplicateGroups(nil))
}
