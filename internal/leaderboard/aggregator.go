// Package leaderboard derives rankings from the submission history. The
// history is the only authority: nothing here is persisted, so a leaderboard
// can never go stale or be corrupted by a concurrent append. A submission
// that lands mid-aggregation simply shows up in the next computation.
package leaderboard

import (
	"sort"

	"gainboard/internal/models"
)

// Options controls one aggregation run.
type Options struct {
	// IncludeLate ranks submissions made after the competition deadline.
	// They are stored either way.
	IncludeLate bool
	// CountDuplicates counts duplicate submissions toward SubmissionCount.
	// Duplicates never contribute to best, latest or average gain.
	CountDuplicates bool
	// DatasetVersion, when set, excludes submissions scored against any
	// other master data version. Excluded submissions are returned so the
	// caller can flag them instead of silently mixing scores.
	DatasetVersion string
}

// Build computes the ranked per-user view. Users with no accepted submission
// do not appear. Ranking: best gain descending, ties broken by the earliest
// timestamp among the tied best submissions.
func Build(submissions []models.Submission, opts Options) ([]models.LeaderboardEntry, []models.Submission) {
	var stale []models.Submission
	byUser := make(map[uint][]models.Submission)
	names := make(map[uint]string)

	for _, sub := range submissions {
		if opts.DatasetVersion != "" && sub.DatasetVersion != opts.DatasetVersion {
			stale = append(stale, sub)
			continue
		}
		byUser[sub.UserID] = append(byUser[sub.UserID], sub)
		if sub.User.Name != "" {
			names[sub.UserID] = sub.User.Name
		}
	}

	var entries []models.LeaderboardEntry
	for userID, userSubs := range byUser {
		entry := buildEntry(userID, names[userID], userSubs, opts)
		if entry != nil {
			entries = append(entries, *entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].BestGain != entries[j].BestGain {
			return entries[i].BestGain > entries[j].BestGain
		}
		if !entries[i].BestSubmittedAt.Equal(entries[j].BestSubmittedAt) {
			return entries[i].BestSubmittedAt.Before(entries[j].BestSubmittedAt)
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, stale
}

func buildEntry(userID uint, name string, subs []models.Submission, opts Options) *models.LeaderboardEntry {
	var accepted []models.Submission
	count := 0

	for _, sub := range subs {
		if sub.Duplicate {
			if opts.CountDuplicates {
				count++
			}
			continue
		}
		count++
		if sub.AfterDeadline && !opts.IncludeLate {
			continue
		}
		accepted = append(accepted, sub)
	}

	if len(accepted) == 0 {
		return nil
	}

	best := accepted[0]
	latest := accepted[0]
	sum := 0.0
	for _, sub := range accepted {
		sum += sub.ActualGain
		if sub.ActualGain > best.ActualGain ||
			(sub.ActualGain == best.ActualGain && sub.SubmittedAt.Before(best.SubmittedAt)) {
			best = sub
		}
		if sub.SubmittedAt.After(latest.SubmittedAt) {
			latest = sub
		}
	}

	return &models.LeaderboardEntry{
		UserID:           userID,
		UserName:         name,
		SubmissionCount:  count,
		BestGain:         best.ActualGain,
		BestSubmissionID: best.ID,
		BestSubmittedAt:  best.SubmittedAt,
		LatestGain:       latest.ActualGain,
		AverageGain:      sum / float64(len(accepted)),
	}
}

// DuplicateGroups finds identical content submitted by more than one user.
// The same file resubmitted by a single user is that user's own duplicate and
// handled at evaluation time; shared content across users signals collusion
// and is only surfaced through this teacher-facing query.
func DuplicateGroups(submissions []models.Submission) []models.DuplicateGroup {
	byFingerprint := make(map[string][]models.Submission)
	for _, sub := range submissions {
		byFingerprint[sub.Fingerprint] = append(byFingerprint[sub.Fingerprint], sub)
	}

	var groups []models.DuplicateGroup
	for fingerprint, subs := range byFingerprint {
		users := make(map[uint]string)
		for _, sub := range subs {
			users[sub.UserID] = sub.User.Name
		}
		if len(users) < 2 {
			continue
		}

		group := models.DuplicateGroup{
			Fingerprint: fingerprint,
			Count:       len(subs),
		}
		userIDs := make([]uint, 0, len(users))
		for id := range users {
			userIDs = append(userIDs, id)
		}
		sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
		for _, id := range userIDs {
			group.UserIDs = append(group.UserIDs, id)
			group.UserNames = append(group.UserNames, users[id])
		}
		for _, sub := range subs {
			group.SubmissionIDs = append(group.SubmissionIDs, sub.ID)
			group.ModelNames = append(group.ModelNames, sub.ModelName)
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Fingerprint < groups[j].Fingerprint })
	return groups
}
