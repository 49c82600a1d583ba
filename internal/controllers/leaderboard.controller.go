package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"gainboard/internal/cache"
	"gainboard/internal/competition"
	"gainboard/internal/leaderboard"
	"gainboard/internal/repository"

	"github.com/gin-gonic/gin"
)

const leaderboardCacheTTL = 30 * time.Second

type LeaderboardController struct {
	repo     repository.SubmissionRepository
	registry *competition.Registry
	redis    *cache.RedisClient
}

func NewLeaderboardController(
	repo repository.SubmissionRepository,
	registry *competition.Registry,
	redis *cache.RedisClient,
) *LeaderboardController {
	return &LeaderboardController{
		repo:     repo,
		registry: registry,
		redis:    redis,
	}
}

// GetLeaderboard godoc
// @Summary Ranked per-user results for a competition
// @Description Best accepted gain per user, descending; ties go to the earlier submission. Duplicates count toward quota but never toward scores. Submissions scored against an older master dataset are excluded and reported.
// @Tags leaderboard
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Competition ID"
// @Param include_late query bool false "Rank submissions made after the deadline"
// @Success 200 {object} map[string]interface{} "Leaderboard computed successfully"
// @Failure 500 {object} map[string]interface{} "Competition cannot be scored"
// @Router /competitions/{id}/leaderboard [get]
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	competitionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid competition ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}
	includeLate := c.Query("include_late") == "true"

	// Aggregation is meaningless without a loaded master dataset; fail loudly.
	comp, err := lc.registry.Get(uint(competitionID))
	if err != nil {
		log.Printf("Loading competition %d failed: %v", competitionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Competition cannot be scored",
			"error":   err.Error(),
		})
		return
	}

	if lc.redis != nil {
		if entries, found, err := lc.redis.GetLeaderboard(comp.ID, includeLate); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"status":  "success",
				"message": "Leaderboard computed successfully",
				"data":    entries,
				"cached":  true,
			})
			return
		}
	}

	submissions, err := lc.repo.GetSubmissionsByCompetition(comp.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve submissions",
			"error":   err.Error(),
		})
		return
	}

	entries, stale := leaderboard.Build(submissions, leaderboard.Options{
		IncludeLate:     includeLate,
		CountDuplicates: true,
		DatasetVersion:  comp.DatasetVersion,
	})
	if len(stale) > 0 {
		log.Printf("Competition %d: %d submissions excluded, scored against a stale dataset version", comp.ID, len(stale))
	}

	if lc.redis != nil {
		if err := lc.redis.StoreLeaderboard(comp.ID, includeLate, entries, leaderboardCacheTTL); err != nil {
			log.Printf("Caching leaderboard for competition %d failed: %v", comp.ID, err)
		}
	}

	staleIDs := make([]uint, 0, len(stale))
	for _, sub := range stale {
		staleIDs = append(staleIDs, sub.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"message":        "Leaderboard computed successfully",
		"data":           entries,
		"stale_excluded": staleIDs,
	})
}
