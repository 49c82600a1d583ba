package controllers

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gainboard/internal/cache"
	"gainboard/internal/competition"
	"gainboard/internal/evaluation"
	"gainboard/internal/leaderboard"
	"gainboard/internal/models"
	"gainboard/internal/repository"
	"gainboard/internal/services"
	"gainboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	repo       repository.SubmissionRepository
	userRepo   repository.UserRepository
	registry   *competition.Registry
	evaluator  *evaluation.Evaluator
	notifier   *services.ScoreNotifier
	redis      *cache.RedisClient
	archiveDir string
}

func NewSubmissionController(
	repo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	registry *competition.Registry,
	evaluator *evaluation.Evaluator,
	notifier *services.ScoreNotifier,
	redis *cache.RedisClient,
	archiveDir string,
) *SubmissionController {
	return &SubmissionController{
		repo:       repo,
		userRepo:   userRepo,
		registry:   registry,
		evaluator:  evaluator,
		notifier:   notifier,
		redis:      redis,
		archiveDir: archiveDir,
	}
}

// SubmitPrediction godoc
// @Summary Submit a prediction file for scoring
// @Description Uploads a single-column CSV of predicted-positive record ids. The file is validated, scored against the master dataset, checked for duplicates and recorded.
// @Tags submissions
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Competition ID"
// @Param model_name formData string true "Name of the submitted model"
// @Param expected_gain formData number false "Gain the submitter expects"
// @Param file formData file true "Prediction CSV"
// @Success 200 {object} map[string]interface{} "Submission scored"
// @Failure 400 {object} map[string]interface{} "Invalid submission file"
// @Failure 500 {object} map[string]interface{} "Competition misconfigured or store failure"
// @Router /competitions/{id}/submissions [post]
func (sc *SubmissionController) SubmitPrediction(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized access",
		})
		return
	}

	competitionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid competition ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	var upload models.SubmissionUpload
	if err := c.ShouldBind(&upload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "A prediction CSV must be attached",
			"error":   err.Error(),
		})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "The attached file must be a CSV",
			"error":   "Unsupported file extension",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Could not read the attached file",
			"error":   err.Error(),
		})
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Could not read the attached file",
			"error":   err.Error(),
		})
		return
	}

	comp, err := sc.registry.Get(uint(competitionID))
	if err != nil {
		log.Printf("Loading competition %d failed: %v", competitionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Competition is not available for scoring",
			"error":   err.Error(),
		})
		return
	}

	user, err := sc.userRepo.GetUserByID(userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "User not found",
			"error":   err.Error(),
		})
		return
	}

	// Archive the raw upload before scoring; the file is the audit trail.
	filePath := ""
	if sc.archiveDir != "" {
		filePath, err = utils.ArchiveSubmissionFile(sc.archiveDir, user.Name, upload.ModelName, fileHeader.Filename, raw, user.IsTeacher())
		if err != nil {
			log.Printf("Archiving submission for user %d failed: %v", user.ID, err)
		}
	}

	report, err := sc.evaluator.EvaluateSubmission(comp, evaluation.EvaluateInput{
		UserID:       user.ID,
		ModelName:    upload.ModelName,
		ExpectedGain: upload.ExpectedGain,
		Raw:          raw,
		SubmittedAt:  time.Now().UTC(),
		FilePath:     filePath,
	})
	if err != nil {
		switch {
		case evaluation.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid submission file",
				"error":   err.Error(),
			})
		case evaluation.IsConfigurationError(err):
			log.Printf("Competition %d misconfigured: %v", comp.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Competition is misconfigured; contact an operator",
				"error":   err.Error(),
			})
		default:
			log.Printf("Evaluating submission for user %d failed: %v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to record the submission, please retry",
				"error":   err.Error(),
			})
		}
		return
	}

	sc.notifier.NotifyScored(report.Submission)

	if sc.redis != nil && !report.Duplicate {
		if err := sc.redis.InvalidateLeaderboard(comp.ID); err != nil {
			log.Printf("Invalidating leaderboard cache for competition %d failed: %v", comp.ID, err)
		}
	}

	revealed := user.IsTeacher() || comp.ResultsRevealed(time.Now().UTC())

	response := gin.H{
		"submission_id":  report.Submission.ID,
		"model_name":     report.Submission.ModelName,
		"expected_gain":  report.Submission.ExpectedGain,
		"category":       report.Tier.Category,
		"category_text":  report.Tier.Message,
		"gif":            utils.PickGIF(report.Tier.GIFs),
		"duplicate":      report.Duplicate,
		"after_deadline": report.AfterDeadline,
	}
	if report.DuplicateOf != nil {
		response["duplicate_of_id"] = report.DuplicateOf.ID
	}
	if revealed {
		response["actual_gain"] = report.Gain
		response["confusion_matrix"] = report.Matrix
		response["positives_predicted"] = report.Submission.PositivesPredicted
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Submission scored successfully",
		"data":    response,
	})
}

// GetMySubmissions godoc
// @Summary List the caller's submissions for a competition
// @Description Chronological history. Actual gains appear once results are revealed, or immediately for teachers.
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Competition ID"
// @Success 200 {object} map[string]interface{} "Submissions retrieved successfully"
// @Router /competitions/{id}/submissions/me [get]
func (sc *SubmissionController) GetMySubmissions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized access",
		})
		return
	}

	competitionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid competition ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	submissions, err := sc.repo.GetSubmissionsByUserAndCompetition(userID.(uint), uint(competitionID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve submissions",
			"error":   err.Error(),
		})
		return
	}

	revealed := false
	if role, ok := c.Get("role"); ok && role == models.RoleTeacher {
		revealed = true
	} else if comp, err := sc.registry.Get(uint(competitionID)); err == nil {
		revealed = comp.ResultsRevealed(time.Now().UTC())
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Submissions retrieved successfully",
		"data":    submissionRows(submissions, revealed),
	})
}

// GetUserSubmissions godoc
// @Summary List any user's submissions (teacher only)
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Competition ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]interface{} "Submissions retrieved successfully"
// @Router /competitions/{id}/submissions/user/{user_id} [get]
func (sc *SubmissionController) GetUserSubmissions(c *gin.Context) {
	competitionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid competition ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid user ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	submissions, err := sc.repo.GetSubmissionsByUserAndCompetition(uint(targetID), uint(competitionID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve submissions",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Submissions retrieved successfully",
		"data":    submissionRows(submissions, true),
	})
}

// GetAllSubmissions godoc
// @Summary List every submission in a competition (teacher only)
// @Description Paginated, newest first.
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Competition ID"
// @Param page query int false "Page number, starting at 1" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} map[string]interface{} "Submissions retrieved successfully"
// @Router /competitions/{id}/submissions [get]
func (sc *SubmissionController) GetAllSubmissions(c *gin.Context) {
	competitionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid competition ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}

	submissions, total, err := sc.repo.GetSubmissionsByCompetitionPaged(uint(competitionID), limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve submissions",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Submissions retrieved successfully",
		"data":    submissionRows(submissions, true),
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetDuplicates godoc
// @Summary Report identical content shared across users (teacher only)
// @Description Groups submissions by fingerprint and reports every fingerprint submitted by more than one user.
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Competition ID"
// @Success 200 {object} map[string]interface{} "Duplicate groups retrieved successfully"
// @Router /competitions/{id}/duplicates [get]
func (sc *SubmissionController) GetDuplicates(c *gin.Context) {
	competitionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid competition ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	submissions, err := sc.repo.GetSubmissionsByCompetition(uint(competitionID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve submissions",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Duplicate groups retrieved successfully",
		"data":    leaderboard.DuplicateGroups(submissions),
	})
}

// submissionRows hides score details until results are revealed. Students see
// their declared expectation and the category; teachers see everything.
func submissionRows(submissions []models.Submission, revealed bool) []gin.H {
	rows := make([]gin.H, 0, len(submissions))
	for _, sub := range submissions {
		row := gin.H{
			"id":             sub.ID,
			"user_id":        sub.UserID,
			"model_name":     sub.ModelName,
			"submitted_at":   sub.SubmittedAt,
			"expected_gain":  sub.ExpectedGain,
			"category":       sub.Category,
			"duplicate":      sub.Duplicate,
			"after_deadline": sub.AfterDeadline,
		}
		if revealed {
			row["actual_gain"] = sub.ActualGain
			row["confusion_matrix"] = evaluation.ConfusionMatrix{TP: sub.TP, TN: sub.TN, FP: sub.FP, FN: sub.FN}
			row["positives_predicted"] = sub.PositivesPredicted
			row["fingerprint"] = sub.Fingerprint
		}
		rows = append(rows, row)
	}
	return rows
}
