package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"gainboard/internal/config"
	"gainboard/internal/evaluation"
	"gainboard/internal/models"
	"gainboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type CompetitionController struct {
	repo repository.CompetitionRepository
}

func NewCompetitionController(repo repository.CompetitionRepository) *CompetitionController {
	return &CompetitionController{repo: repo}
}

type CreateCompetitionForm struct {
	Name              string `form:"name" binding:"required"`
	Description       string `form:"description"`
	Deadline          string `form:"deadline" binding:"required"`
	ResultsRevealDate string `form:"results_reveal_date" binding:"required"`
	GainMatrix        string `form:"gain_matrix" binding:"required"`
	Thresholds        string `form:"thresholds"`
}

// CreateCompetition godoc
// @Summary Create a competition (teacher only)
// @Description Uploads the master dataset CSV together with the gain matrix and threshold configuration. Everything is immutable afterwards.
// @Tags competitions
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param name formData string true "Competition name"
// @Param deadline formData string true "Submission deadline (RFC 3339)"
// @Param results_reveal_date formData string true "When students may see actual gains (RFC 3339)"
// @Param gain_matrix formData string true "Gain matrix JSON {tp,tn,fp,fn}"
// @Param thresholds formData string false "Gain threshold tiers JSON"
// @Param master_data formData file true "Master dataset CSV (id,class with header)"
// @Success 201 {object} map[string]interface{} "Competition created"
// @Failure 400 {object} map[string]interface{} "Invalid configuration"
// @Failure 500 {object} map[string]interface{} "Failed to create competition"
// @Router /competitions [post]
func (cc *CompetitionController) CreateCompetition(c *gin.Context) {
	var form CreateCompetitionForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	deadline, err := config.ParseFlexibleTime(form.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid deadline",
			"error":   err.Error(),
		})
		return
	}
	revealAt, err := config.ParseFlexibleTime(form.ResultsRevealDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid results reveal date",
			"error":   err.Error(),
		})
		return
	}

	var gainMatrix evaluation.GainMatrix
	if err := json.Unmarshal([]byte(form.GainMatrix), &gainMatrix); err != nil || gainMatrix.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid gain matrix",
			"error":   "gain_matrix must be non-empty JSON with tp, tn, fp, fn weights",
		})
		return
	}

	if form.Thresholds != "" {
		var thresholds []evaluation.GainThreshold
		if err := json.Unmarshal([]byte(form.Thresholds), &thresholds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid gain thresholds",
				"error":   err.Error(),
			})
			return
		}
	}

	fileHeader, err := c.FormFile("master_data")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Master dataset CSV is required",
			"error":   err.Error(),
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Could not read master dataset",
			"error":   err.Error(),
		})
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Could not read master dataset",
			"error":   err.Error(),
		})
		return
	}

	// Reject an unparseable dataset now rather than at first submission.
	if _, err := evaluation.LoadMasterDataset(bytes.NewReader(raw)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid master dataset",
			"error":   err.Error(),
		})
		return
	}

	competition := &models.Competition{
		Name:            form.Name,
		Description:     form.Description,
		Deadline:        deadline,
		ResultsRevealAt: revealAt,
		DatasetVersion:  evaluation.DatasetVersion(raw),
		MasterData:      raw,
		GainMatrix:      form.GainMatrix,
		Thresholds:      form.Thresholds,
	}

	if err := cc.repo.CreateCompetition(competition); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create competition",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Competition created successfully",
		"data":    competition,
	})
}

// GetCompetition godoc
// @Summary Get competition info
// @Tags competitions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Competition ID"
// @Success 200 {object} map[string]interface{} "Competition retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Competition not found"
// @Router /competitions/{id} [get]
func (cc *CompetitionController) GetCompetition(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid competition ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	competition, err := cc.repo.GetCompetitionByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Competition not found",
			"error":   "No competition exists with the provided ID",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Competition retrieved successfully",
		"data":    competition,
	})
}

// ListCompetitions godoc
// @Summary List competitions
// @Tags competitions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "Competitions retrieved successfully"
// @Router /competitions [get]
func (cc *CompetitionController) ListCompetitions(c *gin.Context) {
	competitions, err := cc.repo.ListCompetitions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to list competitions",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Competitions retrieved successfully",
		"data":    competitions,
	})
}
