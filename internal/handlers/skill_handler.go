package handlers

import (
	"net/http"
	"strconv"

	"circleed/internal/auth"
	"circleed/internal/models"
	"circleed/internal/services"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillService *services.SkillService
}

func NewSkillHandler(skillService *services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

// ListSkills returns skills matching optional query filters
// GET /api/v1/skills
func (h *SkillHandler) ListSkills(c *gin.Context) {
	filter := models.SkillFilter{
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Language: c.Query("language"),
		Search:   c.Query("search"),
	}

	skills, err := h.skillService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, skills)
}

// GetSkill returns a single skill
// GET /api/v1/skills/:id
func (h *SkillHandler) GetSkill(c *gin.Context) {
	skillID, ok := parseID(c)
	if !ok {
		return
	}

	skill, err := h.skillService.GetByID(c.Request.Context(), skillID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// CreateSkill lists a new skill owned by the caller
// POST /api/v1/skills
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skill, err := h.skillService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// UpdateSkill edits a listing owned by the caller
// PUT /api/v1/skills/:id
func (h *SkillHandler) UpdateSkill(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	skillID, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skill, err := h.skillService.Update(c.Request.Context(), userID, skillID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// DeleteSkill removes a listing owned by the caller
// DELETE /api/v1/skills/:id
func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	skillID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.skillService.Delete(c.Request.Context(), userID, skillID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Skill deleted successfully"})
}

// ListReviews returns all reviews for a skill
// GET /api/v1/skills/:id/reviews
func (h *SkillHandler) ListReviews(c *gin.Context) {
	skillID, ok := parseID(c)
	if !ok {
		return
	}

	reviews, err := h.skillService.ListReviews(c.Request.Context(), skillID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview reviews a skill and recomputes its aggregate rating
// POST /api/v1/skills/:id/reviews
func (h *SkillHandler) CreateReview(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	skillID, ok := parseID(c)
	if !ok {
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.skillService.AddReview(c.Request.Context(), userID, skillID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// parseID reads the :id path parameter; on failure it writes the 400 itself
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
