package handler

import (
	"errors"
	"net/http"
	"strconv"

	"imani/internal/middleware"
	"imani/internal/models"
	"imani/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CauseHandler struct {
	causeRepo *repository.CauseRepository
}

func NewCauseHandler(causeRepo *repository.CauseRepository) *CauseHandler {
	return &CauseHandler{causeRepo: causeRepo}
}

type imageInput struct {
	URL      string `json:"url" binding:"required"`
	PublicID string `json:"public_id" binding:"required"`
}

func (h *CauseHandler) Create(c *gin.Context) {
	var req struct {
		Title       string       `json:"title" binding:"required"`
		Description string       `json:"description" binding:"required"`
		GoalAmount  int64        `json:"goal_amount" binding:"required,gt=0"`
		Images      []imageInput `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cause := &models.Cause{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Active:      true,
		CreatedBy:   middleware.GetUserID(c),
	}
	for _, img := range req.Images {
		cause.Images = append(cause.Images, models.CauseImage{URL: img.URL, PublicID: img.PublicID})
	}
	if err := h.causeRepo.Create(cause); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cause": cause})
}

// List returns all causes; ?active=true narrows to active ones (the public view).
func (h *CauseHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	list, err := h.causeRepo.List(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "causes": list})
}

func (h *CauseHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cause, err := h.causeRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cause not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cause": cause})
}

func (h *CauseHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cause, err := h.causeRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cause not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		GoalAmount  *int64  `json:"goal_amount"`
		Active      *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		cause.Title = *req.Title
	}
	if req.Description != nil {
		cause.Description = *req.Description
	}
	if req.GoalAmount != nil {
		cause.GoalAmount = *req.GoalAmount
	}
	if req.Active != nil {
		cause.Active = *req.Active
	}
	if err := h.causeRepo.Update(cause); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cause": cause})
}

func (h *CauseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.causeRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cause deleted"})
}

// AddImages attaches already-uploaded images to a cause.
func (h *CauseHandler) AddImages(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Images []imageInput `json:"images" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	images := make([]models.CauseImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, models.CauseImage{URL: img.URL, PublicID: img.PublicID})
	}
	if err := h.causeRepo.AddImages(uint(id), images); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "attach failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}
