package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"imani/internal/domain"
	"imani/internal/middleware"
	"imani/internal/models"
	"imani/internal/repository"
	"imani/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VisitationHandler struct {
	visitRepo *repository.VisitationRepository
	emailSvc  *service.EmailService
	notifyTo  string // staff address for visitation notices; empty disables them
}

func NewVisitationHandler(visitRepo *repository.VisitationRepository, emailSvc *service.EmailService, notifyTo string) *VisitationHandler {
	return &VisitationHandler{visitRepo: visitRepo, emailSvc: emailSvc, notifyTo: notifyTo}
}

type budgetInput struct {
	Transportation int64 `json:"transportation"`
	Food           int64 `json:"food"`
	Supplies       int64 `json:"supplies"`
	Gifts          int64 `json:"gifts"`
	Other          int64 `json:"other"`
}

func (h *VisitationHandler) Create(c *gin.Context) {
	var req struct {
		HomeName         string      `json:"home_name" binding:"required"`
		VisitDate        string      `json:"visit_date" binding:"required"`
		NumberOfChildren int         `json:"number_of_children" binding:"required,gt=0"`
		Status           string      `json:"status"`
		Notes            string      `json:"notes"`
		Budget           budgetInput `json:"budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = domain.VisitationStatusPlanned
	}
	v := &models.Visitation{
		HomeName:         req.HomeName,
		VisitDate:        req.VisitDate,
		NumberOfChildren: req.NumberOfChildren,
		Status:           req.Status,
		Notes:            req.Notes,
		Transportation:   req.Budget.Transportation,
		Food:             req.Budget.Food,
		Supplies:         req.Budget.Supplies,
		Gifts:            req.Budget.Gifts,
		Other:            req.Budget.Other,
		CreatedBy:        middleware.GetUserID(c),
	}
	v.Budget = v.TotalBudget()
	if err := h.visitRepo.Create(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if h.notifyTo != "" {
		if err := h.emailSvc.SendVisitationNotice(h.notifyTo, v); err != nil {
			log.Printf("[email] visitation notice for %q: %v", v.HomeName, err)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"visitation": v})
}

func (h *VisitationHandler) List(c *gin.Context) {
	var (
		list []models.Visitation
		err  error
	)
	if c.Query("mine") == "true" {
		list, err = h.visitRepo.ListByCreator(middleware.GetUserID(c))
	} else {
		list, err = h.visitRepo.List()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "visitations": list})
}

func (h *VisitationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	v, err := h.visitRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitation": v})
}

func (h *VisitationHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	v, err := h.visitRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	var req struct {
		HomeName         *string      `json:"home_name"`
		VisitDate        *string      `json:"visit_date"`
		NumberOfChildren *int         `json:"number_of_children"`
		Status           *string      `json:"status"`
		Notes            *string      `json:"notes"`
		Budget           *budgetInput `json:"budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.HomeName != nil {
		v.HomeName = *req.HomeName
	}
	if req.VisitDate != nil {
		v.VisitDate = *req.VisitDate
	}
	if req.NumberOfChildren != nil {
		v.NumberOfChildren = *req.NumberOfChildren
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.Notes != nil {
		v.Notes = *req.Notes
	}
	if req.Budget != nil {
		v.Transportation = req.Budget.Transportation
		v.Food = req.Budget.Food
		v.Supplies = req.Budget.Supplies
		v.Gifts = req.Budget.Gifts
		v.Other = req.Budget.Other
		v.Budget = v.TotalBudget()
	}
	if err := h.visitRepo.Update(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitation": v})
}

func (h *VisitationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.visitRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "visitation deleted"})
}

// AddImages attaches already-uploaded images to a visitation.
func (h *VisitationHandler) AddImages(c *gin.Context) {
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
	images := make([]models.VisitationImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, models.VisitationImage{URL: img.URL, PublicID: img.PublicID})
	}
	if err := h.visitRepo.AddImages(uint(id), images); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "attach failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}
