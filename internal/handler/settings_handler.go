package handler

import (
	"net/http"

	"imani/internal/domain"
	"imani/internal/middleware"
	"imani/internal/repository"
	"imani/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingRepo *repository.SettingRepository
	settingsSvc *service.SettingsService
}

func NewSettingsHandler(settingRepo *repository.SettingRepository, settingsSvc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingRepo: settingRepo, settingsSvc: settingsSvc}
}

// Secrets are never echoed back; the UI shows whether a value is set.
const maskValue = "********"

var maskedKeys = map[string]bool{
	"consumerKey":    true,
	"consumerSecret": true,
	"passKey":        true,
	"smtpPass":       true,
}

func validSettingType(t string) bool {
	switch t {
	case domain.SettingTypeGeneral, domain.SettingTypeMpesa, domain.SettingTypeEmail:
		return true
	}
	return false
}

// Get returns the effective configuration for a type, with secret values
// replaced by a set/unset marker.
func (h *SettingsHandler) Get(c *gin.Context) {
	settingType := c.Param("type")
	if !validSettingType(settingType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting type"})
		return
	}
	resolved, err := h.settingsSvc.Resolve(settingType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}
	out := make(map[string]string, len(resolved))
	for k, v := range resolved {
		if maskedKeys[k] {
			if v != "" {
				out[k] = maskValue
			} else {
				out[k] = ""
			}
			continue
		}
		out[k] = v
	}
	c.JSON(http.StatusOK, gin.H{"type": settingType, "settings": out})
}

// Update stores overrides for a type. Only the keys present in the payload
// change; an empty value clears the override back to the environment default.
func (h *SettingsHandler) Update(c *gin.Context) {
	settingType := c.Param("type")
	if !validSettingType(settingType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting type"})
		return
	}
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settings payload required"})
		return
	}
	known := h.settingsSvc.Defaults(settingType)
	operator := middleware.GetEmail(c)
	for key, value := range req {
		if _, ok := known[key]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting key: " + key})
			return
		}
		// Clients doing read-modify-write send the mask back for secrets they
		// did not change; treat it as untouched, never as a value.
		if maskedKeys[key] && value == maskValue {
			continue
		}
		if err := h.settingRepo.Set(settingType, key, value, operator); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings updated"})
}

// Reset drops all stored overrides for a type.
func (h *SettingsHandler) Reset(c *gin.Context) {
	settingType := c.Param("type")
	if !validSettingType(settingType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting type"})
		return
	}
	if err := h.settingRepo.Reset(settingType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings reset to defaults"})
}
