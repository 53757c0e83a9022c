package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"imani/internal/middleware"
	"imani/internal/models"
	"imani/internal/repository"
	"imani/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const galleryFolder = "imani/gallery"

// maxUploadSize caps a single multipart upload at 10 MiB per file.
const maxUploadSize = 10 << 20

type GalleryHandler struct {
	galleryRepo *repository.GalleryRepository
	images      cloudinary.Client
	cloudName   string
}

func NewGalleryHandler(galleryRepo *repository.GalleryRepository, images cloudinary.Client, cloudName string) *GalleryHandler {
	return &GalleryHandler{galleryRepo: galleryRepo, images: images, cloudName: cloudName}
}

// Upload accepts multipart files under the "images" field, pushes each to
// Cloudinary and records the resulting URLs.
func (h *GalleryHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	}
	userID := middleware.GetUserID(c)
	uploaded := make([]models.GalleryImage, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s exceeds the 10MB limit", fh.Filename)})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
		publicID := "img_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		url, err := h.images.UploadImage(c.Request.Context(), f, galleryFolder, publicID)
		f.Close()
		if err != nil {
			log.Printf("[gallery] upload %s: %v", fh.Filename, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		uploaded = append(uploaded, models.GalleryImage{
			URL:        url,
			PublicID:   galleryFolder + "/" + publicID,
			UploadedBy: userID,
		})
	}
	if err := h.galleryRepo.Create(uploaded); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"count": len(uploaded), "images": uploaded})
}

// galleryItem is a stored image plus a width-capped delivery URL for grid views.
type galleryItem struct {
	models.GalleryImage
	Thumbnail string `json:"thumbnail"`
}

func (h *GalleryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	list, err := h.galleryRepo.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	items := make([]galleryItem, 0, len(list))
	for _, img := range list {
		thumb := img.URL
		if h.cloudName != "" {
			thumb = cloudinary.OptimizedURL(h.cloudName, img.PublicID, 400)
		}
		items = append(items, galleryItem{GalleryImage: img, Thumbnail: thumb})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "images": items})
}

// Delete removes the Cloudinary asset first, then the row. A missing remote
// asset is not fatal; the row is removed regardless so the gallery stays
// consistent with what we can still serve.
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	img, err := h.galleryRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if err := h.images.DeleteImage(c.Request.Context(), img.PublicID); err != nil {
		log.Printf("[gallery] delete asset %s: %v", img.PublicID, err)
	}
	if err := h.galleryRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
