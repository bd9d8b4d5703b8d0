package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/images"
	"github.com/chargeconnect/charge-api/internal/middleware"
	"github.com/chargeconnect/charge-api/internal/models"
	"github.com/chargeconnect/charge-api/internal/storage"
)

const maxPhotoBytes = 8 << 20

type PhotoHandler struct {
	db       *gorm.DB
	uploader *storage.Uploader
}

func NewPhotoHandler(db *gorm.DB, uploader *storage.Uploader) *PhotoHandler {
	return &PhotoHandler{db: db, uploader: uploader}
}

// Upload accepts a JPEG/PNG for one of the provider's stations, converts it
// to webp and stores it in S3, saving the resulting URL on the station.
func (h *PhotoHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		httperr.Internal(c, "storage_not_configured", "Photo storage is not configured.")
		return
	}

	providerID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var station models.ChargingStation
	if err := h.db.Where("id = ? AND provider_id = ?", id, providerID).First(&station).Error; err != nil {
		httperr.NotFound(c, "station_not_found", "Station not found.")
		return
	}

	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "A photo file is required.")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		httperr.Internal(c, "failed_to_read_photo", "Could not read upload.")
		return
	}
	if len(raw) > maxPhotoBytes {
		httperr.BadRequest(c, "photo_too_large", "Photo exceeds the 8 MB limit.")
		return
	}

	encoded, err := images.ToWebP(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Photo must be a valid JPEG or PNG.")
		return
	}

	key := fmt.Sprintf("stations/%d/%d.webp", station.ID, time.Now().Unix())
	url, err := h.uploader.Upload(c.Request.Context(), key, encoded, "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_upload_photo", "Could not store photo.")
		return
	}

	station.PhotoURL = url
	if err := h.db.Save(&station).Error; err != nil {
		httperr.Internal(c, "failed_to_update_station", "Could not save photo URL.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
