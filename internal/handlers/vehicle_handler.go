package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/httpresp"
	"github.com/chargeconnect/charge-api/internal/middleware"
	"github.com/chargeconnect/charge-api/internal/models"
)

type VehicleHandler struct {
	db *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{db: db}
}

type VehicleRequest struct {
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
	ChargerType  string `json:"charger_type" binding:"required"`
}

func (h *VehicleHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(uint)

	var vehicles []models.Vehicle
	if err := h.db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&vehicles).Error; err != nil {
		httperr.Internal(c, "failed_to_list_vehicles", "Could not load vehicles.")
		return
	}

	httpresp.List(c, vehicles)
}

func (h *VehicleHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(uint)

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if !models.IsValidConnectorType(req.ChargerType) {
		httperr.BadRequest(c, "invalid_charger_type", "Unknown charger type.")
		return
	}

	vehicle := models.Vehicle{
		OwnerID:      ownerID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		ChargerType:  req.ChargerType,
	}

	if err := h.db.Create(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "license_plate_taken", "License plate already registered.")
			return
		}
		httperr.Internal(c, "failed_to_create_vehicle", "Could not register vehicle.")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := h.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&vehicle).Error; err != nil {
		httperr.NotFound(c, "vehicle_not_found", "Vehicle not found.")
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if !models.IsValidConnectorType(req.ChargerType) {
		httperr.BadRequest(c, "invalid_charger_type", "Unknown charger type.")
		return
	}

	vehicle.Make = req.Make
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.LicensePlate = req.LicensePlate
	vehicle.ChargerType = req.ChargerType

	if err := h.db.Save(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "license_plate_taken", "License plate already registered.")
			return
		}
		httperr.Internal(c, "failed_to_update_vehicle", "Could not update vehicle.")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	res := h.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Vehicle{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_vehicle", "Could not delete vehicle.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "vehicle_not_found", "Vehicle not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "vehicle_deleted"})
}
