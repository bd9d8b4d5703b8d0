package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chargeconnect/charge-api/internal/cache"
	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/geo"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/httpresp"
	"github.com/chargeconnect/charge-api/internal/middleware"
	"github.com/chargeconnect/charge-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type StationHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewStationHandler(db *gorm.DB, cache *cache.Cache) *StationHandler {
	return &StationHandler{db: db, cache: cache}
}

// ======================================================
// REQUESTS
// ======================================================

type StationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	PricePerHour  float64 `json:"price_per_hour"`
	PowerOutput   float64 `json:"power_output"`
	ConnectorType string  `json:"connector_type" binding:"required"`

	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
}

type StationStatusRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (r *StationRequest) validate() (string, string) {
	if r.PricePerHour < 0 {
		return "invalid_price", "Price per hour must be zero or positive."
	}
	if r.PowerOutput < 0 {
		return "invalid_power", "Power output must be zero or positive."
	}
	if !models.IsValidConnectorType(r.ConnectorType) {
		return "invalid_connector_type", "Unknown connector type."
	}
	if r.Latitude < -90 || r.Latitude > 90 || r.Longitude < -180 || r.Longitude > 180 {
		return "invalid_coordinates", "Coordinates out of range."
	}
	return "", ""
}

// ======================================================
// PUBLIC
// ======================================================

// List returns available stations, newest first. Read-through cached.
func (h *StationHandler) List(c *gin.Context) {
	if stations, ok := h.cache.GetStations(c.Request.Context(), "all"); ok {
		httpresp.List(c, stations)
		return
	}

	var stations []models.ChargingStation
	if err := h.db.
		Preload("Provider").
		Where("available = ?", true).
		Order("created_at DESC").
		Find(&stations).Error; err != nil {
		httperr.Internal(c, "failed_to_list_stations", "Could not load stations.")
		return
	}

	h.cache.SetStations(c.Request.Context(), "all", stations)
	httpresp.List(c, stations)
}

// Search filters available stations by connector type, minimum power,
// maximum price and city/state substring.
func (h *StationHandler) Search(c *gin.Context) {
	cacheKey := "search:" + c.Request.URL.RawQuery
	if stations, ok := h.cache.GetStations(c.Request.Context(), cacheKey); ok {
		httpresp.List(c, stations)
		return
	}

	q := h.db.Model(&models.ChargingStation{}).
		Preload("Provider").
		Where("available = ?", true)

	if ct := c.Query("connector_type"); ct != "" {
		q = q.Where("connector_type = ?", ct)
	}
	if minPower := c.Query("min_power"); minPower != "" {
		v, err := strconv.ParseFloat(minPower, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_min_power", "min_power must be a number.")
			return
		}
		q = q.Where("power_output >= ?", v)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		v, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_max_price", "max_price must be a number.")
			return
		}
		q = q.Where("price_per_hour <= ?", v)
	}
	if city := c.Query("city"); city != "" {
		q = q.Where("city ILIKE ?", "%"+city+"%")
	}
	if state := c.Query("state"); state != "" {
		q = q.Where("state ILIKE ?", "%"+state+"%")
	}

	var stations []models.ChargingStation
	if err := q.Order("created_at DESC").Find(&stations).Error; err != nil {
		httperr.Internal(c, "failed_to_search_stations", "Could not search stations.")
		return
	}

	h.cache.SetStations(c.Request.Context(), cacheKey, stations)
	httpresp.List(c, stations)
}

// Near returns available stations within a radius of a point, closest first.
func (h *StationHandler) Near(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_lat", "lat is required and must be a number.")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_lng", "lng is required and must be a number.")
		return
	}

	radius := float64(geo.DefaultRadiusMeters)
	if r := c.Query("radius"); r != "" {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil || v <= 0 {
			httperr.BadRequest(c, "invalid_radius", "radius must be a positive number.")
			return
		}
		radius = v
	}

	cacheKey := "near:" + c.Request.URL.RawQuery
	if stations, ok := h.cache.GetStations(c.Request.Context(), cacheKey); ok {
		httpresp.List(c, stations)
		return
	}

	var stations []models.ChargingStation
	if err := h.db.
		Preload("Provider").
		Where("available = ?", true).
		Where(geo.DistanceSQL+" <= ?", lat, lng, lat, radius).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                geo.DistanceSQL + " ASC",
			Vars:               []interface{}{lat, lng, lat},
			WithoutParentheses: true,
		}}).
		Find(&stations).Error; err != nil {
		httperr.Internal(c, "failed_to_search_stations", "Could not search stations.")
		return
	}

	h.cache.SetStations(c.Request.Context(), cacheKey, stations)
	httpresp.List(c, stations)
}

func (h *StationHandler) GetByID(c *gin.Context) {
	var station models.ChargingStation
	if err := h.db.
		Preload("Provider").
		Preload("Reviews").
		Preload("Reviews.User").
		First(&station, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "station_not_found", "Station not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_station", "Could not load station.")
		return
	}

	c.JSON(http.StatusOK, station)
}

// ======================================================
// REVIEWS
// ======================================================

func (h *StationHandler) CreateReview(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httperr.BadRequest(c, "invalid_rating", "Rating must be between 1 and 5.")
		return
	}

	var station models.ChargingStation
	if err := h.db.First(&station, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "station_not_found", "Station not found.")
		return
	}

	review := models.StationReview{
		StationID: station.ID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := h.db.Create(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_create_review", "Could not save review.")
		return
	}

	// Derived rating: mean of all review ratings for the station.
	h.db.Model(&models.ChargingStation{}).
		Where("id = ?", station.ID).
		Update("rating", gorm.Expr(
			"(SELECT COALESCE(AVG(rating), 0) FROM station_reviews WHERE station_id = ?)",
			station.ID,
		))

	c.JSON(http.StatusCreated, review)
}

// ======================================================
// PROVIDER
// ======================================================

func (h *StationHandler) ListMine(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextUserID).(uint)

	var stations []models.ChargingStation
	if err := h.db.
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&stations).Error; err != nil {
		httperr.Internal(c, "failed_to_list_stations", "Could not load stations.")
		return
	}

	httpresp.List(c, stations)
}

func (h *StationHandler) Create(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextUserID).(uint)

	var req StationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if code, msg := req.validate(); code != "" {
		httperr.BadRequest(c, code, msg)
		return
	}

	station := models.ChargingStation{
		ProviderID:    providerID,
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		PricePerHour:  req.PricePerHour,
		PowerOutput:   req.PowerOutput,
		ConnectorType: req.ConnectorType,
		Available:     true,
	}
	if req.OpensAt != "" {
		station.OpensAt = req.OpensAt
	}
	if req.ClosesAt != "" {
		station.ClosesAt = req.ClosesAt
	}

	if err := h.db.Create(&station).Error; err != nil {
		httperr.Internal(c, "failed_to_create_station", "Could not create station.")
		return
	}

	h.cache.InvalidateStations(c.Request.Context())
	c.JSON(http.StatusCreated, station)
}

func (h *StationHandler) Update(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var station models.ChargingStation
	if err := h.db.Where("id = ? AND provider_id = ?", id, providerID).First(&station).Error; err != nil {
		httperr.NotFound(c, "station_not_found", "Station not found.")
		return
	}

	var req StationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if code, msg := req.validate(); code != "" {
		httperr.BadRequest(c, code, msg)
		return
	}

	station.Name = req.Name
	station.Address = req.Address
	station.City = req.City
	station.State = req.State
	station.ZipCode = req.ZipCode
	station.Latitude = req.Latitude
	station.Longitude = req.Longitude
	station.PricePerHour = req.PricePerHour
	station.PowerOutput = req.PowerOutput
	station.ConnectorType = req.ConnectorType
	if req.OpensAt != "" {
		station.OpensAt = req.OpensAt
	}
	if req.ClosesAt != "" {
		station.ClosesAt = req.ClosesAt
	}

	if err := h.db.Save(&station).Error; err != nil {
		httperr.Internal(c, "failed_to_update_station", "Could not update station.")
		return
	}

	h.cache.InvalidateStations(c.Request.Context())
	c.JSON(http.StatusOK, station)
}

// UpdateStatus is the provider's manual availability toggle. Re-opening is
// refused while a pending or confirmed booking still holds the station, so
// the manual path cannot break the single-holder rule.
func (h *StationHandler) UpdateStatus(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var station models.ChargingStation
	if err := h.db.Where("id = ? AND provider_id = ?", id, providerID).First(&station).Error; err != nil {
		httperr.NotFound(c, "station_not_found", "Station not found.")
		return
	}

	var req StationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if *req.Available {
		var active int64
		if err := h.db.Model(&models.Booking{}).
			Where("station_id = ? AND status IN ?", station.ID,
				[]string{string(domain.StatusPending), string(domain.StatusConfirmed)}).
			Count(&active).Error; err != nil {
			httperr.Internal(c, "failed_to_update_station", "Could not update station.")
			return
		}
		if active > 0 {
			httperr.Conflict(c, "station_has_active_booking", "Station is held by an active booking.")
			return
		}
	}

	station.Available = *req.Available
	if err := h.db.Save(&station).Error; err != nil {
		httperr.Internal(c, "failed_to_update_station", "Could not update station.")
		return
	}

	h.cache.InvalidateStations(c.Request.Context())
	c.JSON(http.StatusOK, station)
}
