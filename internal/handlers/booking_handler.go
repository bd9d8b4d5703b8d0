package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chargeconnect/charge-api/internal/cache"
	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/httpresp"
	"github.com/chargeconnect/charge-api/internal/middleware"
	"github.com/chargeconnect/charge-api/internal/models"
	ucBooking "github.com/chargeconnect/charge-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC       *ucBooking.CreateBooking
	updateStatusUC *ucBooking.UpdateBookingStatus
	cancelUC       *ucBooking.CancelBooking
	listUC         *ucBooking.ListBookings
	getUC          *ucBooking.GetBooking

	cache *cache.Cache
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	updateStatusUC *ucBooking.UpdateBookingStatus,
	cancelUC *ucBooking.CancelBooking,
	listUC *ucBooking.ListBookings,
	getUC *ucBooking.GetBooking,
	cache *cache.Cache,
) *BookingHandler {
	return &BookingHandler{
		createUC:       createUC,
		updateStatusUC: updateStatusUC,
		cancelUC:       cancelUC,
		listUC:         listUC,
		getUC:          getUC,
		cache:          cache,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	StationID     uint       `json:"station_id" binding:"required"`
	VehicleID     *uint      `json:"vehicle_id"`
	StartTime     *time.Time `json:"start_time"`
	DurationHours int        `json:"duration_hours" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// ERROR MAPPING
// ======================================================

// Business codes cross the usecase boundary; everything else is a 500 with a
// generic message.
func writeBookingError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	switch code {
	case "station_not_found", "vehicle_not_found", "booking_not_found":
		httperr.NotFound(c, code, "Not found.")
	case "station_not_available", "invalid_transition":
		httperr.Conflict(c, code, "Conflict.")
	case "invalid_duration", "invalid_status", "invalid_role":
		httperr.BadRequest(c, code, "Invalid request.")
	case "not_station_provider", "not_booking_customer":
		httperr.Forbidden(c, code, "Not allowed.")
	default:
		httperr.Internal(c, code, "Unexpected error.")
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in := ucBooking.CreateBookingInput{
		CustomerID:    customerID,
		StationID:     req.StationID,
		VehicleID:     req.VehicleID,
		DurationHours: req.DurationHours,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}

	b, err := h.createUC.Execute(c.Request.Context(), in)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	// The claim flipped the station's availability; cached listings are stale.
	h.cache.InvalidateStations(c.Request.Context())

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := c.MustGet(middleware.ContextUserRole).(models.Role)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be numeric.")
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.updateStatusUC.Execute(c.Request.Context(), ucBooking.UpdateBookingStatusInput{
		BookingID:  uint(bookingID),
		NewStatus:  domain.Status(req.Status),
		CallerID:   callerID,
		CallerRole: callerRole,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	h.cache.InvalidateStations(c.Request.Context())
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be numeric.")
		return
	}

	b, err := h.cancelUC.Execute(c.Request.Context(), uint(bookingID), customerID)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	h.cache.InvalidateStations(c.Request.Context())
	c.JSON(http.StatusOK, b)
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) ListForCustomer(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.listUC.Execute(c.Request.Context(), customerID, models.RoleCustomer)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) ListForProvider(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.listUC.Execute(c.Request.Context(), providerID, models.RoleProvider)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) GetByID(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := c.MustGet(middleware.ContextUserRole).(models.Role)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be numeric.")
		return
	}

	b, err := h.getUC.Execute(c.Request.Context(), uint(bookingID), callerID, callerRole)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
