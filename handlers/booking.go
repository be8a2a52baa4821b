package handlers

import (
	"net/http"
	"strings"

	"slotbook/database/repository"
	"slotbook/middleware"
	"slotbook/models"
	"slotbook/services/booking"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
	Catalog repository.CatalogRepository
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, catalog repository.CatalogRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Catalog: catalog, Logger: logger}
}

// canonicalService maps a client-supplied service name onto the catalog entry.
// The name must match exactly, ignoring case.
func (h *BookingHandler) canonicalService(c *gin.Context, name string) (string, bool) {
	services, err := h.Catalog.ListActive(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return "", false
	}
	for _, svc := range services {
		if strings.EqualFold(svc.Name, name) {
			return svc.Name, true
		}
	}
	utils.JSONError(c, http.StatusBadRequest, "Unknown service", name)
	return "", false
}

// ListServices serves GET /api/services.
func (h *BookingHandler) ListServices(c *gin.Context) {
	services, err := h.Catalog.ListActive(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// Availability serves GET /api/availability?service=&date=&window=.
func (h *BookingHandler) Availability(c *gin.Context) {
	name := strings.TrimSpace(c.Query("service"))
	date := strings.TrimSpace(c.Query("date"))
	if name == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "service and date are required")
		return
	}
	service, ok := h.canonicalService(c, name)
	if !ok {
		return
	}

	grid, err := h.Service.AvailabilityGrid(c.Request.Context(), service, date, c.Query("window"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": service, "date": date, "slots": grid})
}

// Book serves POST /api/book.
func (h *BookingHandler) Book(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(input.Service) == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "missing field")
		return
	}
	service, ok := h.canonicalService(c, input.Service)
	if !ok {
		return
	}

	req := models.ReservationRequest{
		UserID:  middleware.IdentityFrom(c).UserID,
		Service: service,
		Date:    input.Date,
		Slot:    models.Slot(input.Time),
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		req.Notes = &notes
	}

	b, err := h.Service.Reserve(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// MyBookings serves GET /api/my-bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	bookings, err := h.Service.ListForUser(c.Request.Context(), middleware.IdentityFrom(c).UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBooking serves DELETE /api/bookings/:id and its admin twin.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id := c.Param("id")
	caller := middleware.IdentityFrom(c)
	if err := h.Service.Cancel(c.Request.Context(), caller, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Booking cancelled via API", zap.String("bookingID", id), zap.String("by", caller.UserID))
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "id": id})
}

// AdminListBookings serves GET /api/admin/bookings?date=.
func (h *BookingHandler) AdminListBookings(c *gin.Context) {
	bookings, err := h.Service.ListAll(c.Request.Context(), strings.TrimSpace(c.Query("date")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
