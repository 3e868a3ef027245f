package controllers

import (
	"net/http"
	"strconv"

	"tourism-backend/middleware"
	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

type confirmBookingPayload struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input services.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	view, err := ctrl.BookingSvc.CreateBooking(c.Request.Context(), userID, input)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, view)
}

func (ctrl *BookingController) ConfirmBooking(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload confirmBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: payment_method_id is required")
		return
	}

	view, err := ctrl.BookingSvc.ConfirmBooking(c.Request.Context(), bookingID, userID, payload.PaymentMethodID)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := ctrl.BookingSvc.CancelBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

func (ctrl *BookingController) GetMyBookings(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	views, err := ctrl.BookingSvc.GetUserBookings(userID)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

// GetTourGuideBookings lists bookings made against the caller's guide
// profile. Requires the TourGuide role (enforced by route middleware).
func (ctrl *BookingController) GetTourGuideBookings(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	views, err := ctrl.BookingSvc.GetTourGuideBookings(userID)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}
