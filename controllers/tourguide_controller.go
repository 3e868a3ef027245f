package controllers

import (
	"net/http"

	"tourism-backend/middleware"
	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

type availabilityPayload struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type TourGuideController struct {
	GuideSvc *services.TourGuideService
}

func NewTourGuideController(svc *services.TourGuideService) *TourGuideController {
	return &TourGuideController{GuideSvc: svc}
}

func (ctrl *TourGuideController) ListGuides(c *gin.Context) {
	views, err := ctrl.GuideSvc.ListGuides()
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

func (ctrl *TourGuideController) GetGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := ctrl.GuideSvc.GetGuide(id)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

func (ctrl *TourGuideController) Apply(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input services.ApplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	application, err := ctrl.GuideSvc.SubmitApplication(userID, input)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, application)
}

func (ctrl *TourGuideController) MyApplication(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	application, err := ctrl.GuideSvc.MyApplication(userID)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, application)
}

// SetAvailability lets a guide pause new bookings on their own profile.
func (ctrl *TourGuideController) SetAvailability(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload availabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.IsAvailable == nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: is_available is required")
		return
	}

	if err := ctrl.GuideSvc.SetAvailability(userID, *payload.IsAvailable); err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"is_available": *payload.IsAvailable})
}
