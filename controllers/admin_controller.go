package controllers

import (
	"net/http"

	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

type adminCommentPayload struct {
	Comment string `json:"comment"`
}

type assignAdminPayload struct {
	UserID uint `json:"user_id" binding:"required"`
}

type AdminController struct {
	AdminSvc *services.AdminService
}

func NewAdminController(svc *services.AdminService) *AdminController {
	return &AdminController{AdminSvc: svc}
}

func (ctrl *AdminController) GetApplications(c *gin.Context) {
	views, err := ctrl.AdminSvc.GetApplications()
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

func (ctrl *AdminController) ApproveApplication(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload adminCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := ctrl.AdminSvc.ApproveApplication(id, payload.Comment); err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "application approved successfully"})
}

func (ctrl *AdminController) RejectApplication(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload adminCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := ctrl.AdminSvc.RejectApplication(id, payload.Comment); err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "application rejected successfully"})
}

func (ctrl *AdminController) RevokeTourGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload adminCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := ctrl.AdminSvc.RevokeTourGuide(id, payload.Comment); err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "tour guide status revoked successfully"})
}

func (ctrl *AdminController) AssignAdminRole(c *gin.Context) {
	var payload assignAdminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	message, err := ctrl.AdminSvc.AssignAdminRole(payload.UserID)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": message})
}
