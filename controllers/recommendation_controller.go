package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

var recommendationCategories = map[string]bool{
	"restaurants": true,
	"hotels":      true,
	"places":      true,
}

type RecommendationController struct {
	RecSvc *services.RecommendationService
}

func NewRecommendationController(svc *services.RecommendationService) *RecommendationController {
	return &RecommendationController{RecSvc: svc}
}

func (ctrl *RecommendationController) Health(c *gin.Context) {
	if err := ctrl.RecSvc.Health(c.Request.Context()); err != nil {
		utils.Respond(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"status": "ok"})
}

// Recommend proxies GET /recommendations/:category, passing query
// parameters (city, top_n, ...) straight through to the engine.
func (ctrl *RecommendationController) Recommend(c *gin.Context) {
	category := c.Param("category")
	if !recommendationCategories[category] {
		utils.JSONError(c, http.StatusBadRequest, "unknown recommendation category")
		return
	}

	result, err := ctrl.RecSvc.Recommend(c.Request.Context(), category, c.Request.URL.Query())
	if err != nil {
		utils.Respond(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

func (ctrl *RecommendationController) RecommendGeneral(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		utils.JSONError(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := ctrl.RecSvc.RecommendGeneral(c.Request.Context(), body)
	if err != nil {
		utils.Respond(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}
