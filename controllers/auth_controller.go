package controllers

import (
	"errors"
	"net/http"
	"strings"

	"tourism-backend/models"
	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerPayload struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	DB    *gorm.DB
	Roles *services.RoleService
}

func NewAuthController(db *gorm.DB, roles *services.RoleService) *AuthController {
	return &AuthController{DB: db, Roles: roles}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var existing models.User
	if err := ctrl.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.JSONError(c, http.StatusConflict, "email is already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSONError(c, http.StatusInternalServerError, "failed to check existing user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Email:     email,
		Password:  string(hash),
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	if err := ctrl.Roles.AssignRole(user.ID, models.RoleUser); err != nil {
		// account exists; a missing base role only limits it until reassigned
		utils.JSONError(c, http.StatusInternalServerError, "failed to assign default role")
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var user models.User
	if err := ctrl.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	roles, err := ctrl.Roles.RolesForUser(user.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load roles")
		return
	}

	token, err := utils.GenerateAccessToken(user.ID, roles)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"roles":      roles,
		},
	})
}
