package http

import (
	"net/http"

	"novelhub-backend/internal/common/middleware"
	"novelhub-backend/internal/features/profile/models"
	"novelhub-backend/internal/features/profile/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profiles := router.Group("/profiles")
	{
		profiles.POST("", h.CreateProfile)
		profiles.GET("/:id", h.GetProfile)
	}

	me := router.Group("/profiles/me")
	me.Use(middleware.RequireUser())
	{
		me.POST("/visit", h.RecordVisit)
		me.GET("/ad-free", h.GetAdFreeStatus)
	}
}

// @Summary Create profile
// @Description Bootstrap a profile at signup. Safe to retry: an existing profile is returned unchanged.
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body models.CreateProfileRequest true "Profile to create"
// @Success 200 {object} models.ProfileResponse "Profile data"
// @Failure 400 {object} middleware.ErrorResponse "Invalid profile ID"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var input models.CreateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), input.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Get profile by ID
// @Description Get profile information, including coin balance, streak and ad-free flag
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.ProfileResponse "Profile data"
// @Failure 404 {object} middleware.ErrorResponse "Profile not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Record a visit
// @Description Apply the daily streak rules for the authenticated profile. A same-day revisit returns the profile unchanged.
// @Tags profiles
// @Accept json
// @Produce json
// @Success 200 {object} models.ProfileResponse "Updated profile"
// @Failure 401 {object} middleware.ErrorResponse "Missing authenticated profile"
// @Failure 404 {object} middleware.ErrorResponse "Profile not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /profiles/me/visit [post]
func (h *ProfileHandler) RecordVisit(c *gin.Context) {
	profile, err := h.service.RecordVisit(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Get ad-free status
// @Description Report whether the authenticated profile has reached the ad-free coin threshold
// @Tags profiles
// @Accept json
// @Produce json
// @Success 200 {object} models.AdFreeStatus "Ad-free status"
// @Failure 401 {object} middleware.ErrorResponse "Missing authenticated profile"
// @Failure 404 {object} middleware.ErrorResponse "Profile not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /profiles/me/ad-free [get]
func (h *ProfileHandler) GetAdFreeStatus(c *gin.Context) {
	status, err := h.service.GetAdFreeStatus(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
