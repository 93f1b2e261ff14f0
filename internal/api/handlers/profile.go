package handlers

import (
	"errors"
	"log"
	"net/http"

	"selvaquiz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// SaveProfileRequest sets the onboarding completion marker.
type SaveProfileRequest struct {
	StudentType string `json:"student_type" binding:"required"`
}

// UpgradePlanRequest switches the plan tier.
type UpgradePlanRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}

// HandleGetProfile returns the current user's profile, creating it on first
// observation with the free plan and the identity's name and email.
func (h *Handler) HandleGetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if h.Store == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	profile, err := h.Store.GetUserProfile(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusInternalServerError, "Failed to load profile", err)
			return
		}

		name := user.Metadata.Name
		if name == "" {
			name = "Usuário"
		}
		profile, err = h.Store.CreateUserProfile(ctx, user.ID, name, user.Email)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to create profile", err)
			return
		}
		log.Printf("INFO: created profile for first-seen user %s", user.ID)
	}

	c.JSON(http.StatusOK, profile)
}

// HandleSaveProfile overwrites the student type and returns the merged record.
func (h *Handler) HandleSaveProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if h.Store == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "student_type is required", err)
		return
	}

	profile, err := h.Store.UpdateStudentType(c.Request.Context(), user.ID, req.StudentType)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// HandleUpgradePlan overwrites the plan tier and returns the merged record.
// Only paid tiers are accepted; downgrades are not exposed.
func (h *Handler) HandleUpgradePlan(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if h.Store == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	var req UpgradePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "plan_type is required", err)
		return
	}
	if req.PlanType != models.PlanMonthly && req.PlanType != models.PlanAnnual {
		respondError(c, http.StatusBadRequest, "plan_type must be monthly or annual", nil)
		return
	}

	profile, err := h.Store.UpdatePlanType(c.Request.Context(), user.ID, req.PlanType)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upgrade plan", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
