package handlers

import (
	"net/http"

	"meal-delivery-api/access"
	"meal-delivery-api/middleware"
	"meal-delivery-api/service"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the caller's account and whether to prompt for KYC
func (h *Handler) GetProfile(c *gin.Context) {
	acct, err := h.profiles.Get(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": acct, "kyc_prompt": access.KYCPrompt(acct)})
}

// SaveProfile creates or updates the caller's account
func (h *Handler) SaveProfile(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	id, _ := middleware.GetIdentity(c)
	acct, err := h.profiles.Save(c.Request.Context(), id.ID, id.Email, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Profile saved",
		"profile":    acct,
		"kyc_prompt": access.KYCPrompt(acct),
	})
}

// VerifyProfile records the KYC form and marks the account verified
func (h *Handler) VerifyProfile(c *gin.Context) {
	var req service.KYCInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	acct, err := h.profiles.Verify(c.Request.Context(), callerID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification submitted", "profile": acct})
}
