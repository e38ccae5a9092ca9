package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"meal-delivery-api/service"

	"github.com/gin-gonic/gin"
)

// ListMeals returns the catalog, optionally filtered by ?search= (public)
func (h *Handler) ListMeals(c *gin.Context) {
	meals, err := h.catalog.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(meals), "meals": meals})
}

// GetMeal returns a single meal (public)
func (h *Handler) GetMeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	meal, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// GetMyMeals returns the calling vendor's listings
func (h *Handler) GetMyMeals(c *gin.Context) {
	meals, err := h.catalog.ListForVendor(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(meals), "meals": meals})
}

// CreateMeal takes a multipart form with name, description, price and image
func (h *Handler) CreateMeal(c *gin.Context) {
	in := service.MealInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.fail(c, &service.ValidationError{Fields: map[string]string{"price": "must be a number"}})
			return
		}
		in.Price = price
	}

	var image *service.ImageUpload
	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			badBody(c, err)
			return
		}
		defer f.Close()
		image = &service.ImageUpload{Filename: fh.Filename, Body: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		badBody(c, err)
		return
	}

	created, err := h.catalog.Create(c.Request.Context(), callerID(c), in, image)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Meal created",
		"meal":       created.Meal,
		"kyc_prompt": created.KYCPrompt,
	})
}

// UpdateMeal edits name, description or price of one of the caller's meals
func (h *Handler) UpdateMeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.MealPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	meal, err := h.catalog.Update(c.Request.Context(), callerID(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal updated", "meal": meal})
}

// DeleteMeal removes one of the caller's meals
func (h *Handler) DeleteMeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), callerID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal deleted"})
}
