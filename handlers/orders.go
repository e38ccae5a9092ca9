package handlers

import (
	"net/http"
	"strings"

	"meal-delivery-api/models"
	"meal-delivery-api/service"

	"github.com/gin-gonic/gin"
)

const IdempotencyHeader = "Idempotency-Key"

type PlaceOrderRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	IdempotencyKey string `json:"idempotency_key"`
}

// PlaceOrder creates a delivery for the meal in the path (buyers only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	mealID, ok := parseID(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if key == "" {
		key = req.IdempotencyKey
	}

	contact := service.ContactInput{Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address}
	placed, err := h.orders.Place(c.Request.Context(), callerID(c), mealID, contact, key)
	if err != nil {
		h.fail(c, err)
		return
	}

	d := placed.Delivery
	c.Header(IdempotencyHeader, d.IdempotencyKey)
	if !placed.Created {
		c.JSON(http.StatusOK, gin.H{"message": "Order already placed", "delivery": d})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Order placed successfully",
		"delivery":       d,
		"estimated_time": d.EstimatedTime,
	})
}

// ListDeliveries returns orders received (vendors) or purchases (buyers)
func (h *Handler) ListDeliveries(c *gin.Context) {
	status := models.DeliveryStatus(c.Query("status"))
	deliveries, err := h.orders.List(c.Request.Context(), callerID(c), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// GetDelivery returns one delivery visible to the caller
func (h *Handler) GetDelivery(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.orders.Get(c.Request.Context(), callerID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery": d})
}

// UpdateDeliveryStatus moves a delivery through the lifecycle
func (h *Handler) UpdateDeliveryStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.StatusChange
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	d, err := h.orders.ChangeStatus(c.Request.Context(), callerID(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Status updated to " + string(d.Status),
		"delivery": d,
	})
}
