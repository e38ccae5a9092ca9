package handlers

import (
	"net/http"

	"meal-delivery-api/models"
	"meal-delivery-api/statemachine"

	"github.com/gin-gonic/gin"
)

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Meal Delivery API",
		"version": "1.0.0",
	})
}

// GetStateMachineInfo returns the delivery lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var terminal []models.DeliveryStatus
	for _, s := range models.AllStatuses() {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"initial_state":   statemachine.InitialStatus(),
		"terminal_states": terminal,
		"description":     "Meal delivery lifecycle state machine",
	})
}
