package statemachine

import (
	"fmt"
	"strings"

	"meal-delivery-api/models"
)

// Actor identifies who requests a transition
type Actor string

const (
	ActorVendor Actor = "vendor"
	ActorBuyer  Actor = "buyer"
)

// ActorFor maps an account role to the actor it plays on its own deliveries
func ActorFor(role models.UserRole) Actor {
	if role == models.RoleVendor {
		return ActorVendor
	}
	return ActorBuyer
}

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.DeliveryStatus `json:"from"`
	To    models.DeliveryStatus `json:"to"`
	Actor Actor                 `json:"actor"`
}

var validTransitions = []Transition{
	// Vendor accepts and fulfils
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorVendor},
	{From: models.StatusConfirmed, To: models.StatusOutForDelivery, Actor: ActorVendor},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorVendor},
	// Either side can cancel before the vendor confirms
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorVendor},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorBuyer},
}

type transitionKey struct {
	From  models.DeliveryStatus
	To    models.DeliveryStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// InitialStatus is the status every new delivery starts in
func InitialStatus() models.DeliveryStatus { return models.StatusPending }

// IsTerminal reports whether no transition leaves status
func IsTerminal(status models.DeliveryStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.DeliveryStatus) []models.DeliveryStatus {
	var nexts []models.DeliveryStatus
	seen := map[models.DeliveryStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.DeliveryStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%s -> %s is not allowed for %s; valid transitions from %s: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.DeliveryStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
