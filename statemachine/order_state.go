package statemachine

import (
	"errors"

	"gas-delivery-api/models"
)

// Actor identifies who is attempting a transition
const (
	ActorCustomer = "customer"
	ActorDriver   = "driver"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition.
// pending → accepted happens only through AcceptOrder, which also assigns
// the driver in the same write; it is listed here so the table stays complete.
var validTransitions = []Transition{
	// Driver claims a pending order
	{From: models.StatusPending, To: models.StatusAccepted, Actor: ActorDriver},
	// Assigned driver moves the delivery strictly forward, no skipping
	{From: models.StatusAccepted, To: models.StatusPickedUp, Actor: ActorDriver},
	{From: models.StatusPickedUp, To: models.StatusOnTheWay, Actor: ActorDriver},
	{From: models.StatusOnTheWay, To: models.StatusDelivered, Actor: ActorDriver},
	// Customer may cancel before the cylinder is picked up, not after
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: ActorCustomer},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// IsTerminal reports whether no further transitions exist from status
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
