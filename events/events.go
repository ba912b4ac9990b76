// File: /events/events.go
package events

import "time"

const (
	WorkoutLoggedName      = "workout.logged"
	FriendshipAcceptedName = "friendship.accepted"
)

// Event is a domain fact raised by a service.
type Event interface {
	Name() string
}

// WorkoutLogged is raised inside the transaction that creates a workout.
type WorkoutLogged struct {
	WorkoutID string    `json:"workout_id"`
	UserID    string    `json:"user_id"`
	Points    int       `json:"points"`
	LoggedAt  time.Time `json:"logged_at"`
}

func (WorkoutLogged) Name() string { return WorkoutLoggedName }

type FriendshipAccepted struct {
	FriendshipID uint      `json:"friendship_id"`
	RequesterID  string    `json:"requester_id"`
	AddresseeID  string    `json:"addressee_id"`
	AcceptedAt   time.Time `json:"accepted_at"`
}

func (FriendshipAccepted) Name() string { return FriendshipAcceptedName }
