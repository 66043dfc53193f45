package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a broker account. The internal ID is assigned exactly once on
// first contact and never reassigned; the Discord id is fixed at the same
// moment. Server membership only ever grows, by set union.
type User struct {
	ID        uuid.UUID
	DiscordID string

	// Timezone is nil until the user sets it with the timezone command.
	Timezone *time.Location

	// Servers holds the Discord ids of every guild the user has been seen
	// on. Needed so that every one of them can be alerted on a hot price.
	Servers []string

	// NotifyOnBulletin marks users who want to be pinged when bulletins go
	// out.
	NotifyOnBulletin bool
}

// MemberOf reports whether the user is known to belong to a server.
func (u *User) MemberOf(serverDiscordID string) bool {
	for _, id := range u.Servers {
		if id == serverDiscordID {
			return true
		}
	}
	return false
}

// Server is a Discord guild the bot is active on.
type Server struct {
	ID        uuid.UUID
	DiscordID string

	// BulletinChannel is the Discord channel id price bulletins are sent
	// to. Empty until an admin runs the bulletins_here command.
	BulletinChannel string

	// BulletinMinimum suppresses price bulletins below this value; a price
	// equal to the minimum still triggers.
	BulletinMinimum int

	// HeatMinimum suppresses forecast-heat bulletins below this value, with
	// the same inclusive boundary.
	HeatMinimum int
}
