package messages

import (
	"fmt"
	"time"

	"github.com/peake100/stalkbroker/internal/domain"
)

// ConfirmationTimezone acknowledges a successful timezone update.
func ConfirmationTimezone(mention string, tz *time.Location) string {
	return fmt.Sprintf(
		"I've made a note, %s! You're growing your portfolio on %s time.",
		mention, tz,
	)
}

// ConfirmationTickerUpdate acknowledges a recorded price, naming the vendor
// and noting whether everyone is about to be alerted.
func ConfirmationTickerUpdate(
	mention string,
	price int,
	priceDate time.Time,
	timeOfDay *domain.TimeOfDay,
	messageLocal time.Time,
) string {
	vendor := "the Nooks'"
	saleType := "offer"
	if priceDate.Weekday() == time.Sunday {
		vendor = "Daisy Mae's"
		saleType = "sale price"
	}

	message := fmt.Sprintf(
		"Great, %s! I'll add %s %s of %d bells on %s to your island's historical data",
		mention, vendor, saleType, price, priceDate.Format(MessageDateFormat),
	)

	if domain.IsCurrentPeriod(messageLocal, priceDate, timeOfDay) {
		return message + " and alert everyone to this exciting opportunity!"
	}
	return message + "."
}

// ConfirmationBulletinsChannel acknowledges a new bulletin channel.
func ConfirmationBulletinsChannel(mention string) string {
	return fmt.Sprintf(
		"You got it, %s! Market bulletins will be posted in this channel from now on.",
		mention,
	)
}

// ConfirmationBulletinMinimum acknowledges a new bulletin price threshold.
func ConfirmationBulletinMinimum(mention string, minimum int) string {
	return fmt.Sprintf(
		"Noted, %s! I'll only sound the alarm here for offers of %d bells or more.",
		mention, minimum,
	)
}

// ConfirmationHeatMinimum acknowledges a new forecast-heat threshold.
func ConfirmationHeatMinimum(mention string, minimum int) string {
	return fmt.Sprintf(
		"Noted, %s! I'll only post forecasts here once a market heats up to %d.",
		mention, minimum,
	)
}

// ConfirmationSubscription acknowledges a bulletin subscription change.
func ConfirmationSubscription(mention string, subscribed bool) string {
	if subscribed {
		return fmt.Sprintf(
			"Welcome aboard, %s! I'll ping you whenever a market bulletin goes out.",
			mention,
		)
	}
	return fmt.Sprintf(
		"Understood, %s. No more bulletin pings for you.",
		mention,
	)
}
