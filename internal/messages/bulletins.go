package messages

import (
	"time"

	"github.com/peake100/stalkbroker/internal/domain"
)

// BulletinNookPriceUpdate announces a live weekday sell price to a server's
// bulletin channel.
func BulletinNookPriceUpdate(
	displayName string,
	price int,
	dateLocal time.Time,
	timeOfDay domain.TimeOfDay,
) string {
	return formatBulletin("the market is moving", []kv{
		{"Market", displayName},
		{"The Nooks' offer", price},
		{"Date", dateLocal},
		{"Period", timeOfDay.String()},
	})
}

// BulletinDaisyMaePriceUpdate announces a live Sunday buy-in price.
func BulletinDaisyMaePriceUpdate(displayName string, price int, dateLocal time.Time) string {
	return formatBulletin("investment opportunity available", []kv{
		{"Market", displayName},
		{"Daisy Mae's deal", price},
		{"Date", dateLocal},
	})
}
