package wizard

import "parcelpoint-web/internal/config"

const (
	BASE_PRICE_KES      = 50
	HOURLY_PRICE_KES    = 10
	DEFAULT_HOURS       = 24
	DEFAULT_LOCKER_SIZE = "medium"
)

// QuickPickHours are offered next to the duration slider.
var QuickPickHours = []int{1, 6, 12, 24}

// Price in KES: the first hour is flat, every further hour adds HOURLY_PRICE_KES.
func Price(hours int) int {
	return BASE_PRICE_KES + max(0, hours-1)*HOURLY_PRICE_KES
}

func ValidHours(hours int) bool {
	return hours >= config.MIN_BOOKING_HOURS && hours <= config.MAX_BOOKING_HOURS
}
