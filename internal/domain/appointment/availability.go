package appointment

import "time"

type AvailabilityInput struct {
	BarberID uint
	Date     string
	Timezone string
	Now      time.Time
}

type TimeSlot struct {
	Start time.Time `json:"startAt"`
	End   time.Time `json:"endAt"`
	Label string    `json:"label"`
}
