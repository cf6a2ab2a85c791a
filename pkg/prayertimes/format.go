package prayertimes

import (
	"fmt"
	"math"
)

// UndefinedTime is printed for events that do not occur.
const UndefinedTime = "-----"

// FormatTime renders fractional hours as a zero-padded 24-hour HH:MM,
// wrapping into [0, 24). Minutes are truncated, not rounded. NaN and
// infinities render as UndefinedTime.
func FormatTime(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return UndefinedTime
	}
	h := math.Mod(math.Mod(hours, 24)+24, 24)
	hh := math.Floor(h)
	mm := math.Floor((h - hh) * 60)
	if mm > 59 {
		mm = 59
	}
	return fmt.Sprintf("%02d:%02d", int(hh)%24, int(mm))
}
