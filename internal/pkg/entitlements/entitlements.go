package entitlements

import (
	"time"

	"github.com/jkimani/PairMatch/app/models"
)

// CanViewPhotos decides whether a member may see unblurred gallery photos.
// Female members always pass (free-tier policy); everyone else needs an
// active subscription whose end date is strictly in the future. Pure function
// of its inputs: evaluate it per request, never cache the answer, since it
// flips on its own once the end date passes.
func CanViewPhotos(gender string, sub *models.Subscription, now time.Time) bool {
	if gender == models.GENDER_FEMALE {
		return true
	}
	if sub == nil {
		return false
	}
	return sub.HasTimeLeft(now)
}

// CanViewPhotosNow is CanViewPhotos against the wall clock.
func CanViewPhotosNow(gender string, sub *models.Subscription) bool {
	return CanViewPhotos(gender, sub, time.Now())
}
