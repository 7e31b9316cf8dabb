// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"classroom_backend/internals/configs"
)

// Clock dipakai service supaya "sekarang" bisa di-freeze di test.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// SchoolLocation: zona waktu sekolah dari APP_TIMEZONE
func SchoolLocation() *time.Location {
	return configs.Location()
}

// TodayIn: tanggal kalender "hari ini" menurut zona sekolah
func TodayIn(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

func Today(clock Clock) Date {
	if clock == nil {
		clock = SystemClock
	}
	return TodayIn(clock(), SchoolLocation())
}

// ToSchoolTime: waktu DB (UTC) → zona sekolah, untuk response
func ToSchoolTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(SchoolLocation())
}

func ToSchoolTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToSchoolTime(*t)
	return &v
}

// ParseDateQuery: ?date=YYYY-MM-DD, default hari ini
func ParseDateQuery(c *fiber.Ctx, key string, clock Clock) (Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return Today(clock), nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, fiber.NewError(fiber.StatusBadRequest, key+" must be YYYY-MM-DD")
	}
	return d, nil
}
