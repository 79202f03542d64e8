package domain

import (
	"fmt"
	"time"
)

const (
	DiscountStatic = "static"
	DiscountCode   = "code"
)

// Discount is a percentage reduction, optionally redeemed with a code and
// optionally limited in time. Active is a pointer so that an absent flag can
// be told apart from an explicit false.
type Discount struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"name"                validate:"required"`
	Percent   float64    `json:"percent"             validate:"gte=1,lte=100"`
	Type      string     `json:"type"                validate:"required,oneof=static code"`
	Code      string     `json:"code,omitempty"      validate:"required_if=Type code"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Active    *bool      `json:"active,omitempty"`
}

// Remaining is the whole number of seconds left before expiry, clamped at
// zero. ok is false when the discount has no expiry.
func (d Discount) Remaining(now time.Time) (secs int64, ok bool) {
	if d.ExpiresAt == nil {
		return 0, false
	}
	left := d.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0, true
	}
	return int64(left / time.Second), true
}

// Expired reports whether the discount is switched off or out of time.
func (d Discount) Expired(now time.Time) bool {
	if d.Active != nil && !*d.Active {
		return true
	}
	if secs, ok := d.Remaining(now); ok && secs <= 0 {
		return true
	}
	return false
}

func (d Discount) IsActive(now time.Time) bool { return !d.Expired(now) }

// Countdown renders the time left as "Xh Ym Zs left", or "Expired".
func (d Discount) Countdown(now time.Time) string {
	secs, ok := d.Remaining(now)
	if !ok {
		return ""
	}
	return FormatRemaining(secs)
}

func FormatRemaining(secs int64) string {
	if secs <= 0 {
		return "Expired"
	}
	return fmt.Sprintf("%dh %dm %ds left", secs/3600, (secs%3600)/60, secs%60)
}

// SplitDiscounts partitions ds into active and expired lists, preserving
// order. Discounts without an id are dropped.
func SplitDiscounts(ds []Discount, now time.Time) (active, expired []Discount) {
	for _, d := range ds {
		if d.ID == "" {
			continue
		}
		if d.Expired(now) {
			expired = append(expired, d)
		} else {
			active = append(active, d)
		}
	}
	return active, expired
}

// NextExpiry returns the soonest future expiry among active discounts.
func NextExpiry(ds []Discount, now time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	for _, d := range ds {
		if d.Expired(now) || d.ExpiresAt == nil {
			continue
		}
		if !found || d.ExpiresAt.Before(next) {
			next, found = *d.ExpiresAt, true
		}
	}
	return next, found
}

// DiscountDraft is the create form. DurationMinutes, when set, gives the
// discount an expiry that many minutes from creation.
type DiscountDraft struct {
	Name            string  `validate:"required"`
	Percent         float64 `validate:"gte=1,lte=100"`
	Type            string  `validate:"required,oneof=static code"`
	Code            string  `validate:"required_if=Type code"`
	DurationMinutes int     `validate:"omitempty,gte=1,lte=1440"`
}

// Discount builds the discount to submit. A new discount is always active.
func (d DiscountDraft) Discount(now time.Time) Discount {
	active := true
	out := Discount{
		Name:    d.Name,
		Percent: d.Percent,
		Type:    d.Type,
		Active:  &active,
	}
	if d.Type == DiscountCode {
		out.Code = d.Code
	}
	if d.DurationMinutes > 0 {
		exp := now.Add(time.Duration(d.DurationMinutes) * time.Minute).UTC()
		out.ExpiresAt = &exp
	}
	return out
}
