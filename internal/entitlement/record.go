// Package entitlement decides what the signed-in user is allowed to create
// based on their stored premium pair.
package entitlement

import "time"

// Record is the stored entitlement pair for an account.
type Record struct {
	IsPremium     bool
	PremiumExpiry *time.Time
}

// EffectiveStatus reports whether the record grants premium at the given
// instant. Both conditions must hold: the flag is set AND an expiry exists
// and is strictly in the future. A set flag with a NULL expiry does not
// grant premium.
func EffectiveStatus(r Record, now time.Time) bool {
	return r.IsPremium && r.PremiumExpiry != nil && r.PremiumExpiry.After(now)
}
