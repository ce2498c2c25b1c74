// Package moscow provides a clock pinned to the event source's local time.
// All relative-date resolution ("сегодня", "завтра") happens in this zone so
// results do not depend on where the harvester runs.
package moscow

import "time"

// Clock implements harvest.Clock in Europe/Moscow time.
type Clock struct {
	loc *time.Location
}

// New creates a Clock. If the tz database is unavailable a fixed UTC+3
// zone is used instead; Moscow has no daylight saving time.
func New() *Clock {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return &Clock{loc: loc}
}

// Now returns the current time in the source-local zone.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location exposes the zone for timestamp conversion in the pager.
func (c *Clock) Location() *time.Location {
	return c.loc
}
