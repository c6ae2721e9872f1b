// Package timezone resolves the property clock. The application zone comes from APP_TIMEZONE and tenants may override it.
package timezone

import (
	"kiosk/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var location = sync.OnceValue(func() *time.Location {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load application timezone, using UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
})

func GetLocation() *time.Location {
	return location()
}

func Now() time.Time {
	return time.Now().In(location())
}

// Format renders t on the application clock.
func Format(t time.Time, layout string) string {
	return t.In(location()).Format(layout)
}

// LocationOrDefault loads a tenant zone by IANA name. Empty or unknown names fall back to the application zone.
func LocationOrDefault(name string) *time.Location {
	if name == "" {
		return location()
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("Unknown tenant timezone, using application timezone")

		return location()
	}

	return loc
}
