// Package zones resolves, validates and loads IANA timezone identifiers.
package zones

import (
	"os"
	"strings"
	"time"
)

// FallbackZone is used when neither an explicit zone nor a usable system zone exists.
const FallbackZone = "UTC"

// Resolver picks the effective zone identifier for a request.
type Resolver struct {
	system   func() string
	fallback string
}

// NewResolver creates a Resolver that consults SystemZone and then fallback.
// An empty fallback means FallbackZone.
func NewResolver(fallback string) *Resolver {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		fallback = FallbackZone
	}
	return &Resolver{
		system:   SystemZone,
		fallback: fallback,
	}
}

// WithSystem returns a new Resolver that reads the system zone from fn.
// Useful for tests that must not depend on the host's timezone.
func (r *Resolver) WithSystem(fn func() string) *Resolver {
	return &Resolver{
		system:   fn,
		fallback: r.fallback,
	}
}

// Fallback returns the zone used when nothing else resolves.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// Resolve returns zone if it is non-empty, else the system zone, else the fallback.
// It never fails and never returns an empty string. A system zone that does not
// load as an IANA location is skipped.
func (r *Resolver) Resolve(zone string) string {
	if zone = strings.TrimSpace(zone); zone != "" {
		return zone
	}
	if r.system != nil {
		if sys := strings.TrimSpace(r.system()); sys != "" {
			if _, err := time.LoadLocation(sys); err == nil {
				return sys
			}
		}
	}
	return r.fallback
}

// SystemZone reports the host's IANA zone name, or "" if it cannot be determined.
// It checks TZ first and then the target of the /etc/localtime symlink.
func SystemZone() string {
	if tz, ok := os.LookupEnv("TZ"); ok {
		tz = strings.TrimPrefix(strings.TrimSpace(tz), ":")
		if name := zoneFromPath(tz); name != "" {
			return name
		}
		if tz != "" && !strings.HasPrefix(tz, "/") {
			return tz
		}
	}
	target, err := os.Readlink("/etc/localtime")
	if err != nil {
		return ""
	}
	return zoneFromPath(target)
}

func zoneFromPath(p string) string {
	const marker = "zoneinfo/"
	if i := strings.LastIndex(p, marker); i >= 0 {
		return p[i+len(marker):]
	}
	return ""
}
