package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// TokenPattern defines the share token wire format: 64 lowercase hex chars.
var TokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidateToken checks that a presented share token has the expected shape.
// Anything else is rejected before it reaches the store.
func ValidateToken(token string) bool {
	return TokenPattern.MatchString(token)
}

// ValidateScope checks a share link scope from an untrusted path segment.
func ValidateScope(scope string) bool {
	return scope == "trip" || scope == "profile"
}

// ValidateTripTitle checks a trip title for presence and length.
func ValidateTripTitle(title string) bool {
	title = strings.TrimSpace(title)
	return title != "" && len(title) <= 200
}

// ValidateURL checks that a URL is valid and uses http or https. This
// prevents javascript:, data:, and other dangerous schemes in cover and
// media URLs.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateCoordinates checks an optional lat/lng pair. Both must be present
// or both absent.
func ValidateCoordinates(lat, lng *float64) bool {
	if lat == nil && lng == nil {
		return true
	}
	if lat == nil || lng == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180
}

// ValidateDateRange checks that an optional trip date range is ordered.
func ValidateDateRange(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !end.Before(*start)
}
