package sharelink

import "errors"

// Lifecycle error sentinels. Owner-facing operations surface these precisely;
// the public resolution path collapses every failure into
// ErrShareLinkUnavailable.
var (
	ErrShareLinkNotFound = errors.New("share link not found")
	ErrNotShareLinkOwner = errors.New("not authorized to manage this share link")
	ErrShareLinkRevoked  = errors.New("share link is revoked")
	ErrShareLinkConflict = errors.New("an active share link already exists for this resource")

	// ErrShareLinkUnavailable is the single undifferentiated outcome the
	// public resolution path returns for wrong, revoked, expired, malformed,
	// and nonexistent tokens alike. Collapsing the causes is deliberate:
	// anonymous callers must not be able to distinguish them.
	ErrShareLinkUnavailable = errors.New("share link unavailable")
)
