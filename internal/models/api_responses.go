package models

// ShareLinkCreateResponse carries the one-time raw token returned when a
// link is minted or rotated. The token cannot be retrieved again.
type ShareLinkCreateResponse struct {
	Link     *ShareLink `json:"link"`
	Token    string     `json:"token"`
	ShareURL string     `json:"share_url"`
}

// ShareLinkRevokeResponse confirms a revocation.
type ShareLinkRevokeResponse struct {
	Revoked bool `json:"revoked"`
}

// TripWithMoments bundles a trip with its moments for rendering.
type TripWithMoments struct {
	Trip    *Trip    `json:"trip"`
	Moments []Moment `json:"moments"`
}
