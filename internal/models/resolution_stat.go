package models

// ResolutionStat is a persisted counter of public resolution outcomes by
// scope. Outcomes are coarse (hit/miss) so the table carries nothing an
// attacker could use.
type ResolutionStat struct {
	Scope   string `json:"scope"`
	Outcome string `json:"outcome"` // hit, miss
	Count   int64  `json:"count"`
}
