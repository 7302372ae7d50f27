package models

// EntityKind identifies the domain object a claim is about.
type EntityKind string

const (
	EntityFlight     EntityKind = "flight"
	EntityLodging    EntityKind = "lodging"
	EntityRestaurant EntityKind = "restaurant"
	EntityTrip       EntityKind = "trip"
)

// Claim is one atomic factual assertion extracted from a submission field.
// Claims are only ever extracted from typed fields via the explicit
// extraction schema in internal/submission; free-text rationale is never
// parsed. FieldPath ties each claim back to exactly one submission field.
type Claim struct {
	Entity    EntityKind `json:"entity"`
	EntityID  string     `json:"entity_id"`
	Attribute string     `json:"attribute"`
	Value     any        `json:"value"`
	FieldPath string     `json:"field_path"`
}

// GroundingStatus classifies how a claim relates to ledger evidence.
type GroundingStatus string

const (
	// Grounded: a ledger record carries the same value for the same
	// entity/attribute pair.
	Grounded GroundingStatus = "grounded"
	// Contradicted: the ledger carries a different value for that pair.
	// Contradictions indicate fabrication and weigh heavier than omissions.
	Contradicted GroundingStatus = "contradicted"
	// Unsupported: no ledger record mentions the entity/attribute at all.
	Unsupported GroundingStatus = "unsupported"
)

// GroundingResult is the verdict for one claim.
type GroundingResult struct {
	Claim       Claim           `json:"claim"`
	Status      GroundingStatus `json:"status"`
	MatchSeq    int             `json:"match_seq,omitempty"`
	LedgerValue any             `json:"ledger_value,omitempty"`
}
