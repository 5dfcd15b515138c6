package model

// TierValue is the persisted form of a pricing tier.
type TierValue struct {
	PricingTier string `json:"pricing_tier"`
	Currency    string `json:"currency"`
	Price       string `json:"price"`
}

// AreaValue is the persisted form of a ticket area.
type AreaValue struct {
	AllocatedAreas int         `json:"allocated_areas"`
	TicketArea     string      `json:"ticket_area"`
	Tiers          []TierValue `json:"tiers"`
}

// PricingValue is what the pricing fieldset hands to form submission.
type PricingValue struct {
	PricingGroups map[string][]AreaValue `json:"pricing_groups"`
	AgeRatings    map[string]string      `json:"age_ratings"`
}

type SlotValue struct {
	Time           string `json:"time"`
	TicketGroupKey string `json:"ticket_group_key"`
}

type SessionValue struct {
	Date  string      `json:"date"`
	Times []SlotValue `json:"times"`
}

// SessionsValue is what the sessions fieldset hands to form submission.
type SessionsValue struct {
	Sessions []SessionValue `json:"sessions"`
}

// FieldsetValue combines both halves of a saved listing.
type FieldsetValue struct {
	PricingValue
	SessionsValue
	Currency string `json:"currency"`
}
