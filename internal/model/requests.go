package model

// ListingUri addresses one listing.
type ListingUri struct {
	ListingID string `uri:"uuid" binding:"required,uuid"`
}

type GroupUri struct {
	ListingID string `uri:"uuid" binding:"required,uuid"`
	Key       string `uri:"key" binding:"required"`
}

type AreaUri struct {
	ListingID string `uri:"uuid" binding:"required,uuid"`
	Key       string `uri:"key" binding:"required"`
	Area      int    `uri:"area" binding:"min=0"`
}

type TierUri struct {
	ListingID string `uri:"uuid" binding:"required,uuid"`
	Key       string `uri:"key" binding:"required"`
	Area      int    `uri:"area" binding:"min=0"`
	Tier      int    `uri:"tier" binding:"min=0"`
}

type DateUri struct {
	ListingID string `uri:"uuid" binding:"required,uuid"`
	Date      string `uri:"date" binding:"required,isodate"`
}

type SlotUri struct {
	ListingID string `uri:"uuid" binding:"required,uuid"`
	Date      string `uri:"date" binding:"required,isodate"`
	Index     int    `uri:"index" binding:"min=0"`
}

// GroupAttributesRequest updates the scalar attributes of a group. Nil fields are left alone.
type GroupAttributesRequest struct {
	AgeRating      *string `json:"age_rating"`
	Currency       *string `json:"currency"`
	AllocatedAreas *bool   `json:"allocated_areas"`
}

type RenameAreaRequest struct {
	Name string `json:"name" binding:"max=100"`
}

type UpdateTierRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Price    *string `json:"price"`
	Currency *string `json:"currency"`
}

type SetCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// SetSlotTimeRequest commits a slot time. Empty or malformed input commits an empty time.
type SetSlotTimeRequest struct {
	Time string `json:"time"`
}

type SetSlotGroupRequest struct {
	TicketGroupKey string `json:"ticket_group_key" binding:"required"`
}

// MutationResponse carries the value after an edit. Applied is false when the
// edit was a capacity no-op.
type MutationResponse struct {
	Applied bool           `json:"applied"`
	Value   *FieldsetValue `json:"value"`
}

type SetValueResponse struct {
	Skipped int            `json:"skipped"`
	Value   *FieldsetValue `json:"value"`
}

type ToggleDateResponse struct {
	Selected bool           `json:"selected"`
	Value    *FieldsetValue `json:"value"`
}

type SetSlotTimeResponse struct {
	Touched []string       `json:"touched"`
	Value   *FieldsetValue `json:"value"`
}
