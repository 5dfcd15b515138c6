package model

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatus of a listing's pricing configuration.
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusCommitted ListingStatus = "committed"
)

// Listing is a committed pricing/sessions configuration.
type Listing struct {
	ID        int           `json:"id" db:"id"`
	ListingID uuid.UUID     `json:"listing_id" db:"listing_id"`
	Status    ListingStatus `json:"status" db:"status"`
	Value     FieldsetValue `json:"value" db:"value"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// Draft is the full in-memory state of a fieldset, including the edit
// provenance that the persisted value drops.
type Draft struct {
	ListingID           uuid.UUID                 `json:"listing_id"`
	Value               FieldsetValue             `json:"value"`
	ManualEdits         map[string][]AttributeKey `json:"manual_edits,omitempty"`
	GroupCurrencies     map[string]string         `json:"group_currencies,omitempty"`
	TierCurrencies      map[string][][]string     `json:"tier_currencies,omitempty"`
	EditedSlots         map[string][]bool         `json:"edited_slots,omitempty"`
	FirstGlobalEditDone []int                     `json:"first_global_edit_done,omitempty"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}
