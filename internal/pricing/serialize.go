package pricing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"

	"go.uber.org/zap"
)

// ToPricing renders the registry in its persisted form.
func (r *Registry) ToPricing() model.PricingValue {
	value := model.PricingValue{
		PricingGroups: make(map[string][]model.AreaValue, len(r.groups)),
		AgeRatings:    make(map[string]string, len(r.groups)),
	}
	for _, g := range r.groups {
		flag := 0
		if g.AllocatedAreas() {
			flag = 1
		}
		areas := g.Areas()
		entries := make([]model.AreaValue, 0, len(areas))
		for _, area := range areas {
			entry := model.AreaValue{
				AllocatedAreas: flag,
				TicketArea:     area.Name,
				Tiers:          make([]model.TierValue, len(area.Tiers)),
			}
			for i, tier := range area.Tiers {
				entry.Tiers[i] = model.TierValue{
					PricingTier: tier.Name,
					Currency:    r.ResolveCurrency(g, tier),
					Price:       tier.Price,
				}
			}
			entries = append(entries, entry)
		}
		value.PricingGroups[g.Key] = entries
		value.AgeRatings[g.Key] = g.AgeRating
	}
	return value
}

// FromPricing replaces every group with the ones described by value. Groups
// are rebuilt in key order under fresh contiguous keys; the returned mapping
// relates the saved keys to the new ones. Manual-edit flags are reset.
func (r *Registry) FromPricing(value model.PricingValue) Relabel {
	keys := make([]string, 0, len(value.PricingGroups))
	for key := range value.PricingGroups {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sortKeys(keys)

	mapping := make(Relabel, len(keys))
	groups := make([]*model.TicketGroup, 0, len(keys))
	for _, key := range keys {
		if len(groups) >= r.limits.MaxGroups {
			r.log.Debug("skipping saved group beyond capacity", zap.String("key", key))
			continue
		}
		g := model.NewTicketGroup(keyForIndex(len(groups)))
		g.AgeRating = strings.TrimSpace(value.AgeRatings[key])
		r.fillGroup(g, value.PricingGroups[key])
		mapping[key] = g.Key
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		groups = append(groups, model.NewTicketGroup(FirstKey))
	}
	r.groups = groups
	r.edits.Clear()
	r.notify()
	return mapping
}

func (r *Registry) fillGroup(g *model.TicketGroup, entries []model.AreaValue) {
	allocated := false
	list := make([]model.TicketArea, 0, len(entries))
	for _, entry := range entries {
		if len(list) >= r.limits.MaxAreas {
			break
		}
		if entry.AllocatedAreas == 1 {
			allocated = true
		}
		area := model.TicketArea{Name: strings.TrimSpace(entry.TicketArea)}
		for _, tv := range entry.Tiers {
			if len(area.Tiers) >= r.limits.MaxTiers {
				break
			}
			area.Tiers = append(area.Tiers, model.PricingTier{
				Name:     strings.TrimSpace(tv.PricingTier),
				Currency: strings.ToUpper(strings.TrimSpace(tv.Currency)),
				Price:    NormalizePrice(tv.Price),
			})
		}
		if len(area.Tiers) == 0 {
			area.Tiers = []model.PricingTier{{}}
		}
		list = append(list, area)
	}
	g.SetAllocated(allocated)
	if dropped := g.SetAreas(list); dropped > 0 {
		r.log.Debug("saved undivided group carried extra areas", zap.String("key", g.Key), zap.Int("dropped_areas", dropped))
	}
	r.liftGroupCurrency(g)
}

// liftGroupCurrency turns tier currencies into inherited values: a group whose
// tiers all share one currency other than the fieldset's gets it as its override.
// A restored draft replaces this guess with its recorded overrides.
func (r *Registry) liftGroupCurrency(g *model.TicketGroup) {
	shared := ""
	for i, area := range g.Areas() {
		for j, tier := range area.Tiers {
			if i == 0 && j == 0 {
				shared = tier.Currency
			} else if tier.Currency != shared {
				shared = ""
			}
		}
	}
	if shared != "" && shared != r.currency {
		g.Currency = shared
	}
	for _, area := range g.Areas() {
		for i := range area.Tiers {
			if c := area.Tiers[i].Currency; c == "" || c == g.Currency || (g.Currency == "" && c == r.currency) {
				area.Tiers[i].Currency = ""
			}
		}
	}
}

// DecodePricing reads a saved pricing blob leniently: entries of the wrong
// shape are skipped and counted instead of failing the whole decode.
func DecodePricing(data []byte) (model.PricingValue, int) {
	value := model.PricingValue{
		PricingGroups: make(map[string][]model.AreaValue),
		AgeRatings:    make(map[string]string),
	}
	skipped := 0

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return value, 1
	}

	var groups map[string]json.RawMessage
	if raw, ok := top["pricing_groups"]; ok {
		if err := json.Unmarshal(raw, &groups); err != nil {
			skipped++
		}
	}
	for key, raw := range groups {
		var entries []json.RawMessage
		if !isArray(raw) || json.Unmarshal(raw, &entries) != nil {
			skipped++
			continue
		}
		areas := make([]model.AreaValue, 0, len(entries))
		for _, e := range entries {
			area, ok := decodeArea(e)
			if !ok {
				skipped++
				continue
			}
			areas = append(areas, area)
		}
		value.PricingGroups[key] = areas
	}

	var ratings map[string]json.RawMessage
	if raw, ok := top["age_ratings"]; ok {
		if err := json.Unmarshal(raw, &ratings); err != nil {
			skipped++
		}
	}
	for key, raw := range ratings {
		var rating string
		if err := json.Unmarshal(raw, &rating); err != nil {
			skipped++
			continue
		}
		value.AgeRatings[key] = rating
	}
	return value, skipped
}

func decodeArea(raw json.RawMessage) (model.AreaValue, bool) {
	var entry struct {
		AllocatedAreas json.RawMessage   `json:"allocated_areas"`
		TicketArea     *string           `json:"ticket_area"`
		Tiers          []json.RawMessage `json:"tiers"`
	}
	if !isObject(raw) || json.Unmarshal(raw, &entry) != nil || entry.Tiers == nil {
		return model.AreaValue{}, false
	}
	area := model.AreaValue{AllocatedAreas: decodeFlag(entry.AllocatedAreas)}
	if entry.TicketArea != nil {
		area.TicketArea = *entry.TicketArea
	}
	for _, t := range entry.Tiers {
		var tier model.TierValue
		if !isObject(t) || json.Unmarshal(t, &tier) != nil {
			continue
		}
		area.Tiers = append(area.Tiers, tier)
	}
	return area, true
}

// decodeFlag accepts 1/0, true/false and their string forms.
func decodeFlag(raw json.RawMessage) int {
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		if v, err := n.Int64(); err == nil && v != 0 {
			return 1
		}
		return 0
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil && b {
		return 1
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if v, err := parseFlag(s); err == nil && v {
			return 1
		}
		if v, err := strconv.Atoi(s); err == nil && v != 0 {
			return 1
		}
	}
	return 0
}

func isArray(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("["))
}

func isObject(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}
