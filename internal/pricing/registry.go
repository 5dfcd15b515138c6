package pricing

import (
	"strconv"
	"strings"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"

	"go.uber.org/zap"
)

// Registry owns the ordered ticket groups of one pricing fieldset, the
// fieldset-wide currency and the manual-edit flags.
type Registry struct {
	limits   model.Limits
	groups   []*model.TicketGroup
	edits    *EditTracker
	currency string
	onChange func()
	log      *zap.Logger
}

type Option func(*Registry)

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

func WithCurrency(code string) Option {
	return func(r *Registry) { r.currency = strings.ToUpper(strings.TrimSpace(code)) }
}

// WithOnChange registers a callback fired after every mutation.
func WithOnChange(fn func()) Option {
	return func(r *Registry) { r.onChange = fn }
}

// NewRegistry creates a registry holding the implicit group A.
func NewRegistry(limits model.Limits, opts ...Option) *Registry {
	r := &Registry{
		limits: limits.Normalize(),
		edits:  NewEditTracker(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.groups = []*model.TicketGroup{model.NewTicketGroup(FirstKey)}
	return r
}

func (r *Registry) Limits() model.Limits { return r.limits }

func (r *Registry) Len() int { return len(r.groups) }

// GroupKeys returns the current keys in order.
func (r *Registry) GroupKeys() []string {
	keys := make([]string, len(r.groups))
	for i, g := range r.groups {
		keys[i] = g.Key
	}
	return keys
}

// Group returns a copy of the group with the given key.
func (r *Registry) Group(key string) (*model.TicketGroup, error) {
	g, err := r.find(key)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// Groups returns copies of every group in key order.
func (r *Registry) Groups() []*model.TicketGroup {
	out := make([]*model.TicketGroup, len(r.groups))
	for i, g := range r.groups {
		out[i] = g.Clone()
	}
	return out
}

func (r *Registry) IsEdited(key string, attr model.AttributeKey) bool {
	return r.edits.IsEdited(key, attr)
}

func (r *Registry) ManualEdits() map[string][]model.AttributeKey {
	return r.edits.Snapshot()
}

func (r *Registry) RestoreManualEdits(flags map[string][]model.AttributeKey) {
	r.edits.Restore(flags)
	if len(r.groups) == 1 {
		r.edits.Clear()
	}
}

func (r *Registry) Currency() string { return r.currency }

// CurrencyOverrides returns the group and tier currency overrides by group
// key. The persisted value only carries resolved currencies, so a draft keeps
// these to tell an override from an inherited code.
func (r *Registry) CurrencyOverrides() (map[string]string, map[string][][]string) {
	groups := make(map[string]string, len(r.groups))
	tiers := make(map[string][][]string, len(r.groups))
	for _, g := range r.groups {
		groups[g.Key] = g.Currency
		areas := g.Areas()
		codes := make([][]string, len(areas))
		for i, area := range areas {
			codes[i] = make([]string, len(area.Tiers))
			for j, tier := range area.Tiers {
				codes[i][j] = tier.Currency
			}
		}
		tiers[g.Key] = codes
	}
	return groups, tiers
}

// RestoreCurrencyOverrides replaces the overrides guessed during FromPricing
// with the recorded ones. Groups missing from both maps keep their guess.
func (r *Registry) RestoreCurrencyOverrides(groups map[string]string, tiers map[string][][]string) {
	for _, g := range r.groups {
		code, hasGroup := groups[g.Key]
		codes, hasTiers := tiers[g.Key]
		if !hasGroup && !hasTiers {
			continue
		}
		g.Currency = strings.ToUpper(strings.TrimSpace(code))
		for i, area := range g.Areas() {
			for j := range area.Tiers {
				tierCode := ""
				if i < len(codes) && j < len(codes[i]) {
					tierCode = strings.ToUpper(strings.TrimSpace(codes[i][j]))
				}
				area.Tiers[j].Currency = tierCode
			}
		}
	}
}

// SetCurrency changes the fieldset-wide currency and re-commits every price.
func (r *Registry) SetCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return apperrors.ErrInvalidCurrency
	}
	r.currency = code
	for _, g := range r.groups {
		for _, area := range g.Areas() {
			for i := range area.Tiers {
				area.Tiers[i].Price = NormalizePrice(area.Tiers[i].Price)
			}
		}
	}
	r.notify()
	return nil
}

// AddGroup creates the next group and seeds it from group A. At capacity it
// does nothing and reports false.
func (r *Registry) AddGroup() (*model.TicketGroup, bool) {
	if len(r.groups) >= r.limits.MaxGroups {
		r.log.Debug("group capacity reached", zap.Int("max_groups", r.limits.MaxGroups))
		return nil, false
	}
	g := model.NewTicketGroup(nextKey(r.GroupKeys()))
	template := CaptureTemplate(r.groups[0])
	applied := ApplyTemplate(g, template, r.edits, r.limits)
	r.groups = append(r.groups, g)
	r.log.Debug("group added", zap.String("key", g.Key), zap.Any("inherited", applied))
	r.notify()
	return g.Clone(), true
}

// RemoveGroup deletes a group and relabels the rest contiguously from A.
// Removing the last group does nothing and reports false.
func (r *Registry) RemoveGroup(key string) (Relabel, bool, error) {
	idx := r.indexOf(key)
	if idx < 0 {
		return nil, false, apperrors.ErrGroupNotFound
	}
	if len(r.groups) <= 1 {
		return nil, false, nil
	}
	r.groups = append(r.groups[:idx], r.groups[idx+1:]...)

	mapping := make(Relabel, len(r.groups))
	for i, g := range r.groups {
		newKey := keyForIndex(i)
		mapping[g.Key] = newKey
		if g.Key != newKey {
			r.log.Info("group relabeled", zap.String("from", g.Key), zap.String("to", newKey))
		}
		g.Key = newKey
	}
	r.edits.Remap(mapping)
	if len(r.groups) == 1 {
		r.edits.Clear()
	}
	r.notify()
	return mapping, true, nil
}

// SetAttribute writes a scalar attribute from its string form. ticketAreas is
// edited through the area and tier operations instead.
func (r *Registry) SetAttribute(key string, attr model.AttributeKey, value string) error {
	switch attr {
	case model.AttrAgeRating:
		return r.SetAgeRating(key, value)
	case model.AttrCurrency:
		return r.SetGroupCurrency(key, value)
	case model.AttrAllocatedAreas:
		allocated, err := parseFlag(value)
		if err != nil {
			return apperrors.ErrInvalidInput
		}
		return r.SetAllocatedAreas(key, allocated)
	}
	return apperrors.ErrInvalidInput
}

func (r *Registry) SetAgeRating(key, rating string) error {
	g, err := r.find(key)
	if err != nil {
		return err
	}
	g.AgeRating = strings.TrimSpace(rating)
	r.touch(key, model.AttrAgeRating)
	return nil
}

// SetGroupCurrency overrides the fieldset currency for one group; empty clears the override.
func (r *Registry) SetGroupCurrency(key, code string) error {
	g, err := r.find(key)
	if err != nil {
		return err
	}
	g.Currency = strings.ToUpper(strings.TrimSpace(code))
	r.touch(key, model.AttrCurrency)
	return nil
}

func (r *Registry) SetAllocatedAreas(key string, allocated bool) error {
	g, err := r.find(key)
	if err != nil {
		return err
	}
	if dropped := g.SetAllocated(allocated); dropped > 0 {
		r.log.Debug("collapsed to undivided inventory", zap.String("key", key), zap.Int("dropped_areas", dropped))
	}
	r.touch(key, model.AttrAllocatedAreas)
	return nil
}

// AddArea appends an empty area to an allocated group. Undivided groups and
// groups at capacity are left alone and report false.
func (r *Registry) AddArea(key string) (bool, error) {
	g, err := r.find(key)
	if err != nil {
		return false, err
	}
	alloc, ok := g.Inventory.(*model.Allocated)
	if !ok || len(alloc.List) >= r.limits.MaxAreas {
		return false, nil
	}
	alloc.List = append(alloc.List, model.NewTicketArea(""))
	r.touch(key, model.AttrTicketAreas)
	return true, nil
}

// RemoveArea deletes an area; the last remaining area is cleared in place.
func (r *Registry) RemoveArea(key string, areaIdx int) error {
	g, err := r.find(key)
	if err != nil {
		return err
	}
	areas := g.Areas()
	if areaIdx < 0 || areaIdx >= len(areas) {
		return apperrors.ErrAreaNotFound
	}
	if len(areas) == 1 {
		*areas[0] = model.NewTicketArea("")
	} else {
		alloc := g.Inventory.(*model.Allocated)
		alloc.List = append(alloc.List[:areaIdx], alloc.List[areaIdx+1:]...)
	}
	r.touch(key, model.AttrTicketAreas)
	return nil
}

func (r *Registry) RenameArea(key string, areaIdx int, name string) error {
	area, err := r.area(key, areaIdx)
	if err != nil {
		return err
	}
	area.Name = strings.TrimSpace(name)
	r.touch(key, model.AttrTicketAreas)
	return nil
}

// AddTier appends an empty tier; at capacity it reports false.
func (r *Registry) AddTier(key string, areaIdx int) (bool, error) {
	area, err := r.area(key, areaIdx)
	if err != nil {
		return false, err
	}
	if len(area.Tiers) >= r.limits.MaxTiers {
		return false, nil
	}
	area.Tiers = append(area.Tiers, model.PricingTier{})
	r.touch(key, model.AttrTicketAreas)
	return true, nil
}

// RemoveTier deletes a tier; the last remaining tier is cleared in place.
func (r *Registry) RemoveTier(key string, areaIdx, tierIdx int) error {
	area, err := r.area(key, areaIdx)
	if err != nil {
		return err
	}
	if tierIdx < 0 || tierIdx >= len(area.Tiers) {
		return apperrors.ErrTierNotFound
	}
	if len(area.Tiers) == 1 {
		area.Tiers[0] = model.PricingTier{}
	} else {
		area.Tiers = append(area.Tiers[:tierIdx], area.Tiers[tierIdx+1:]...)
	}
	r.touch(key, model.AttrTicketAreas)
	return nil
}

func (r *Registry) RenameTier(key string, areaIdx, tierIdx int, name string) error {
	tier, err := r.tier(key, areaIdx, tierIdx)
	if err != nil {
		return err
	}
	tier.Name = strings.TrimSpace(name)
	r.touch(key, model.AttrTicketAreas)
	return nil
}

// SetTierPrice commits a price; unparsable input is stored as empty.
func (r *Registry) SetTierPrice(key string, areaIdx, tierIdx int, price string) error {
	tier, err := r.tier(key, areaIdx, tierIdx)
	if err != nil {
		return err
	}
	tier.Price = NormalizePrice(price)
	r.touch(key, model.AttrTicketAreas)
	return nil
}

// SetTierCurrency overrides the currency of one tier; empty inherits again.
func (r *Registry) SetTierCurrency(key string, areaIdx, tierIdx int, code string) error {
	tier, err := r.tier(key, areaIdx, tierIdx)
	if err != nil {
		return err
	}
	tier.Currency = strings.ToUpper(strings.TrimSpace(code))
	r.touch(key, model.AttrTicketAreas)
	return nil
}

// ResolveCurrency picks the tier override, then the group override, then the fieldset currency.
func (r *Registry) ResolveCurrency(g *model.TicketGroup, tier model.PricingTier) string {
	if tier.Currency != "" {
		return tier.Currency
	}
	if g.Currency != "" {
		return g.Currency
	}
	return r.currency
}

// touch flags a direct edit and notifies. Group A is the template and is never flagged.
func (r *Registry) touch(key string, attr model.AttributeKey) {
	if key != FirstKey {
		r.edits.Mark(key, attr)
	}
	r.notify()
}

func (r *Registry) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}

func (r *Registry) indexOf(key string) int {
	for i, g := range r.groups {
		if g.Key == key {
			return i
		}
	}
	return -1
}

func (r *Registry) find(key string) (*model.TicketGroup, error) {
	idx := r.indexOf(key)
	if idx < 0 {
		return nil, apperrors.ErrGroupNotFound
	}
	return r.groups[idx], nil
}

func (r *Registry) area(key string, areaIdx int) (*model.TicketArea, error) {
	g, err := r.find(key)
	if err != nil {
		return nil, err
	}
	areas := g.Areas()
	if areaIdx < 0 || areaIdx >= len(areas) {
		return nil, apperrors.ErrAreaNotFound
	}
	return areas[areaIdx], nil
}

func (r *Registry) tier(key string, areaIdx, tierIdx int) (*model.PricingTier, error) {
	area, err := r.area(key, areaIdx)
	if err != nil {
		return nil, err
	}
	if tierIdx < 0 || tierIdx >= len(area.Tiers) {
		return nil, apperrors.ErrTierNotFound
	}
	return &area.Tiers[tierIdx], nil
}

func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "yes", "on":
		return true, nil
	case "0", "no", "off", "":
		return false, nil
	}
	return strconv.ParseBool(value)
}
