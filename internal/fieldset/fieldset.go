// Package fieldset ties one pricing registry and one session store together
// into the value a listing form reads and writes.
package fieldset

import (
	"encoding/json"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/pricing"
	"github.com/Zxen1/Events-Platform-sub002/internal/sessions"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type options struct {
	limits   model.Limits
	currency string
	log      *zap.Logger
}

type Option func(*options)

func WithLimits(limits model.Limits) Option {
	return func(o *options) { o.limits = limits }
}

func WithCurrency(code string) Option {
	return func(o *options) { o.currency = code }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// Fieldset is a single pricing + sessions instance. It is not safe for
// concurrent use; every instance holds its own state.
type Fieldset struct {
	registry  *pricing.Registry
	store     *sessions.Store
	listeners []func()
	depth     int
	log       *zap.Logger
}

func New(opts ...Option) *Fieldset {
	o := options{limits: model.DefaultLimits(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	f := &Fieldset{log: o.log}
	f.registry = pricing.NewRegistry(o.limits,
		pricing.WithCurrency(o.currency),
		pricing.WithLogger(o.log.Named("pricing")),
		pricing.WithOnChange(f.changed),
	)
	f.store = sessions.NewStore(f.registry, o.limits,
		sessions.WithLogger(o.log.Named("sessions")),
		sessions.WithOnChange(f.changed),
	)
	return f
}

func (f *Fieldset) Registry() *pricing.Registry { return f.registry }

func (f *Fieldset) Store() *sessions.Store { return f.store }

// GroupKeys is the read-only view the sessions side uses for its selectors.
func (f *Fieldset) GroupKeys() []string { return f.registry.GroupKeys() }

// OnChange registers a listener fired after every completed mutation.
func (f *Fieldset) OnChange(fn func()) {
	f.listeners = append(f.listeners, fn)
}

func (f *Fieldset) changed() {
	if f.depth > 0 {
		return
	}
	for _, fn := range f.listeners {
		fn()
	}
}

// batch runs fn with notifications held back and fires one afterwards.
func (f *Fieldset) batch(fn func()) {
	f.depth++
	fn()
	f.depth--
	f.changed()
}

// RemoveGroup removes a ticket group and moves session slots along with the
// relabeled keys. Slots of the removed group go to the first group. Group
// removal must go through here rather than the registry directly.
func (f *Fieldset) RemoveGroup(key string) (bool, error) {
	var (
		ok  bool
		err error
	)
	f.batch(func() {
		var mapping pricing.Relabel
		mapping, ok, err = f.registry.RemoveGroup(key)
		if ok {
			f.store.RemapGroupKeys(mapping)
		}
	})
	return ok, err
}

func (f *Fieldset) GetValue() model.FieldsetValue {
	return model.FieldsetValue{
		PricingValue:  f.registry.ToPricing(),
		SessionsValue: f.store.ToSessions(),
		Currency:      f.registry.Currency(),
	}
}

// SetValue rehydrates both halves from a saved value.
func (f *Fieldset) SetValue(value model.FieldsetValue) {
	f.batch(func() {
		if value.Currency != "" {
			_ = f.registry.SetCurrency(value.Currency)
		}
		mapping := f.registry.FromPricing(value.PricingValue)
		f.store.FromSessions(relabelSessions(value.SessionsValue, mapping))
	})
}

// SetValueJSON rehydrates from a raw saved blob, skipping malformed entries.
// It returns how many entries were skipped.
func (f *Fieldset) SetValueJSON(data []byte) int {
	pricingValue, skippedPricing := pricing.DecodePricing(data)
	sessionsValue, skippedSessions := sessions.DecodeSessions(data)

	var top struct {
		Currency string `json:"currency"`
	}
	_ = json.Unmarshal(data, &top)

	f.SetValue(model.FieldsetValue{
		PricingValue:  pricingValue,
		SessionsValue: sessionsValue,
		Currency:      top.Currency,
	})
	skipped := skippedPricing + skippedSessions
	if skipped > 0 {
		f.log.Debug("skipped malformed saved entries", zap.Int("skipped", skipped))
	}
	return skipped
}

// Snapshot captures the full state, including edit provenance.
func (f *Fieldset) Snapshot(listingID uuid.UUID) model.Draft {
	groupCurrencies, tierCurrencies := f.registry.CurrencyOverrides()
	return model.Draft{
		ListingID:           listingID,
		Value:               f.GetValue(),
		ManualEdits:         f.registry.ManualEdits(),
		GroupCurrencies:     groupCurrencies,
		TierCurrencies:      tierCurrencies,
		EditedSlots:         f.store.EditedSlots(),
		FirstGlobalEditDone: f.store.FirstGlobalEditDone(),
		UpdatedAt:           time.Now().UTC(),
	}
}

// Restore loads a snapshot taken by Snapshot.
func (f *Fieldset) Restore(draft model.Draft) {
	f.batch(func() {
		f.SetValue(draft.Value)
		f.registry.RestoreCurrencyOverrides(draft.GroupCurrencies, draft.TierCurrencies)
		f.registry.RestoreManualEdits(draft.ManualEdits)
		f.store.RestoreEditedSlots(draft.EditedSlots)
		f.store.RestoreFirstGlobalEditDone(draft.FirstGlobalEditDone)
	})
}

// relabelSessions rewrites saved slot keys to the keys the registry assigned.
// Keys without a mapping are left for the store to clamp.
func relabelSessions(value model.SessionsValue, mapping pricing.Relabel) model.SessionsValue {
	out := model.SessionsValue{Sessions: make([]model.SessionValue, len(value.Sessions))}
	for i, sv := range value.Sessions {
		times := make([]model.SlotValue, len(sv.Times))
		for j, tv := range sv.Times {
			if key, ok := mapping[tv.TicketGroupKey]; ok {
				tv.TicketGroupKey = key
			}
			times[j] = tv
		}
		out.Sessions[i] = model.SessionValue{Date: sv.Date, Times: times}
	}
	return out
}
