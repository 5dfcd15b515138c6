package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Zxen1/Events-Platform-sub002/internal/fieldset"
	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/internal/service"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"
	"github.com/Zxen1/Events-Platform-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ListingHandler struct {
	service service.ListingService
}

func NewListingHandler(service service.ListingService) *ListingHandler {
	RegisterValidators()
	return &ListingHandler{service: service}
}

func (h *ListingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("ping", h.Ping)
		router.GET("currencies", h.GetCurrencies)

		router.GET("listings", h.GetListings)
		router.POST("listings", h.CreateListing)
		router.GET("listings/:uuid", h.GetListing)
		router.PUT("listings/:uuid/value", h.SetValue)
		router.POST("listings/:uuid/commit", h.CommitListing)
		router.PUT("listings/:uuid/currency", h.SetCurrency)

		router.POST("listings/:uuid/groups", h.AddGroup)
		router.PUT("listings/:uuid/groups/:key", h.UpdateGroup)
		router.DELETE("listings/:uuid/groups/:key", h.RemoveGroup)

		router.POST("listings/:uuid/groups/:key/areas", h.AddArea)
		router.PUT("listings/:uuid/groups/:key/areas/:area", h.RenameArea)
		router.DELETE("listings/:uuid/groups/:key/areas/:area", h.RemoveArea)

		router.POST("listings/:uuid/groups/:key/areas/:area/tiers", h.AddTier)
		router.PUT("listings/:uuid/groups/:key/areas/:area/tiers/:tier", h.UpdateTier)
		router.DELETE("listings/:uuid/groups/:key/areas/:area/tiers/:tier", h.RemoveTier)

		router.POST("listings/:uuid/dates/:date/toggle", h.ToggleDate)
		router.PUT("listings/:uuid/dates/:date/slots/:index", h.SetSlotTime)
		router.POST("listings/:uuid/dates/:date/slots/:index", h.InsertSlot)
		router.DELETE("listings/:uuid/dates/:date/slots/:index", h.RemoveSlot)
		router.PUT("listings/:uuid/dates/:date/slots/:index/group", h.SetSlotGroup)
	}
}

func (h *ListingHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func (h *ListingHandler) GetCurrencies(c *gin.Context) {
	h.handleListingSuccess(c, gin.H{"currencies": h.service.Currencies()}, http.StatusOK)
}

func (h *ListingHandler) GetListings(c *gin.Context) {
	listings, err := h.service.ListListings(c)
	if err != nil {
		h.handleListingError(c, err, "GetListings")
		return
	}

	h.handleListingSuccess(c, listings, http.StatusOK)
}

func (h *ListingHandler) CreateListing(c *gin.Context) {
	draft, err := h.service.CreateDraft(c)
	if err != nil {
		h.handleListingError(c, err, "CreateListing")
		return
	}

	h.handleListingSuccess(c, draft, http.StatusCreated)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	value, err := h.service.GetValue(c, id)
	if err != nil {
		h.handleListingError(c, err, "GetListing")
		return
	}

	h.handleListingSuccess(c, value, http.StatusOK)
}

// SetValue rehydrates the draft from a raw saved blob. Malformed entries are
// skipped and counted rather than rejected.
func (h *ListingHandler) SetValue(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	blob, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.handleListingError(c, apperrors.ErrInvalidInput, "SetValue")
		return
	}
	value, skipped, err := h.service.SetValue(c, id, blob)
	if err != nil {
		h.handleListingError(c, err, "SetValue")
		return
	}

	h.handleListingSuccess(c, model.SetValueResponse{Skipped: skipped, Value: value}, http.StatusOK)
}

func (h *ListingHandler) CommitListing(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	listing, err := h.service.Commit(c, id)
	if err != nil {
		h.handleListingError(c, err, "CommitListing")
		return
	}

	h.handleListingSuccess(c, listing, http.StatusAccepted)
}

func (h *ListingHandler) SetCurrency(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	var req model.SetCurrencyRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.apply(c, id, "SetCurrency", func(f *fieldset.Fieldset) (bool, error) {
		return true, f.Registry().SetCurrency(req.Currency)
	})
}

func (h *ListingHandler) AddGroup(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	h.apply(c, id, "AddGroup", func(f *fieldset.Fieldset) (bool, error) {
		_, added := f.Registry().AddGroup()
		return added, nil
	})
}

func (h *ListingHandler) UpdateGroup(c *gin.Context) {
	var uri model.GroupUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	var req model.GroupAttributesRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "UpdateGroup", func(f *fieldset.Fieldset) (bool, error) {
		r := f.Registry()
		if req.AgeRating != nil {
			if err := r.SetAgeRating(uri.Key, *req.AgeRating); err != nil {
				return false, err
			}
		}
		if req.Currency != nil {
			if err := r.SetGroupCurrency(uri.Key, *req.Currency); err != nil {
				return false, err
			}
		}
		if req.AllocatedAreas != nil {
			if err := r.SetAllocatedAreas(uri.Key, *req.AllocatedAreas); err != nil {
				return false, err
			}
		}
		return true, nil
	})
}

func (h *ListingHandler) RemoveGroup(c *gin.Context) {
	var uri model.GroupUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "RemoveGroup", func(f *fieldset.Fieldset) (bool, error) {
		return f.RemoveGroup(uri.Key)
	})
}

func (h *ListingHandler) AddArea(c *gin.Context) {
	var uri model.GroupUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "AddArea", func(f *fieldset.Fieldset) (bool, error) {
		return f.Registry().AddArea(uri.Key)
	})
}

func (h *ListingHandler) RenameArea(c *gin.Context) {
	var uri model.AreaUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	var req model.RenameAreaRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "RenameArea", func(f *fieldset.Fieldset) (bool, error) {
		return true, f.Registry().RenameArea(uri.Key, uri.Area, req.Name)
	})
}

func (h *ListingHandler) RemoveArea(c *gin.Context) {
	var uri model.AreaUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "RemoveArea", func(f *fieldset.Fieldset) (bool, error) {
		return true, f.Registry().RemoveArea(uri.Key, uri.Area)
	})
}

func (h *ListingHandler) AddTier(c *gin.Context) {
	var uri model.AreaUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "AddTier", func(f *fieldset.Fieldset) (bool, error) {
		return f.Registry().AddTier(uri.Key, uri.Area)
	})
}

func (h *ListingHandler) UpdateTier(c *gin.Context) {
	var uri model.TierUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	var req model.UpdateTierRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "UpdateTier", func(f *fieldset.Fieldset) (bool, error) {
		r := f.Registry()
		if req.Name != nil {
			if err := r.RenameTier(uri.Key, uri.Area, uri.Tier, *req.Name); err != nil {
				return false, err
			}
		}
		if req.Price != nil {
			if err := r.SetTierPrice(uri.Key, uri.Area, uri.Tier, *req.Price); err != nil {
				return false, err
			}
		}
		if req.Currency != nil {
			if err := r.SetTierCurrency(uri.Key, uri.Area, uri.Tier, *req.Currency); err != nil {
				return false, err
			}
		}
		return true, nil
	})
}

func (h *ListingHandler) RemoveTier(c *gin.Context) {
	var uri model.TierUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "RemoveTier", func(f *fieldset.Fieldset) (bool, error) {
		return true, f.Registry().RemoveTier(uri.Key, uri.Area, uri.Tier)
	})
}

func (h *ListingHandler) ToggleDate(c *gin.Context) {
	var uri model.DateUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	id, err := uuid.Parse(uri.ListingID)
	if err != nil {
		h.handleListingError(c, apperrors.ErrInvalidInput, "ToggleDate")
		return
	}
	var selected bool
	value, err := h.service.Apply(c, id, func(f *fieldset.Fieldset) error {
		var err error
		selected, err = f.Store().ToggleDate(uri.Date)
		return err
	})
	if err != nil {
		h.handleListingError(c, err, "ToggleDate")
		return
	}

	h.handleListingSuccess(c, model.ToggleDateResponse{Selected: selected, Value: value}, http.StatusOK)
}

func (h *ListingHandler) SetSlotTime(c *gin.Context) {
	var uri model.SlotUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	var req model.SetSlotTimeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	id, err := uuid.Parse(uri.ListingID)
	if err != nil {
		h.handleListingError(c, apperrors.ErrInvalidInput, "SetSlotTime")
		return
	}
	var touched []string
	value, err := h.service.Apply(c, id, func(f *fieldset.Fieldset) error {
		var err error
		touched, err = f.Store().SetSlotTime(uri.Date, uri.Index, req.Time)
		return err
	})
	if err != nil {
		h.handleListingError(c, err, "SetSlotTime")
		return
	}

	h.handleListingSuccess(c, model.SetSlotTimeResponse{Touched: touched, Value: value}, http.StatusOK)
}

func (h *ListingHandler) InsertSlot(c *gin.Context) {
	var uri model.SlotUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "InsertSlot", func(f *fieldset.Fieldset) (bool, error) {
		return f.Store().InsertSlot(uri.Date, uri.Index)
	})
}

func (h *ListingHandler) RemoveSlot(c *gin.Context) {
	var uri model.SlotUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "RemoveSlot", func(f *fieldset.Fieldset) (bool, error) {
		return true, f.Store().RemoveSlot(uri.Date, uri.Index)
	})
}

func (h *ListingHandler) SetSlotGroup(c *gin.Context) {
	var uri model.SlotUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	var req model.SetSlotGroupRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.applyTo(c, uri.ListingID, "SetSlotGroup", func(f *fieldset.Fieldset) (bool, error) {
		return true, f.Store().SetSlotGroup(uri.Date, uri.Index, req.TicketGroupKey)
	})
}

// Helper functions

func (h *ListingHandler) listingID(c *gin.Context) (uuid.UUID, bool) {
	var uri model.ListingUri
	if err := BindUri(c, &uri); err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(uri.ListingID)
	if err != nil {
		h.handleListingError(c, apperrors.ErrInvalidInput, "ParseListingID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ListingHandler) applyTo(c *gin.Context, listingID string, operation string, op func(f *fieldset.Fieldset) (bool, error)) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		h.handleListingError(c, apperrors.ErrInvalidInput, operation)
		return
	}
	h.apply(c, id, operation, op)
}

// apply runs an edit through the service and reports whether it took effect.
func (h *ListingHandler) apply(c *gin.Context, id uuid.UUID, operation string, op func(f *fieldset.Fieldset) (bool, error)) {
	var applied bool
	value, err := h.service.Apply(c, id, func(f *fieldset.Fieldset) error {
		var err error
		applied, err = op(f)
		return err
	})
	if err != nil {
		h.handleListingError(c, err, operation)
		return
	}

	h.handleListingSuccess(c, model.MutationResponse{Applied: applied, Value: value}, http.StatusOK)
}

func (h *ListingHandler) handleListingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrListingNotFound),
		errors.Is(err, apperrors.ErrGroupNotFound),
		errors.Is(err, apperrors.ErrAreaNotFound),
		errors.Is(err, apperrors.ErrTierNotFound),
		errors.Is(err, apperrors.ErrDateNotFound),
		errors.Is(err, apperrors.ErrSlotNotFound):
		log.Warn("Resource not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrUnknownGroupKey),
		errors.Is(err, apperrors.ErrInvalidCurrency),
		errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *ListingHandler) handleListingSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
