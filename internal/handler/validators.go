package handler

import (
	"sync"

	"github.com/Zxen1/Events-Platform-sub002/internal/sessions"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the isodate rule to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("isodate", validateISODate)
	})
}

func validateISODate(fl validator.FieldLevel) bool {
	_, _, ok := sessions.ParseDate(fl.Field().String())
	return ok
}
