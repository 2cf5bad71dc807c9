package handler

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"gstbill/internal/gst"
)

var registerOnce sync.Once

// RegisterValidators adds the gstin and statecode binding tags to gin's
// validator. Must run before any request body is bound.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
			return gst.ValidGSTIN(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
		})
		_ = v.RegisterValidation("statecode", func(fl validator.FieldLevel) bool {
			_, ok := gst.ParseStateCode(fl.Field().String())
			return ok
		})
	})
}
