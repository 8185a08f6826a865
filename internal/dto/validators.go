package dto

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/paintworks/pw_backend/internal/core/domain"
)

// RegisterCustomValidations wires domain-aware validation tags into gin's
// binding validator. Call once at startup.
func RegisterCustomValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("employeetype", validEmployeeType)
	_ = v.RegisterValidation("projectstatus", validProjectStatus)
}

// validEmployeeType accepts any spelling ParseEmployeeType recognises.
func validEmployeeType(fl validator.FieldLevel) bool {
	_, ok := domain.ParseEmployeeType(fl.Field().String())
	return ok
}

// validProjectStatus accepts the canonical status values plus the legacy
// spellings NormalizeStatus coerces ("in progress", "done", any casing).
func validProjectStatus(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "quotation", "approved",
		"in-progress", "in progress", "inprogress",
		"completed", "complete", "done":
		return true
	}
	return false
}
