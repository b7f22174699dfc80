package handlers

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/SscSPs/ohada_reporting_app/internal/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// reportTypePattern accepts any well-formed report code. Unknown codes are
// answered with "Not Yet Implemented" by the service rather than a binding error.
var reportTypePattern = regexp.MustCompile(`^[a-z][a-z_]{1,31}$`)

// keySafePattern restricts company codes and layout names, which are printed
// into the ':' separated cache key. Surrounding spaces are trimmed by ToDomain.
var keySafePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var registerOnce sync.Once

// RegisterValidators adds the reporttype, partnertype and keysafe binding tags to gin's validator.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("reporttype", validateReportType); err != nil {
			return
		}
		if err = v.RegisterValidation("partnertype", validatePartnerType); err != nil {
			return
		}
		err = v.RegisterValidation("keysafe", validateKeySafe)
	})
	return err
}

func validateReportType(fl validator.FieldLevel) bool {
	return reportTypePattern.MatchString(fl.Field().String())
}

func validatePartnerType(fl validator.FieldLevel) bool {
	return dto.ParsePartnerType(fl.Field().String()) != domain.PartnerNone
}

func validateKeySafe(fl validator.FieldLevel) bool {
	return keySafePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}
