package entity

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

var registerOnce sync.Once

// RegisterValidators installs the custom tags and struct rules on gin's
// validator engine. It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			e := sl.Current().Interface().(SdcTrackingEntry)
			if hhmmPattern.MatchString(e.StartTime) && hhmmPattern.MatchString(e.EndTime) && e.StartTime >= e.EndTime {
				sl.ReportError(e.EndTime, "endTime", "EndTime", "timeorder", "")
			}
		}, SdcTrackingEntry{})
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// IsHHMM reports whether s is a 24-hour HH:MM time
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// CheckTimeOrder returns ErrTimeOrder unless start is strictly before end.
// Zero-padded HH:MM strings order lexically.
func CheckTimeOrder(start, end string) error {
	if start >= end {
		return errorx.ErrTimeOrder
	}
	return nil
}

// Validate checks a record's binding tags and converts the first failure
// into an APIError naming the offending JSON field.
func Validate(obj any) error {
	RegisterValidators()

	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errorx.ErrInvalidBody.Wrap(err)
	}
	fe := verrs[0]
	if fe.Tag() == "timeorder" {
		return errorx.ErrTimeOrder
	}
	return errorx.ErrInvalidField.WithParam("Field", fe.Field()).Wrap(err)
}
