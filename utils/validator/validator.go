package validatorx

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"time"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/muhammadheryan/crm/constant"
)

var (
	v    *gpvalidator.Validate
	once sync.Once
)

// Init initializes the validator singleton (idempotent)
func Init() {
	once.Do(build)
}

func build() {
	nv := gpvalidator.New()
	nv.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = nv.RegisterValidation("contact_status", func(fl gpvalidator.FieldLevel) bool {
		return constant.ContactStatus(fl.Field().String()).Valid()
	})
	_ = nv.RegisterValidation("date", func(fl gpvalidator.FieldLevel) bool {
		_, err := time.Parse(constant.DateLayout, fl.Field().String())
		return err == nil
	})
	v = nv
}

// ValidateStruct validates a struct using go-playground/validator
func ValidateStruct(s interface{}) error {
	Init()
	return v.Struct(s)
}

// FieldErrors flattens validation errors into json field name -> message.
// It returns nil when err does not come from the validator.
func FieldErrors(err error) map[string]string {
	var verrs gpvalidator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe gpvalidator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "contact_status":
		return "must be one of future rejected lead"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	}
	return "is invalid"
}
