// Package validate runs struct-tag validation on request payloads.
//
// Rules are go-playground/validator tags. Errors are returned as a map of
// JSON field name to a human readable message:
//
//	type Input struct {
//	    Name     string `json:"name"     validate:"required,max=50"`
//	    Email    string `json:"email"    validate:"required,email"`
//	    Phone    string `json:"phone"    validate:"omitempty,vnphone"`
//	    Product  string `json:"product"  validate:"required,objectid"`
//	}
//
// Custom rules registered here:
//
//	objectid   24 character hex MongoDB ObjectID
//	vnphone    10 or 11 digit phone number
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	once sync.Once
	v    *validator.Validate
)

var phoneRe = regexp.MustCompile(`^[0-9]{10,11}$`)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(fl.Field().String())
		})
	})
	return v
}

// Struct validates s. Returns a map of field → error message; an empty map
// means no errors. Nested fields are keyed by their dotted JSON path.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := instance().Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: not a struct; nothing to report per field.
		return errs
	}

	for _, fe := range verrs {
		key := fieldPath(fe)
		if _, exists := errs[key]; exists {
			continue
		}
		errs[key] = message(fe)
	}
	return errs
}

// Var validates a single value against tag.
func Var(value interface{}, tag string) error {
	return instance().Var(value, tag)
}

// HasErrors reports whether Struct returned any failures.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// fieldPath drops the root struct name from the namespace:
// "createOrderInput.shippingAddress.name" → "shippingAddress.name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s là bắt buộc", field)
	case "email":
		return "Email không hợp lệ"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s phải có ít nhất %s ký tự", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s phải có ít nhất %s phần tử", field, fe.Param())
		}
		return fmt.Sprintf("%s phải lớn hơn hoặc bằng %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s không được vượt quá %s ký tự", field, fe.Param())
		}
		return fmt.Sprintf("%s phải nhỏ hơn hoặc bằng %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s phải lớn hơn hoặc bằng %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s phải nhỏ hơn hoặc bằng %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s phải là một trong: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "objectid":
		return fmt.Sprintf("%s không phải là ID hợp lệ", field)
	case "vnphone":
		return "Số điện thoại không hợp lệ"
	case "hexcolor":
		return fmt.Sprintf("%s phải là mã màu hợp lệ", field)
	case "url", "uri":
		return fmt.Sprintf("%s phải là đường dẫn hợp lệ", field)
	default:
		return fmt.Sprintf("%s không hợp lệ (%s)", field, fe.Tag())
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
