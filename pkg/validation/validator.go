package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Init points Gin's validator at json field names and registers the
// catalog's custom rules. Safe to call more than once.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterAlias("pwd", "min=8")
		v.RegisterAlias("productname", "min=3,max=100")
		// surrounding whitespace is tolerated; callers normalize before use
		_ = v.RegisterValidation("trimmedemail", func(fl validator.FieldLevel) bool {
			return v.Var(strings.TrimSpace(fl.Field().String()), "email") == nil
		})
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return map[string]string{ute.Field: "must be a " + ute.Type.String()}
	}
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Query string values that fail to parse
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return map[string]string{"query": "invalid number " + strconv.Quote(ne.Num)}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}
	return map[string]string{"payload": "invalid payload"}
}

// fixedMessages covers tags whose message does not depend on the parameter.
var fixedMessages = map[string]string{
	"required":     "is required",
	"email":        "must be a valid email",
	"trimmedemail": "must be a valid email",
	"notblank":     "must not be blank",
	"pwd":          "min length 8",
	"productname":  "must be between 3 and 100 characters long",
}

// boundMessages are prefixes completed with the tag parameter.
var boundMessages = map[string]string{
	"gt":  "must be greater than ",
	"gte": "must be greater than or equal to ",
	"lt":  "must be less than ",
	"lte": "must be less than or equal to ",
}

func formatFieldError(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if prefix, ok := boundMessages[tag]; ok {
		return prefix + param
	}

	switch tag {
	case "min", "max":
		word := "least"
		if tag == "max" {
			word = "most"
		}
		if isNumberKind(fe.Kind()) {
			return fmt.Sprintf("must be at %s %s", word, param)
		}
		return fmt.Sprintf("must be at %s %s characters long", word, param)
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	}
	if param != "" {
		return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
	}
	return fmt.Sprintf("validation failed for '%s'", tag)
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
