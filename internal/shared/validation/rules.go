package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/telconova/portal/internal/shared/jsonval"
)

// Custom tags registered on every engine by Install.
const (
	TagNotBlank       = "notblank"
	TagPhone          = "phone"
	TagIdentification = "identification"
)

var passwordRule = "min=" + strconv.Itoa(MinPasswordLength)

var (
	phonePattern          = regexp.MustCompile(`^\+?[\d\s\-()]{7,}$`)
	identificationPattern = regexp.MustCompile(`^\d{6,}$`)
)

// engine uses gin's tag name so the same struct tags drive ShouldBindJSON
// and service-side checks.
var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	Install(v)
	return v
}

// Install registers the portal rules on v: JSON field names in errors,
// jsonval.Value checked as its string form, and the custom tags.
func Install(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if value, ok := field.Interface().(jsonval.Value); ok {
			return value.String()
		}
		return nil
	}, jsonval.Value{})
	must(v.RegisterValidation(TagNotBlank, validators.NotBlank))
	must(v.RegisterValidation(TagPhone, isPhone))
	must(v.RegisterValidation(TagIdentification, func(fl validator.FieldLevel) bool {
		return identificationPattern.MatchString(fl.Field().String())
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

func isPhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !phonePattern.MatchString(value) {
		return false
	}
	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 7
}

// messages is keyed by "<json field>.<tag>". notblank and required share the
// ".required" entry.
var messages = map[string]string{
	"email.required":                "El email es requerido",
	"email.email":                   "Email inválido",
	"password.required":             "La contraseña es requerida",
	"password.min":                  "La contraseña debe tener al menos 8 caracteres",
	"nombre.required":               "El nombre es requerido",
	"numero_iden.required":          "El número de identificación es requerido",
	"name.required":                 "El nombre es requerido",
	"identification.required":       "La identificación es requerida",
	"identification.identification": "La identificación debe contener solo números y al menos 6 dígitos",
	"phone.required":                "El teléfono es requerido",
	"phone.phone":                   "Formato de teléfono inválido",
	"address.required":              "La dirección es requerida",
	"activity.required":             "La actividad es requerida",
	"activity.oneof":                "Actividad no válida: %v",
	"priority.required":             "La prioridad es requerida",
	"priority.oneof":                "Prioridad no válida: %v",
	"clientId.required":             "Debe seleccionar un cliente",
	"description.required":          "La descripción es requerida",
}

func message(fe validator.FieldError) string {
	tag := fe.Tag()
	if tag == TagNotBlank {
		tag = "required"
	}
	tmpl, ok := messages[fe.Field()+"."+tag]
	if !ok {
		return fmt.Sprintf("Valor inválido (%s)", fe.Tag())
	}
	if strings.Contains(tmpl, "%v") {
		return fmt.Sprintf(tmpl, fe.Value())
	}
	return tmpl
}

// FromError converts validator errors, as returned by Check or by gin's
// ShouldBind*, into FieldErrors. ok is false for any other error.
func FromError(err error) (FieldErrors, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return fields, true
}

// Check validates form against its binding tags.
func Check(form any) FieldErrors {
	err := engine.Struct(form)
	if err == nil {
		return FieldErrors{}
	}
	if fields, ok := FromError(err); ok {
		return fields
	}
	return FieldErrors{"form": err.Error()}
}
