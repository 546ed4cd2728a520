// Package schema validates the sign-in and registration forms.
//
// Each rule carries the human readable message shown next to the field.
// Validation stops at the first broken rule of a field, so a field reports at most one message.
package schema

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// Field names as posted by the forms.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldRememberMe      = "rememberMe"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	specialRe  = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// messages maps field and tag to the message shown to the user.
var messages = map[string]map[string]string{ //nolint:gochecknoglobals
	FieldUsername: {
		"minlen":   "Username must be at least 3 characters",
		"maxlen":   "Username must be less than 20 characters",
		"username": "Username can only contain letters, numbers, and underscores",
	},
	FieldEmail: {
		"email": "Please enter a valid email address",
	},
	FieldPassword: {
		"minlen":    "Password must be at least 8 characters",
		"required":  "Password is required",
		"pwlower":   "Password must contain at least one lowercase letter",
		"pwupper":   "Password must contain at least one uppercase letter",
		"pwdigit":   "Password must contain at least one number",
		"pwspecial": "Password must contain at least one special character",
	},
	FieldConfirmPassword: {
		"eqfield": "Passwords don't match",
	},
}

// Register is the registration form.
type Register struct {
	Username        string `form:"username"        json:"username"        validate:"minlen=3,maxlen=20,username"`
	Email           string `form:"email"           json:"email"           validate:"email"`
	Password        string `form:"password"        json:"password"        validate:"minlen=8,pwlower,pwupper,pwdigit,pwspecial"` //nolint:lll
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"eqfield=Password"`
}

// Signin is the sign-in form. RememberMe is false unless the form sends it.
type Signin struct {
	Email      string `form:"email"      json:"email"      validate:"email"`
	Password   string `form:"password"   json:"password"   validate:"required"`
	RememberMe bool   `form:"rememberMe" json:"rememberMe"`
}

// FieldError is one validation failure of a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the ordered list of field errors of a form.
type Errors []FieldError

// Error implements error.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}

	return strings.Join(parts, "; ")
}

// ByField returns the message per field, for templates.
func (e Errors) ByField() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}

	return out
}

var (
	validate     *validator.Validate //nolint:gochecknoglobals
	validateOnce sync.Once           //nolint:gochecknoglobals
)

func regexRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// textLen counts UTF-16 code units, the way browsers measure input length.
// Characters outside the Basic Multilingual Plane count twice.
func textLen(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}

	return n
}

func lenRule(cmp func(n, limit int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			panic("schema: bad length parameter " + fl.Param())
		}

		return cmp(textLen(fl.Field().String()), limit)
	}
}

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// report fields by their form name
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			return name
		})

		rules := map[string]*regexp.Regexp{
			"username":  usernameRe,
			"pwlower":   lowerRe,
			"pwupper":   upperRe,
			"pwdigit":   digitRe,
			"pwspecial": specialRe,
		}
		for tag, re := range rules {
			if err := v.RegisterValidation(tag, regexRule(re)); err != nil {
				panic(err)
			}
		}

		lengths := map[string]validator.Func{
			"minlen": lenRule(func(n, limit int) bool { return n >= limit }),
			"maxlen": lenRule(func(n, limit int) bool { return n <= limit }),
		}
		for tag, fn := range lengths {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}

		validate = v
	})

	return validate
}

// Validate checks form against its rules. It returns nil or Errors.
func Validate(form any) error {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err //nolint:wrapcheck
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe.Field(), fe.Tag())})
	}

	return out
}

func message(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}

	return "Invalid value"
}
