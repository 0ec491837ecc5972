package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const MessageValidationError = "Validation error"

// Errors maps a field path such as "title" or "books.0.author" to its messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Fields returns the failing field paths in sorted order.
func (e Errors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e Errors) orNil() Errors {
	if len(e) == 0 {
		return nil
	}
	return e
}

type ErrorResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Errors      Errors `json:"errors,omitempty"`
	IsDuplicate bool   `json:"isDuplicate,omitempty"`
}

// Messages overrides the default message for a rule. Keys are the field path
// with indexes replaced by "*" followed by the rule, e.g. "books.*.title.required".
type Messages map[string]string

// Normalizer is implemented by request types that clean their input
// (trimming strings) before rules run.
type Normalizer interface {
	Normalize()
}

// Checker is implemented by request types with rules binding tags cannot
// express. Check runs after the tag rules and adds to errs.
type Checker interface {
	Check(errs Errors)
}

var setupOnce sync.Once

func setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
		}
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

// BindAndValidateJSON decodes the body into dst and validates it, writing a
// 422 response and returning false when anything is wrong.
func BindAndValidateJSON(c *gin.Context, dst any, msgs Messages) bool {
	if errs := ValidateJSON(c, dst, msgs); errs != nil {
		Abort(c, errs)
		return false
	}
	return true
}

// BindAndValidateQuery is BindAndValidateJSON for query parameters.
func BindAndValidateQuery(c *gin.Context, dst any) bool {
	if errs := ValidateQuery(c, dst); errs != nil {
		Abort(c, errs)
		return false
	}
	return true
}

func Abort(c *gin.Context, errs Errors) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Success: false,
		Message: MessageValidationError,
		Errors:  errs,
	})
}

// ValidateJSON decodes the request body into dst, normalizes it and runs the
// binding rules. An empty body is validated as an empty object.
func ValidateJSON(c *gin.Context, dst any, msgs Messages) Errors {
	setup()

	if c.Request.Body != nil {
		err := json.NewDecoder(c.Request.Body).Decode(dst)
		switch {
		case err == nil, errors.Is(err, io.EOF):
		default:
			return decodeErrors(err)
		}
	}

	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}

	errs := validateStruct(dst, msgs, nil)
	if ch, ok := dst.(Checker); ok {
		if errs == nil {
			errs = Errors{}
		}
		ch.Check(errs)
		errs = errs.orNil()
	}
	return errs
}

// ValidateQuery maps query parameters onto dst using its form tags. Integer
// fields that do not parse are reported instead of failing the whole bind;
// empty parameters count as absent.
func ValidateQuery(c *gin.Context, dst any) Errors {
	setup()

	values := make(map[string][]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) == 0 || strings.TrimSpace(v[0]) == "" {
			continue
		}
		values[k] = []string{strings.TrimSpace(v[0])}
	}

	errs := Errors{}
	for _, key := range integerFields(dst) {
		v, ok := values[key]
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(v[0]); err != nil {
			errs.Add(key, fmt.Sprintf("The %s field must be an integer.", display(key)))
			delete(values, key)
		}
	}

	if err := binding.MapFormWithTag(dst, values, "form"); err != nil {
		errs.Add("query", "The query string is invalid.")
		return errs
	}

	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}

	return validateStruct(dst, nil, errs)
}

func validateStruct(dst any, msgs Messages, errs Errors) Errors {
	if errs == nil {
		errs = Errors{}
	}

	err := binding.Validator.ValidateStruct(dst)
	if err == nil {
		return errs.orNil()
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("body", err.Error())
		return errs
	}

	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if errs.Has(key) {
			continue
		}
		errs.Add(key, buildMessage(key, fe, msgs))
	}

	return errs.orNil()
}

func decodeErrors(err error) Errors {
	errs := Errors{}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs.Add(typeErr.Field, fmt.Sprintf("The %s field must be %s.", display(typeErr.Field), kindName(typeErr.Type)))
		return errs
	}

	errs.Add("body", "The request body must be valid JSON.")
	return errs
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// fieldPath turns "BulkCreateBooksRequest.books[0].title" into "books.0.title".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}
	return indexPattern.ReplaceAllString(rest, ".$1")
}

var numericSegment = regexp.MustCompile(`(^|\.)\d+(\.|$)`)

func wildcard(path string) string {
	for {
		next := numericSegment.ReplaceAllString(path, "$1*$2")
		if next == path {
			return path
		}
		path = next
	}
}

func display(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func buildMessage(key string, fe validator.FieldError, msgs Messages) string {
	if msg, ok := msgs[wildcard(key)+"."+fe.Tag()]; ok {
		return msg
	}

	name := display(key)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "min":
		switch fe.Kind() {
		case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
			if fe.Param() == "1" {
				return fmt.Sprintf("The %s field is required.", name)
			}
			if fe.Kind() == reflect.String {
				return fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
			}
			return fmt.Sprintf("The %s field must have at least %s items.", name, fe.Param())
		default:
			return fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("The %s field must not have more than %s items.", name, fe.Param())
		default:
			return fmt.Sprintf("The %s field must not be greater than %s.", name, fe.Param())
		}
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "valid"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Bool:
		return "true or false"
	default:
		return "valid"
	}
}

// integerFields lists the form names of int and *int fields of a struct pointer.
func integerFields(dst any) []string {
	t := reflect.TypeOf(dst)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			continue
		}
		if name, _, _ := strings.Cut(f.Tag.Get("form"), ","); name != "" && name != "-" {
			out = append(out, name)
		}
	}
	return out
}
