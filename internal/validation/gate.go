// Package validation is the boundary check applied to every incoming payload.
//
// A Schema is plain data: an ordered list of rules, each naming a field path,
// the kind of value expected there and a go-playground/validator tag with the
// constraints. The Gate evaluates every rule against a copy of the payload,
// coercing values as it goes, and reports all failures together. The caller
// only ever sees the coerced copy when nothing failed.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"pizza-builder-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Kind int

const (
	String Kind = iota
	Number
	Integer
	Bool
	Array
	Object
	// Single accepts an object or an array of at most one object and
	// normalises it to the object (or nothing).
	Single
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Bool:
		return "boolean"
	case Array:
		return "array"
	case Object, Single:
		return "object"
	}
	return "value"
}

// Rule constrains the value(s) at Path. A "*" segment addresses every element
// of an array; errors carry the concrete path, e.g. orderDetails[1].quantity.
type Rule struct {
	Path     string
	Kind     Kind
	Tag      string
	Optional bool
	Default  any
	Message  string
}

type Schema struct {
	Name  string
	Rules []Rule
}

type Options struct {
	// MaxToppingAmount bounds the per-topping multiplier. Defaults to 3.
	MaxToppingAmount int
}

type Gate struct {
	v       *validator.Validate
	schemas map[string]Schema
}

var (
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-()+]+$`)
)

// NewGate returns a gate with the built-in schemas registered.
func NewGate(opts Options) *Gate {
	if opts.MaxToppingAmount < 1 {
		opts.MaxToppingAmount = 3
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "zip", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "itemtype", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, t := range models.ItemTypes {
			if string(t) == s {
				return true
			}
		}
		return false
	})
	mustRegister(v, "orderstatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, st := range models.OrderStatuses {
			if string(st) == s {
				return true
			}
		}
		return false
	})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	g := &Gate{v: v, schemas: make(map[string]Schema)}
	for _, s := range builtinSchemas(opts) {
		g.Register(s)
	}
	return g
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// Register adds or replaces a schema.
func (g *Gate) Register(s Schema) {
	g.schemas[s.Name] = s
}

// Check validates payload against the named schema. On success it returns a
// coerced copy; otherwise a *Errors listing every violation. payload itself is
// never modified.
func (g *Gate) Check(name string, payload map[string]any) (map[string]any, error) {
	schema, ok := g.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}

	doc, _ := deepCopy(payload).(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}

	errs := &Errors{}
	for _, rule := range schema.Rules {
		for _, s := range expand(doc, rule.Path) {
			g.apply(rule, s, errs)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// CheckID validates a path identifier against the store's id format.
func (g *Gate) CheckID(id string) error {
	_, err := g.Check(SchemaObjectID, map[string]any{"id": id})
	return err
}

// Decode checks payload and unmarshals the coerced result into dst.
func (g *Gate) Decode(name string, payload map[string]any, dst any) error {
	doc, err := g.Check(name, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("re-encode %s payload: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", name, err)
	}
	return nil
}

// Struct validates a request struct by its `validate` tags. Field names in
// the result are the json names.
func (g *Gate) Struct(v any) error {
	err := g.v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := &Errors{}
	for _, fe := range verrs {
		errs.Add(fe.Field(), structMessage(fe))
	}
	return errs
}

func structMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please provide a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "orderstatus":
		return "Status must be one of: processing, completed, delivered, archived, cancelled"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}

func (g *Gate) apply(rule Rule, s slot, errs *Errors) {
	val, present := s.get()
	if !present || val == nil {
		switch {
		case rule.Default != nil:
			s.set(rule.Default)
		case !rule.Optional:
			errs.Add(s.path, message(rule, s.path+" is required"))
		}
		return
	}

	coerced, ok := coerce(rule.Kind, val)
	if !ok {
		errs.Add(s.path, message(rule, fmt.Sprintf("%s must be of type %s", s.path, rule.Kind)))
		return
	}

	switch rule.Kind {
	case String:
		str := coerced.(string)
		if str == "" {
			// an optional blank is treated as absent
			s.set(nil)
			if !rule.Optional {
				errs.Add(s.path, message(rule, s.path+" is required"))
			}
			return
		}
		s.set(str)
	case Single:
		list, isList := coerced.([]any)
		if isList {
			switch len(list) {
			case 0:
				s.set(nil)
				if !rule.Optional {
					errs.Add(s.path, message(rule, s.path+" is required"))
				}
				return
			case 1:
				obj, isObj := list[0].(map[string]any)
				if !isObj {
					errs.Add(s.path, message(rule, s.path+" must be an object"))
					return
				}
				coerced = obj
			default:
				errs.Add(s.path, message(rule, "Only one "+s.path+" may be selected"))
				return
			}
		}
		s.set(coerced)
	default:
		s.set(coerced)
	}

	if rule.Tag == "" {
		return
	}
	if err := g.v.Var(coerced, rule.Tag); err != nil {
		errs.Add(s.path, message(rule, describe(s.path, err)))
	}
}

func message(rule Rule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}

func describe(path string, err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", path, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", path, fe.Tag())
	}
	return path + " is invalid"
}

func coerce(kind Kind, val any) (any, bool) {
	switch kind {
	case String:
		switch v := val.(type) {
		case string:
			return strings.TrimSpace(v), true
		case float64:
			if v == math.Trunc(v) {
				return strconv.FormatFloat(v, 'f', -1, 64), true
			}
		case json.Number:
			return v.String(), true
		}
	case Number:
		switch v := val.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case json.Number:
			f, err := v.Float64()
			return f, err == nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
		}
	case Integer:
		f, ok := coerce(Number, val)
		if !ok {
			return nil, false
		}
		n := f.(float64)
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return nil, false
		}
		return int(n), true
	case Bool:
		switch v := val.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			return b, err == nil
		}
	case Array:
		v, ok := val.([]any)
		return v, ok
	case Object:
		v, ok := val.(map[string]any)
		return v, ok
	case Single:
		switch v := val.(type) {
		case map[string]any:
			return v, true
		case []any:
			return v, true
		}
	}
	return nil, false
}

// slot is one addressable location in the payload.
type slot struct {
	path string
	get  func() (any, bool)
	set  func(any)
}

func expand(doc map[string]any, path string) []slot {
	var out []slot
	walk(doc, strings.Split(path, "."), "", &out)
	return out
}

func walk(cur any, segs []string, prefix string, out *[]slot) {
	seg, rest := segs[0], segs[1:]

	if seg == "*" {
		arr, ok := cur.([]any)
		if !ok {
			return
		}
		for i := range arr {
			p := fmt.Sprintf("%s[%d]", prefix, i)
			if len(rest) == 0 {
				idx := i
				*out = append(*out, slot{
					path: p,
					get:  func() (any, bool) { return arr[idx], true },
					set:  func(v any) { arr[idx] = v },
				})
				continue
			}
			walk(arr[i], rest, p, out)
		}
		return
	}

	m, ok := cur.(map[string]any)
	if !ok {
		return
	}
	p := seg
	if prefix != "" {
		p = prefix + "." + seg
	}
	if len(rest) == 0 {
		key := seg
		*out = append(*out, slot{
			path: p,
			get: func() (any, bool) {
				v, ok := m[key]
				return v, ok
			},
			set: func(v any) {
				if v == nil {
					delete(m, key)
					return
				}
				m[key] = v
			},
		})
		return
	}
	next, ok := m[seg]
	if !ok || next == nil {
		return
	}
	walk(next, rest, p, out)
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = deepCopy(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = deepCopy(val)
		}
		return s
	}
	return v
}
