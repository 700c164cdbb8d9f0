package fixture

import "errors"

// DefaultMethod is the property name a declaration helper is installed
// under when no method name is given.
const DefaultMethod = "set"

type SlotState uint8

const (
	Undeclared SlotState = iota // no property installed at the name
	Pending                     // subject stored, getter has not produced a value yet
	Resolved                    // value memoized, repeated gets short-circuit
)

// Factory is the canonical subject shape: invoked at most once per
// declaration, with the owning context so it can read sibling properties.
// Other callable shapes are accepted too, see Get.
type Factory func(*Context) (any, error)

// Double is how mocks and spies opt out of invocation. A subject with call
// introspection is wired up to observe calls made by the code under test,
// so the getter hands it back untouched instead of invoking it.
type Double interface {
	CallCount() int
}

type literalValue struct {
	v any
}

// Literal marks a value as plain data, so a callable can be stored as the
// resolved value itself rather than run as its factory.
func Literal(value any) any {
	return literalValue{v: value}
}

func unwrap(value any) (subject any, literal bool) {
	if lv, ok := value.(literalValue); ok {
		return lv.v, true
	}
	return value, false
}

var (
	ErrEmptyName  = errors.New("property name must not be empty")
	ErrSealed     = errors.New("context is sealed against property definition")
	ErrUndeclared = errors.New("property is not declared")
)
