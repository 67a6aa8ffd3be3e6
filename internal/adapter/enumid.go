package adapter

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// EnumID is implemented by enumerated types that travel over JSON as an
// external identifier rather than their Go value. An empty ID is written as
// null.
type EnumID interface {
	ID() string
}

// IDParser is the conventional decode capability of an EnumID type: *T sets
// itself from an identifier.
type IDParser interface {
	ParseID(id string) error
}

// EnumFactory builds a value of a registered EnumID type from an identifier.
type EnumFactory func(id string) (any, error)

var (
	enumIDType   = reflect.TypeOf((*EnumID)(nil)).Elem()
	idParserType = reflect.TypeOf((*IDParser)(nil)).Elem()
)

func isEnumID(typ reflect.Type) bool {
	if typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Interface {
		return false
	}
	return typ.Implements(enumIDType) || reflect.PtrTo(typ).Implements(enumIDType)
}

// resolveEnumFactory finds the decode function of typ: a registered factory
// first, then ParseID on *T. Failures are returned, not raised, so they only
// surface when a value is actually decoded.
func resolveEnumFactory(typ reflect.Type, registered []EnumFactory) (EnumFactory, error) {
	switch len(registered) {
	case 0:
	case 1:
		return registered[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has %d", ErrMultipleEnumFactories, typ, len(registered))
	}

	if reflect.PtrTo(typ).Implements(idParserType) {
		return func(id string) (any, error) {
			p := reflect.New(typ)
			if err := p.Interface().(IDParser).ParseID(id); err != nil {
				return nil, err
			}
			return p.Elem().Interface(), nil
		}, nil
	}
	return nil, fmt.Errorf("%w for %s", ErrNoEnumFactory, typ)
}

type enumIDCodec struct {
	typ        reflect.Type
	factory    EnumFactory
	resolveErr error
}

func newEnumIDCodec(typ reflect.Type, registered []EnumFactory) *enumIDCodec {
	factory, err := resolveEnumFactory(typ, registered)
	return &enumIDCodec{typ: typ, factory: factory, resolveErr: err}
}

func (c *enumIDCodec) id(ptr unsafe.Pointer) string {
	return reflect.NewAt(c.typ, ptr).Interface().(EnumID).ID()
}

func (c *enumIDCodec) set(ptr unsafe.Pointer, v any) {
	reflect.NewAt(c.typ, ptr).Elem().Set(reflect.ValueOf(v))
}

func (c *enumIDCodec) IsEmpty(ptr unsafe.Pointer) bool { return c.id(ptr) == "" }

func (c *enumIDCodec) isNull(ptr unsafe.Pointer) bool { return c.id(ptr) == "" }

func (c *enumIDCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	id := c.id(ptr)
	if id == "" {
		stream.WriteNil()
		return
	}
	stream.WriteString(id)
}

func (c *enumIDCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.ReadNil() {
		reflect.NewAt(c.typ, ptr).Elem().SetZero()
		// A constant without identifier may own the null.
		if c.factory != nil {
			if v, err := c.factory(""); err == nil && v != nil {
				c.set(ptr, v)
			}
		}
		return
	}
	if iter.WhatIsNext() != jsoniter.StringValue {
		iter.ReportError("decode "+c.typ.String(), "expect string or null")
		return
	}
	id := iter.ReadString()
	if c.resolveErr != nil {
		fail(iter, &Error{Op: "resolve enum id factory", Err: c.resolveErr})
		return
	}
	v, err := c.factory(id)
	if err != nil {
		fail(iter, &Error{Op: "decode " + c.typ.String(), Err: err})
		return
	}
	c.set(ptr, v)
}

// enumIDKeyCodec encodes EnumID map keys; keys cannot be null.
type enumIDKeyCodec struct{ *enumIDCodec }

func (c enumIDKeyCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString(c.id(ptr))
}

// ParseID returns the constant of values whose ID is id.
func ParseID[T EnumID](values []T, id string) (T, error) {
	for _, v := range values {
		if v.ID() == id {
			return v, nil
		}
	}
	var zero T
	return zero, ConstantNotPresentError{Type: reflect.TypeFor[T]().String(), Value: id}
}

// ParseIDOr is ParseID with a fallback for unknown identifiers.
func ParseIDOr[T EnumID](values []T, id string, def T) T {
	if v, err := ParseID(values, id); err == nil {
		return v
	}
	return def
}

// ParseName matches String() case-insensitively.
func ParseName[T fmt.Stringer](values []T, name string) (T, error) {
	for _, v := range values {
		if strings.EqualFold(v.String(), name) {
			return v, nil
		}
	}
	var zero T
	return zero, ConstantNotPresentError{Type: reflect.TypeFor[T]().String(), Value: name}
}

type namedEnumID interface {
	EnumID
	fmt.Stringer
}

// ParseIDOrName tries the identifier first and the name second.
func ParseIDOrName[T namedEnumID](values []T, s string) (T, error) {
	if v, err := ParseID(values, s); err == nil {
		return v, nil
	}
	return ParseName(values, s)
}
