package adapter

import (
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// TypeAdapter reads and writes one type at the token level.
type TypeAdapter interface {
	jsoniter.ValEncoder
	jsoniter.ValDecoder
}

// HierarchyAdapter applies Adapter to every concrete type implementing Base.
// Adapter may implement only one of jsoniter.ValEncoder and ValDecoder.
type HierarchyAdapter struct {
	Base    reflect.Type
	Adapter any
}

type funcEncoder[T any] struct {
	encode func(v T, stream *jsoniter.Stream)
}

func (funcEncoder[T]) IsEmpty(unsafe.Pointer) bool { return false }

func (f funcEncoder[T]) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	f.encode(*(*T)(ptr), stream)
}

type funcDecoder[T any] struct {
	decode func(iter *jsoniter.Iterator) (T, error)
}

// Decode leaves null to the zero value without calling the function.
func (f funcDecoder[T]) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.ReadNil() {
		var zero T
		*(*T)(ptr) = zero
		return
	}
	v, err := f.decode(iter)
	if err != nil {
		fail(iter, err)
		return
	}
	*(*T)(ptr) = v
}

// EncoderFunc wraps encode as a jsoniter.ValEncoder for T.
func EncoderFunc[T any](encode func(v T, stream *jsoniter.Stream)) jsoniter.ValEncoder {
	return funcEncoder[T]{encode: encode}
}

// DecoderFunc wraps decode as a jsoniter.ValDecoder for T.
func DecoderFunc[T any](decode func(iter *jsoniter.Iterator) (T, error)) jsoniter.ValDecoder {
	return funcDecoder[T]{decode: decode}
}

// AdapterFunc combines an encode and a decode function into a TypeAdapter.
func AdapterFunc[T any](
	encode func(v T, stream *jsoniter.Stream),
	decode func(iter *jsoniter.Iterator) (T, error),
) TypeAdapter {
	return struct {
		funcEncoder[T]
		funcDecoder[T]
	}{funcEncoder[T]{encode: encode}, funcDecoder[T]{decode: decode}}
}
