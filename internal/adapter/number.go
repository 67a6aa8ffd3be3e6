package adapter

import (
	"reflect"
	"unsafe"

	"github.com/drewjocham/go-json-utils/internal/numeric"
	jsoniter "github.com/json-iterator/go"
)

// anyDecoder replaces the host's empty-interface decoder so every number
// reached through an `any` goes through the configured numeric strategy.
type anyDecoder struct {
	strategy numeric.Strategy
}

func (d *anyDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	pObj := (*any)(ptr)

	// Decoding into a preallocated pointer keeps its static type.
	if obj := *pObj; obj != nil {
		rv := reflect.ValueOf(obj)
		if rv.Kind() == reflect.Ptr && !rv.IsNil() {
			if iter.WhatIsNext() == jsoniter.NilValue {
				iter.ReadNil()
				*pObj = nil
				return
			}
			iter.ReadVal(obj)
			return
		}
	}
	*pObj = d.read(iter)
}

func (d *anyDecoder) read(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.NumberValue:
		literal := iter.ReadNumber()
		v, err := d.strategy(string(literal))
		if err != nil {
			fail(iter, err)
			return nil
		}
		return v
	case jsoniter.ObjectValue:
		m := make(map[string]any)
		iter.ReadMapCB(func(it *jsoniter.Iterator, field string) bool {
			m[field] = d.read(it)
			return it.Error == nil
		})
		return m
	case jsoniter.ArrayValue:
		s := make([]any, 0)
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			s = append(s, d.read(it))
			return it.Error == nil
		})
		return s
	default:
		return iter.Read()
	}
}
