package adapter

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// LongSerializationPolicy controls how 64-bit integers are written.
type LongSerializationPolicy int

const (
	// LongAsNumber writes 64-bit integers as JSON numbers.
	LongAsNumber LongSerializationPolicy = iota
	// LongAsString writes them as strings, for consumers limited to doubles.
	LongAsString
)

// builtin reports whether typ is an unnamed predeclared type such as int64,
// so named types keep their own encoding.
func builtin(typ reflect.Type) bool {
	return typ.PkgPath() == "" && typ.Name() != "" && typ.Kind() != reflect.Interface
}

type longStringEncoder struct {
	typ reflect.Type
}

func (e *longStringEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.NewAt(e.typ, ptr).Elem().IsZero()
}

func (e *longStringEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := reflect.NewAt(e.typ, ptr).Elem()
	switch v.Kind() {
	case reflect.Int, reflect.Int64:
		stream.WriteString(strconv.FormatInt(v.Int(), 10))
	default:
		stream.WriteString(strconv.FormatUint(v.Uint(), 10))
	}
}

func newLongStringEncoder(typ reflect.Type) jsoniter.ValEncoder {
	if !builtin(typ) {
		return nil
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return &longStringEncoder{typ: typ}
	}
	return nil
}

// specialFloatEncoder writes NaN and the infinities as bare tokens instead of
// failing.
type specialFloatEncoder struct {
	bits int
}

func (e *specialFloatEncoder) value(ptr unsafe.Pointer) float64 {
	if e.bits == 32 {
		return float64(*(*float32)(ptr))
	}
	return *(*float64)(ptr)
}

func (e *specialFloatEncoder) IsEmpty(ptr unsafe.Pointer) bool { return e.value(ptr) == 0 }

func (e *specialFloatEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	f := e.value(ptr)
	switch {
	case math.IsNaN(f):
		stream.WriteRaw("NaN")
	case math.IsInf(f, 1):
		stream.WriteRaw("Infinity")
	case math.IsInf(f, -1):
		stream.WriteRaw("-Infinity")
	case e.bits == 32:
		stream.WriteFloat32(float32(f))
	default:
		stream.WriteFloat64(f)
	}
}

func newSpecialFloatEncoder(typ reflect.Type) jsoniter.ValEncoder {
	if !builtin(typ) {
		return nil
	}
	switch typ.Kind() {
	case reflect.Float32:
		return &specialFloatEncoder{bits: 32}
	case reflect.Float64:
		return &specialFloatEncoder{bits: 64}
	}
	return nil
}

// lenientDecoder accepts scalars in the "wrong" JSON type: quoted numbers
// and booleans, and numbers or booleans where a string is expected.
type lenientDecoder struct {
	typ reflect.Type
}

func newLenientDecoder(typ reflect.Type) jsoniter.ValDecoder {
	if !builtin(typ) {
		return nil
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String, reflect.Bool:
		return &lenientDecoder{typ: typ}
	}
	return nil
}

func (d *lenientDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	v := reflect.NewAt(d.typ, ptr).Elem()
	var text string
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return
	case jsoniter.StringValue:
		text = strings.TrimSpace(iter.ReadString())
		if v.Kind() == reflect.String {
			v.SetString(text)
			return
		}
	case jsoniter.NumberValue:
		text = string(iter.ReadNumber())
	case jsoniter.BoolValue:
		b := iter.ReadBool()
		text = strconv.FormatBool(b)
		if v.Kind() != reflect.String && v.Kind() != reflect.Bool {
			text = "0"
			if b {
				text = "1"
			}
		}
	default:
		iter.ReportError("lenient decode", "expect a scalar for "+d.typ.String())
		iter.Skip()
		return
	}
	if err := setScalar(v, text); err != nil {
		fail(iter, err)
	}
}

func setScalar(v reflect.Value, text string) error {
	bits := v.Type().Bits
	switch v.Kind() {
	case reflect.String:
		v.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(text, 10, bits())
		if err != nil {
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || v.OverflowInt(int64(f)) {
				return err
			}
			i = int64(f)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(text, 10, bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	}
	return nil
}
