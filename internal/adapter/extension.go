// Package adapter holds the type adapters the engine installs into
// json-iterator: numbers behind `any`, temporal types, enum identifiers,
// lazy sequences, ObjectIDs and the struct and scalar policies.
package adapter

import (
	"reflect"

	"github.com/drewjocham/go-json-utils/internal/numeric"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// Options configures an Extension. The zero value is usable.
type Options struct {
	Numbers       numeric.Strategy
	TimeFormats   TimeFormats
	EnumFactories map[reflect.Type][]EnumFactory

	// TypeAdapters values implement jsoniter.ValEncoder, ValDecoder or both.
	TypeAdapters      map[reflect.Type]any
	HierarchyAdapters []HierarchyAdapter

	TagKey                    string `validate:"omitempty,alphanum"`
	Naming                    FieldNamingStrategy
	SerializeNulls            bool
	SerializationExclusions   []ExclusionStrategy
	DeserializationExclusions []ExclusionStrategy
	HasVersion                bool
	Version                   float64 `validate:"gte=0"`
	RequireExpose             bool

	LongPolicy    LongSerializationPolicy
	SpecialFloats bool
	Lenient       bool
}

// Extension wires the adapters into one jsoniter.API. Register it before the
// API encodes or decodes anything: the host caches codecs per type.
type Extension struct {
	jsoniter.DummyExtension
	opts Options
}

func NewExtension(opts Options) *Extension {
	if opts.Numbers == nil {
		opts.Numbers = numeric.Dynamic
	}
	if opts.TagKey == "" {
		opts.TagKey = "json"
	}
	opts.TimeFormats = opts.TimeFormats.withDefaults()
	return &Extension{opts: opts}
}

// Register creates an Extension for opts and installs it on api.
func Register(api jsoniter.API, opts Options) {
	api.RegisterExtension(NewExtension(opts))
}

func (e *Extension) custom(typ reflect.Type) any {
	if a, ok := e.opts.TypeAdapters[typ]; ok {
		return a
	}
	if typ.Kind() == reflect.Interface {
		return nil
	}
	for _, h := range e.opts.HierarchyAdapters {
		if typ.Implements(h.Base) {
			return h.Adapter
		}
	}
	return nil
}

func (e *Extension) codec(typ reflect.Type) TypeAdapter {
	if kind, ok := temporalTypes[typ]; ok {
		return newTimeCodec(kind, e.opts.TimeFormats.of(kind))
	}
	switch {
	case typ == objectIDType:
		return objectIDCodec{}
	case isSequence(typ):
		return &sequenceCodec{typ: typ}
	case isEnumID(typ):
		return newEnumIDCodec(typ, e.opts.EnumFactories[typ])
	}
	return nil
}

func (e *Extension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	t := typ.Type1()
	if d, ok := e.custom(t).(jsoniter.ValDecoder); ok {
		return d
	}
	if c := e.codec(t); c != nil {
		return c
	}
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return &anyDecoder{strategy: e.opts.Numbers}
	}
	if e.opts.Lenient {
		if d := newLenientDecoder(t); d != nil {
			return d
		}
	}
	return nil
}

func (e *Extension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	t := typ.Type1()
	if enc, ok := e.custom(t).(jsoniter.ValEncoder); ok {
		return enc
	}
	if c := e.codec(t); c != nil {
		return c
	}
	if e.opts.LongPolicy == LongAsString {
		if enc := newLongStringEncoder(t); enc != nil {
			return enc
		}
	}
	if e.opts.SpecialFloats {
		if enc := newSpecialFloatEncoder(t); enc != nil {
			return enc
		}
	}
	return nil
}

func (e *Extension) CreateMapKeyDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	t := typ.Type1()
	switch {
	case t == objectIDType:
		return objectIDKeyCodec{}
	case isEnumID(t):
		return enumIDKeyCodec{newEnumIDCodec(t, e.opts.EnumFactories[t])}
	}
	return nil
}

func (e *Extension) CreateMapKeyEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	t := typ.Type1()
	switch {
	case t == objectIDType:
		return objectIDKeyCodec{}
	case isEnumID(t):
		return enumIDKeyCodec{newEnumIDCodec(t, e.opts.EnumFactories[t])}
	}
	return nil
}

func (e *Extension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	e.updateStruct(desc)
}
