package jsonutil

import (
	"io"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/drewjocham/go-json-utils/internal/adapter"
	ij "github.com/drewjocham/go-json-utils/internal/jsonutil"
	"github.com/drewjocham/go-json-utils/internal/numeric"
	jsoniter "github.com/json-iterator/go"
)

type (
	Builder    = ij.Builder
	Engine     = ij.Engine
	Settings   = ij.Settings
	Customizer = ij.Customizer
	RawMessage = ij.RawMessage

	Error                   = adapter.Error
	ConstantNotPresentError = adapter.ConstantNotPresentError

	Sequence[V any] = adapter.Sequence[V]
	Iterator[V any] = adapter.Sequence[V]

	Instant        = adapter.Instant
	LocalDate      = adapter.LocalDate
	LocalTime      = adapter.LocalTime
	LocalDateTime  = adapter.LocalDateTime
	OffsetTime     = adapter.OffsetTime
	OffsetDateTime = adapter.OffsetDateTime
	ZonedDateTime  = adapter.ZonedDateTime
	ZoneModifier   = adapter.ZoneModifier
	TimeFormat     = adapter.TimeFormat
	TimeFormats    = adapter.TimeFormats

	EnumID      = adapter.EnumID
	IDParser    = adapter.IDParser
	EnumFactory = adapter.EnumFactory

	TypeAdapter             = adapter.TypeAdapter
	FieldNamingPolicy       = adapter.FieldNamingPolicy
	FieldNamingStrategy     = adapter.FieldNamingStrategy
	FieldAttributes         = adapter.FieldAttributes
	ExclusionStrategy       = adapter.ExclusionStrategy
	LongSerializationPolicy = adapter.LongSerializationPolicy

	NumberStrategy = numeric.Strategy
)

const (
	Identity                 = adapter.Identity
	LowerCamelCase           = adapter.LowerCamelCase
	UpperCamelCase           = adapter.UpperCamelCase
	UpperCamelCaseWithSpaces = adapter.UpperCamelCaseWithSpaces
	UpperCaseWithUnderscores = adapter.UpperCaseWithUnderscores
	LowerCaseWithUnderscores = adapter.LowerCaseWithUnderscores
	LowerCaseWithDashes      = adapter.LowerCaseWithDashes
	LowerCaseWithDots        = adapter.LowerCaseWithDots

	LongAsNumber = adapter.LongAsNumber
	LongAsString = adapter.LongAsString
)

var (
	ErrNoMoreElements        = adapter.ErrNoMoreElements
	ErrNoEnumFactory         = adapter.ErrNoEnumFactory
	ErrMultipleEnumFactories = adapter.ErrMultipleEnumFactories

	NewBuilder    = ij.NewBuilder
	SetBuilder    = ij.SetBuilder
	ActiveBuilder = ij.ActiveBuilder
	Print         = ij.Print
	PrettyPrint   = ij.PrettyPrint

	WriteValue         = ij.WriteValue
	WriteValueTo       = ij.WriteValueTo
	WritePrettyValue   = ij.WritePrettyValue
	WritePrettyValueTo = ij.WritePrettyValueTo
	ConvertToMap       = ij.ConvertToMap

	UseOriginalZone    = adapter.UseOriginalZone
	ToUTC              = adapter.ToUTC
	ToZone             = adapter.ToZone
	DefaultTimeFormats = adapter.DefaultTimeFormats

	NewLocalDate     = adapter.NewLocalDate
	NewLocalTime     = adapter.NewLocalTime
	NewLocalDateTime = adapter.NewLocalDateTime
	NewOffsetTime    = adapter.NewOffsetTime

	ParseFieldNamingPolicy = adapter.ParseFieldNamingPolicy

	NumbersDynamic      = numeric.Dynamic
	NumbersDouble       = numeric.Double
	NumbersLongOrDouble = numeric.LongOrDouble
	NumbersLazy         = numeric.LazilyParsed
)

func ReadValue[T any](data string) (T, error)     { return ij.ReadValue[T](data) }
func ReadValueFrom[T any](r io.Reader) (T, error) { return ij.ReadValueFrom[T](r) }
func ReadList[V any](data string) ([]V, error)    { return ij.ReadList[V](data) }
func ReadListFrom[V any](r io.Reader) ([]V, error) {
	return ij.ReadListFrom[V](r)
}
func ReadSet[V comparable](data string) (mapset.Set[V], error) { return ij.ReadSet[V](data) }
func ReadSetFrom[V comparable](r io.Reader) (mapset.Set[V], error) {
	return ij.ReadSetFrom[V](r)
}
func ReadMap[K comparable, V any](data string) (map[K]V, error) { return ij.ReadMap[K, V](data) }
func ReadMapFrom[K comparable, V any](r io.Reader) (map[K]V, error) {
	return ij.ReadMapFrom[K, V](r)
}
func ReadListOfMap[K comparable, V any](data string) ([]map[K]V, error) {
	return ij.ReadListOfMap[K, V](data)
}
func ReadListOfMapFrom[K comparable, V any](r io.Reader) ([]map[K]V, error) {
	return ij.ReadListOfMapFrom[K, V](r)
}
func ReadListLazy[V any](r io.Reader) (*Sequence[V], error) { return ij.ReadListLazy[V](r) }
func ReadListOfMapLazy[K comparable, V any](r io.Reader) (*Sequence[map[K]V], error) {
	return ij.ReadListOfMapLazy[K, V](r)
}

func ReadValueWith[T any](e *Engine, data string) (T, error)  { return ij.ReadValueWith[T](e, data) }
func ReadListWith[V any](e *Engine, data string) ([]V, error) { return ij.ReadListWith[V](e, data) }
func ReadListLazyWith[V any](e *Engine, r io.Reader) (*Sequence[V], error) {
	return ij.ReadListLazyWith[V](e, r)
}

func SequenceOf[V any](values ...V) *Sequence[V] { return adapter.SequenceOf(values...) }

func RegisterEnumFactory[T EnumID](b *Builder, factory func(id string) (T, error)) *Builder {
	return ij.RegisterEnumFactory(b, factory)
}

func RegisterAdapterFunc[T any](
	b *Builder,
	encode func(v T, stream *jsoniter.Stream),
	decode func(iter *jsoniter.Iterator) (T, error),
) *Builder {
	return ij.RegisterAdapterFunc(b, encode, decode)
}

func ParseID[T EnumID](values []T, id string) (T, error) { return adapter.ParseID(values, id) }
func ParseIDOr[T EnumID](values []T, id string, def T) T { return adapter.ParseIDOr(values, id, def) }
