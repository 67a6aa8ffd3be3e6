package jsonutil

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/drewjocham/go-json-utils/internal/adapter"
	"github.com/drewjocham/go-json-utils/internal/config"
	"github.com/drewjocham/go-json-utils/internal/numeric"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Builder records configuration steps and turns them into engines. Steps are
// replayed over fresh defaults on every build, so a Builder can produce any
// number of independent engines. A Builder is not safe for concurrent
// mutation.
type Builder struct {
	customizers []Customizer
}

func NewBuilder() *Builder {
	return &Builder{}
}

// With appends raw customizers.
func (b *Builder) With(c ...Customizer) *Builder {
	b.customizers = append(b.customizers, c...)
	return b
}

// Clone returns a builder with the same steps, independent of b.
func (b *Builder) Clone() *Builder {
	return &Builder{customizers: slices.Clone(b.customizers)}
}

func (b *Builder) set(f func(*Settings)) *Builder {
	return b.With(func(s *Settings) error {
		f(s)
		return nil
	})
}

// Settings replays the recorded steps and validates the result.
func (b *Builder) Settings() (Settings, error) {
	s := defaultSettings()
	for _, c := range b.customizers {
		if err := c(&s); err != nil {
			return Settings{}, adapter.Wrap("configure", err)
		}
	}
	if err := s.validate(); err != nil {
		return Settings{}, adapter.Wrap("configure", err)
	}
	return s, nil
}

// Engine builds the plain engine.
func (b *Builder) Engine() (*Engine, error) {
	s, err := b.Settings()
	if err != nil {
		return nil, err
	}
	return newEngine(s, false), nil
}

// PrettyPrintEngine builds the indenting engine from the same steps.
func (b *Builder) PrettyPrintEngine() (*Engine, error) {
	s, err := b.Settings()
	if err != nil {
		return nil, err
	}
	return newEngine(s, true), nil
}

func (b *Builder) engines() (plain, pretty *Engine, err error) {
	s, err := b.Settings()
	if err != nil {
		return nil, nil, err
	}
	zap.S().Debugw("building json engines", "steps", len(b.customizers))
	return newEngine(s, false), newEngine(s, true), nil
}

func (b *Builder) SerializeNulls() *Builder {
	return b.set(func(s *Settings) { s.SerializeNulls = true })
}

// Lenient accepts numbers and booleans written as strings and the reverse.
func (b *Builder) Lenient() *Builder {
	return b.set(func(s *Settings) { s.Lenient = true })
}

func (b *Builder) DisableHTMLEscaping() *Builder {
	return b.set(func(s *Settings) { s.EscapeHTML = false })
}

func (b *Builder) SortMapKeys(sorted bool) *Builder {
	return b.set(func(s *Settings) { s.SortMapKeys = sorted })
}

func (b *Builder) DisallowUnknownFields() *Builder {
	return b.set(func(s *Settings) { s.DisallowUnknownFields = true })
}

// CaseSensitive matches object keys to field names exactly.
func (b *Builder) CaseSensitive() *Builder {
	return b.set(func(s *Settings) { s.CaseSensitive = true })
}

// OnlyTaggedFields ignores struct fields without a tag.
func (b *Builder) OnlyTaggedFields() *Builder {
	return b.set(func(s *Settings) { s.OnlyTaggedFields = true })
}

func (b *Builder) TagKey(key string) *Builder {
	return b.set(func(s *Settings) { s.TagKey = key })
}

// Version enables since/until gating of struct fields.
func (b *Builder) Version(v float64) *Builder {
	return b.set(func(s *Settings) {
		s.HasVersion = true
		s.Version = v
	})
}

// ExcludeFieldsWithoutExposeTag keeps only fields tagged `expose:"..."`.
func (b *Builder) ExcludeFieldsWithoutExposeTag() *Builder {
	return b.set(func(s *Settings) { s.RequireExpose = true })
}

// GenerateNonExecutableJSON prefixes written documents with )]}' and a
// newline.
func (b *Builder) GenerateNonExecutableJSON() *Builder {
	return b.set(func(s *Settings) { s.NonExecutable = true })
}

func (b *Builder) LongSerializationPolicy(p adapter.LongSerializationPolicy) *Builder {
	return b.set(func(s *Settings) { s.LongPolicy = p })
}

// SerializeSpecialFloatingPointValues writes NaN and the infinities instead
// of failing.
func (b *Builder) SerializeSpecialFloatingPointValues() *Builder {
	return b.set(func(s *Settings) { s.SpecialFloats = true })
}

func (b *Builder) FieldNamingPolicy(p adapter.FieldNamingPolicy) *Builder {
	return b.set(func(s *Settings) { s.Naming = p.Strategy() })
}

func (b *Builder) FieldNamingStrategy(f adapter.FieldNamingStrategy) *Builder {
	return b.set(func(s *Settings) { s.Naming = f })
}

// ExclusionStrategies applies every strategy in both directions.
func (b *Builder) ExclusionStrategies(strategies ...adapter.ExclusionStrategy) *Builder {
	return b.set(func(s *Settings) {
		s.SerializationExclusions = append(s.SerializationExclusions, strategies...)
		s.DeserializationExclusions = append(s.DeserializationExclusions, strategies...)
	})
}

func (b *Builder) AddSerializationExclusionStrategy(e adapter.ExclusionStrategy) *Builder {
	return b.set(func(s *Settings) { s.SerializationExclusions = append(s.SerializationExclusions, e) })
}

func (b *Builder) AddDeserializationExclusionStrategy(e adapter.ExclusionStrategy) *Builder {
	return b.set(func(s *Settings) { s.DeserializationExclusions = append(s.DeserializationExclusions, e) })
}

// RegisterTypeAdapter installs a for exactly typ. a implements
// jsoniter.ValEncoder, jsoniter.ValDecoder or both.
func (b *Builder) RegisterTypeAdapter(typ reflect.Type, a any) *Builder {
	return b.With(func(s *Settings) error {
		if typ == nil {
			return fmt.Errorf("register type adapter: nil type")
		}
		if s.TypeAdapters == nil {
			s.TypeAdapters = make(map[reflect.Type]any)
		}
		s.TypeAdapters[typ] = a
		return nil
	})
}

// RegisterTypeHierarchyAdapter installs a for every type implementing base,
// which must be an interface type.
func (b *Builder) RegisterTypeHierarchyAdapter(base reflect.Type, a any) *Builder {
	return b.set(func(s *Settings) {
		s.HierarchyAdapters = append(s.HierarchyAdapters, adapter.HierarchyAdapter{Base: base, Adapter: a})
	})
}

// RegisterExtension adds a raw json-iterator extension.
func (b *Builder) RegisterExtension(ext jsoniter.Extension) *Builder {
	return b.set(func(s *Settings) { s.Extensions = append(s.Extensions, ext) })
}

// ObjectToNumberStrategy sets how numbers decoded into `any` are typed.
func (b *Builder) ObjectToNumberStrategy(strategy numeric.Strategy) *Builder {
	return b.With(func(s *Settings) error {
		if strategy == nil {
			return fmt.Errorf("number strategy is nil")
		}
		s.Numbers = strategy
		return nil
	})
}

// PrettyPrintIndent sets the indent width of the pretty printing engine.
func (b *Builder) PrettyPrintIndent(width int) *Builder {
	return b.set(func(s *Settings) { s.Indent = width })
}

// ZoneModifier sets the zone policy of every zone bearing temporal type.
func (b *Builder) ZoneModifier(z adapter.ZoneModifier) *Builder {
	return b.set(func(s *Settings) {
		f := &s.TimeFormats
		f.Instant.Zone = z
		f.OffsetTime.Zone = z
		f.OffsetDateTime.Zone = z
		f.ZonedDateTime.Zone = z
		f.Date.Zone = z
	})
}

// DateTimeFormat sets the layout of every zone bearing date-time type.
func (b *Builder) DateTimeFormat(layout string) *Builder {
	return b.set(func(s *Settings) {
		f := &s.TimeFormats
		f.Instant.Layout = layout
		f.OffsetDateTime.Layout = layout
		f.ZonedDateTime.Layout = layout
		f.Date.Layout = layout
	})
}

func (b *Builder) layout(pick func(*adapter.TimeFormats) *adapter.TimeFormat, layout string) *Builder {
	return b.With(func(s *Settings) error {
		if layout == "" {
			return fmt.Errorf("empty time layout")
		}
		pick(&s.TimeFormats).Layout = layout
		return nil
	})
}

func (b *Builder) InstantFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.Instant }, layout)
}

func (b *Builder) LocalDateFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.LocalDate }, layout)
}

func (b *Builder) LocalTimeFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.LocalTime }, layout)
}

func (b *Builder) LocalDateTimeFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.LocalDateTime }, layout)
}

func (b *Builder) OffsetTimeFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.OffsetTime }, layout)
}

func (b *Builder) OffsetDateTimeFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.OffsetDateTime }, layout)
}

func (b *Builder) ZonedDateTimeFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.ZonedDateTime }, layout)
}

// DateFormat sets the layout of plain time.Time values.
func (b *Builder) DateFormat(layout string) *Builder {
	return b.layout(func(f *adapter.TimeFormats) *adapter.TimeFormat { return &f.Date }, layout)
}

// RegisterEnumFactory wires factory as the decoder of identifiers of T. More
// than one factory for the same T fails when a T is decoded.
func RegisterEnumFactory[T adapter.EnumID](b *Builder, factory func(id string) (T, error)) *Builder {
	typ := reflect.TypeFor[T]()
	return b.set(func(s *Settings) {
		if s.EnumFactories == nil {
			s.EnumFactories = make(map[reflect.Type][]adapter.EnumFactory)
		}
		s.EnumFactories[typ] = append(s.EnumFactories[typ], func(id string) (any, error) {
			return factory(id)
		})
	})
}

// RegisterAdapterFunc installs an encode and decode pair for exactly T.
func RegisterAdapterFunc[T any](
	b *Builder,
	encode func(v T, stream *jsoniter.Stream),
	decode func(iter *jsoniter.Iterator) (T, error),
) *Builder {
	return b.RegisterTypeAdapter(reflect.TypeFor[T](), adapter.AdapterFunc(encode, decode))
}

// ApplyConfig records the settings carried by cfg.
func (b *Builder) ApplyConfig(cfg *config.Config) *Builder {
	return b.With(func(s *Settings) error {
		naming, ok := adapter.ParseFieldNamingPolicy(cfg.FieldNaming)
		if !ok {
			return fmt.Errorf("unknown field naming policy %q", cfg.FieldNaming)
		}
		numbers, ok := numeric.Lookup(cfg.NumberStrategy)
		if !ok {
			return fmt.Errorf("unknown number strategy %q", cfg.NumberStrategy)
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		zone := adapter.UseOriginalZone
		if loc != nil {
			zone = adapter.ToZone(loc)
		}

		s.SerializeNulls = cfg.SerializeNulls
		s.Lenient = cfg.Lenient
		s.EscapeHTML = cfg.EscapeHTML
		s.SortMapKeys = cfg.SortMapKeys
		s.NonExecutable = cfg.NonExecutable
		s.Naming = naming.Strategy()
		s.Numbers = numbers
		s.Indent = cfg.Indent
		if cfg.Version > 0 {
			s.HasVersion, s.Version = true, cfg.Version
		}
		s.LongPolicy = adapter.LongAsNumber
		if cfg.LongPolicy == "string" {
			s.LongPolicy = adapter.LongAsString
		}
		f := &s.TimeFormats
		f.Instant.Zone, f.OffsetTime.Zone, f.OffsetDateTime.Zone = zone, zone, zone
		f.ZonedDateTime.Zone, f.Date.Zone = zone, zone
		return nil
	})
}
