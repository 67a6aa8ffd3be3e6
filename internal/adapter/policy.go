package adapter

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// FieldNamingPolicy derives JSON names from Go field names. Fields with an
// explicit name in their tag keep it.
type FieldNamingPolicy int

const (
	Identity FieldNamingPolicy = iota
	LowerCamelCase
	UpperCamelCase
	UpperCamelCaseWithSpaces
	UpperCaseWithUnderscores
	LowerCaseWithUnderscores
	LowerCaseWithDashes
	LowerCaseWithDots
)

var namingPolicies = map[string]FieldNamingPolicy{
	"identity":                     Identity,
	"lower_camel_case":             LowerCamelCase,
	"upper_camel_case":             UpperCamelCase,
	"upper_camel_case_with_spaces": UpperCamelCaseWithSpaces,
	"upper_case_with_underscores":  UpperCaseWithUnderscores,
	"lower_case_with_underscores":  LowerCaseWithUnderscores,
	"lower_case_with_dashes":       LowerCaseWithDashes,
	"lower_case_with_dots":         LowerCaseWithDots,
}

// ParseFieldNamingPolicy maps a snake_case policy name to its value.
func ParseFieldNamingPolicy(name string) (FieldNamingPolicy, bool) {
	p, ok := namingPolicies[strings.ToLower(name)]
	return p, ok
}

func (p FieldNamingPolicy) Translate(name string) string {
	switch p {
	case LowerCamelCase:
		words := splitWords(name)
		if len(words) == 0 {
			return name
		}
		words[0] = strings.ToLower(words[0])
		return strings.Join(words, "")
	case UpperCamelCase:
		return upperFirst(name)
	case UpperCamelCaseWithSpaces:
		words := splitWords(name)
		for i := range words {
			words[i] = upperFirst(words[i])
		}
		return strings.Join(words, " ")
	case UpperCaseWithUnderscores:
		return strings.ToUpper(strings.Join(splitWords(name), "_"))
	case LowerCaseWithUnderscores:
		return strings.ToLower(strings.Join(splitWords(name), "_"))
	case LowerCaseWithDashes:
		return strings.ToLower(strings.Join(splitWords(name), "-"))
	case LowerCaseWithDots:
		return strings.ToLower(strings.Join(splitWords(name), "."))
	default:
		return name
	}
}

// Strategy returns p as a FieldNamingStrategy.
func (p FieldNamingPolicy) Strategy() FieldNamingStrategy {
	return func(f reflect.StructField) string { return p.Translate(f.Name) }
}

// FieldNamingStrategy computes the JSON name of a struct field.
type FieldNamingStrategy func(field reflect.StructField) string

// splitWords splits a Go identifier at case changes, keeping acronyms
// together: "HTTPServerID" -> HTTP, Server, ID.
func splitWords(name string) []string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		switch {
		case cur == '_':
			words = appendWord(words, runes[start:i])
			start = i + 1
			continue
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			boundary = true
		case unicode.IsDigit(prev) != unicode.IsDigit(cur) && unicode.IsUpper(cur):
			boundary = true
		}
		if boundary {
			words = appendWord(words, runes[start:i])
			start = i
		}
	}
	if start < len(runes) {
		words = appendWord(words, runes[start:])
	}
	return words
}

func appendWord(words []string, word []rune) []string {
	if len(word) == 0 {
		return words
	}
	return append(words, string(word))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// FieldAttributes describes a struct field to an ExclusionStrategy.
type FieldAttributes struct {
	Name          string
	Type          reflect.Type
	Tag           reflect.StructTag
	DeclaringType reflect.Type
}

// ExclusionStrategy decides which fields and field types are skipped.
type ExclusionStrategy interface {
	ShouldSkipField(f FieldAttributes) bool
	ShouldSkipType(t reflect.Type) bool
}

const (
	tagSince  = "since"
	tagUntil  = "until"
	tagExpose = "expose"
)

// updateStruct applies naming, exclusion, version gating and null omission
// to the bindings of one struct type.
func (e *Extension) updateStruct(desc *jsoniter.StructDescriptor) {
	declaring := desc.Type.Type1()
	for _, binding := range desc.Fields {
		if len(binding.FromNames) == 0 && len(binding.ToNames) == 0 {
			continue
		}
		sf := declaring.Field(binding.Field.Index()[len(binding.Field.Index())-1])
		attrs := FieldAttributes{
			Name:          sf.Name,
			Type:          sf.Type,
			Tag:           sf.Tag,
			DeclaringType: declaring,
		}

		if e.opts.Naming != nil && tagName(sf.Tag, e.opts.TagKey) == "" {
			name := e.opts.Naming(sf)
			binding.FromNames = []string{name}
			binding.ToNames = []string{name}
		}

		skipOut, skipIn := e.excluded(attrs)
		if skipOut {
			binding.ToNames = []string{}
		}
		if skipIn {
			binding.FromNames = []string{}
		}

		if !e.opts.SerializeNulls && len(binding.ToNames) > 0 {
			e.omitNulls(binding, sf.Type)
		}
	}
}

func (e *Extension) excluded(f FieldAttributes) (skipOut, skipIn bool) {
	if e.opts.HasVersion && !versionAllows(f.Tag, e.opts.Version) {
		return true, true
	}
	if e.opts.RequireExpose {
		out, in := exposure(f.Tag)
		skipOut, skipIn = !out, !in
	}
	for _, s := range e.opts.SerializationExclusions {
		if s.ShouldSkipField(f) || s.ShouldSkipType(f.Type) {
			skipOut = true
		}
	}
	for _, s := range e.opts.DeserializationExclusions {
		if s.ShouldSkipField(f) || s.ShouldSkipType(f.Type) {
			skipIn = true
		}
	}
	return skipOut, skipIn
}

// versionAllows applies the `since` (inclusive) and `until` (exclusive) tags.
func versionAllows(tag reflect.StructTag, version float64) bool {
	if v, ok := tag.Lookup(tagSince); ok {
		if since, err := strconv.ParseFloat(v, 64); err == nil && since > version {
			return false
		}
	}
	if v, ok := tag.Lookup(tagUntil); ok {
		if until, err := strconv.ParseFloat(v, 64); err == nil && until <= version {
			return false
		}
	}
	return true
}

// exposure reads the `expose` tag: present and empty means both directions,
// otherwise a comma list of "serialize" and "deserialize".
func exposure(tag reflect.StructTag) (out, in bool) {
	v, ok := tag.Lookup(tagExpose)
	if !ok {
		return false, false
	}
	if v == "" || v == "true" {
		return true, true
	}
	for _, part := range strings.Split(v, ",") {
		switch strings.TrimSpace(part) {
		case "serialize":
			out = true
		case "deserialize":
			in = true
		}
	}
	return out, in
}

func tagName(tag reflect.StructTag, key string) string {
	name, _, _ := strings.Cut(tag.Get(key), ",")
	return name
}

func hasOption(tag reflect.StructTag, key, option string) bool {
	_, opts, _ := strings.Cut(tag.Get(key), ",")
	for _, o := range strings.Split(opts, ",") {
		if o == option {
			return true
		}
	}
	return false
}

// nullChecker is implemented by codecs that write null for some values.
type nullChecker interface {
	isNull(ptr unsafe.Pointer) bool
}

// omitNulls drops the field from the output whenever it would be written as
// null. The host only consults IsEmpty for omitempty fields, so the tag the
// host sees gains the option.
func (e *Extension) omitNulls(binding *jsoniter.Binding, typ reflect.Type) {
	var isNull func(unsafe.Pointer) bool
	switch typ.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		isNull = func(ptr unsafe.Pointer) bool { return reflect.NewAt(typ, ptr).Elem().IsNil() }
	default:
		nc, ok := binding.Encoder.(nullChecker)
		if !ok {
			return
		}
		isNull = nc.isNull
	}

	tag := binding.Field.Tag()
	binding.Encoder = &omitNullEncoder{
		ValEncoder: binding.Encoder,
		isNull:     isNull,
		omitEmpty:  hasOption(tag, e.opts.TagKey, "omitempty"),
	}
	if !hasOption(tag, e.opts.TagKey, "omitempty") {
		value := tag.Get(e.opts.TagKey) + ",omitempty"
		// Lookup returns the first match, so the prepended key wins.
		binding.Field = taggedField{
			StructField: binding.Field,
			tag:         reflect.StructTag(e.opts.TagKey + ":" + strconv.Quote(value) + " " + string(tag)),
		}
	}
}

type omitNullEncoder struct {
	jsoniter.ValEncoder
	isNull    func(unsafe.Pointer) bool
	omitEmpty bool
}

func (o *omitNullEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return o.isNull(ptr) || (o.omitEmpty && o.ValEncoder.IsEmpty(ptr))
}

type taggedField struct {
	reflect2.StructField
	tag reflect.StructTag
}

func (f taggedField) Tag() reflect.StructTag { return f.tag }
