package jsonutil

import (
	"fmt"
	"reflect"

	"github.com/drewjocham/go-json-utils/internal/adapter"
	"github.com/drewjocham/go-json-utils/internal/numeric"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

// Settings is what a Builder resolves to: the adapter options plus the
// options of the host configuration.
type Settings struct {
	adapter.Options

	EscapeHTML            bool
	SortMapKeys           bool
	DisallowUnknownFields bool
	CaseSensitive         bool
	OnlyTaggedFields      bool
	NonExecutable         bool
	Indent                int `validate:"gte=1,lte=16"`

	// Extensions run before the built-in adapters.
	Extensions []jsoniter.Extension
}

// Customizer is one configuration step recorded by a Builder.
type Customizer func(*Settings) error

func defaultSettings() Settings {
	return Settings{
		Options: adapter.Options{
			Numbers:     numeric.Dynamic,
			TimeFormats: adapter.DefaultTimeFormats(),
			TagKey:      "json",
		},
		EscapeHTML:  true,
		SortMapKeys: true,
		Indent:      2,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Settings) validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	for typ, a := range s.TypeAdapters {
		if !isCodec(a) {
			return fmt.Errorf("type adapter for %s implements neither ValEncoder nor ValDecoder", typ)
		}
	}
	for _, h := range s.HierarchyAdapters {
		if h.Base == nil || h.Base.Kind() != reflect.Interface {
			return fmt.Errorf("hierarchy adapter base %v is not an interface", h.Base)
		}
		if !isCodec(h.Adapter) {
			return fmt.Errorf("hierarchy adapter for %s implements neither ValEncoder nor ValDecoder", h.Base)
		}
	}
	return nil
}

func isCodec(a any) bool {
	_, enc := a.(jsoniter.ValEncoder)
	_, dec := a.(jsoniter.ValDecoder)
	return enc || dec
}
