package jsonutil

import (
	"io"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/drewjocham/go-json-utils/internal/adapter"
	"go.uber.org/zap"
)

// slot is the active builder with the two engines built from it. It is
// replaced whole, never mutated.
type slot struct {
	builder *Builder
	plain   *Engine
	pretty  *Engine
}

var (
	mu     sync.RWMutex
	active *slot

	defaultBuilder = NewBuilder()
)

func newSlot(b *Builder) (*slot, error) {
	plain, pretty, err := b.engines()
	if err != nil {
		return nil, err
	}
	return &slot{builder: b, plain: plain, pretty: pretty}, nil
}

func current() (*slot, error) {
	mu.RLock()
	s := active
	mu.RUnlock()
	if s != nil {
		return s, nil
	}

	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		s, err := newSlot(defaultBuilder)
		if err != nil {
			return nil, err
		}
		active = s
	}
	return active, nil
}

// SetBuilder makes b the active builder; nil restores the default. Passing
// the builder already active keeps the current engines. When b fails to
// build, the previous builder stays active.
func SetBuilder(b *Builder) error {
	if b == nil {
		b = defaultBuilder
	}
	mu.Lock()
	defer mu.Unlock()
	if active != nil && active.builder == b {
		return nil
	}
	s, err := newSlot(b)
	if err != nil {
		zap.S().Debugw("json builder rejected", "error", err)
		return err
	}
	active = s
	zap.S().Debugw("active json builder replaced", "default", b == defaultBuilder)
	return nil
}

// ActiveBuilder returns the builder behind the facade.
func ActiveBuilder() *Builder {
	mu.RLock()
	defer mu.RUnlock()
	if active == nil {
		return defaultBuilder
	}
	return active.builder
}

// Print returns the plain engine of the active builder.
func Print() (*Engine, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}
	return s.plain, nil
}

// PrettyPrint returns the indenting engine of the active builder.
func PrettyPrint() (*Engine, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}
	return s.pretty, nil
}

func ReadValue[T any](data string) (T, error) {
	e, err := Print()
	if err != nil {
		var zero T
		return zero, err
	}
	return ReadValueWith[T](e, data)
}

func ReadValueFrom[T any](r io.Reader) (T, error) {
	e, err := Print()
	if err != nil {
		var zero T
		return zero, err
	}
	return ReadValueFromWith[T](e, r)
}

func ReadList[V any](data string) ([]V, error) {
	return ReadValue[[]V](data)
}

func ReadListFrom[V any](r io.Reader) ([]V, error) {
	return ReadValueFrom[[]V](r)
}

func ReadSet[V comparable](data string) (mapset.Set[V], error) {
	return toSet[V](ReadList[V](data))
}

func ReadSetFrom[V comparable](r io.Reader) (mapset.Set[V], error) {
	return toSet[V](ReadListFrom[V](r))
}

func ReadMap[K comparable, V any](data string) (map[K]V, error) {
	return ReadValue[map[K]V](data)
}

func ReadMapFrom[K comparable, V any](r io.Reader) (map[K]V, error) {
	return ReadValueFrom[map[K]V](r)
}

func ReadListOfMap[K comparable, V any](data string) ([]map[K]V, error) {
	return ReadValue[[]map[K]V](data)
}

func ReadListOfMapFrom[K comparable, V any](r io.Reader) ([]map[K]V, error) {
	return ReadValueFrom[[]map[K]V](r)
}

// ReadListLazy streams the top-level array of r one element at a time. The
// caller closes the returned sequence.
func ReadListLazy[V any](r io.Reader) (*adapter.Sequence[V], error) {
	e, err := Print()
	if err != nil {
		return nil, err
	}
	return ReadListLazyWith[V](e, r)
}

func ReadListOfMapLazy[K comparable, V any](r io.Reader) (*adapter.Sequence[map[K]V], error) {
	return ReadListLazy[map[K]V](r)
}

func WriteValue(v any) (string, error) {
	e, err := Print()
	if err != nil {
		return "", err
	}
	return e.WriteValue(v)
}

func WriteValueTo(w io.Writer, v any) error {
	e, err := Print()
	if err != nil {
		return err
	}
	return e.WriteValueTo(w, v)
}

func WritePrettyValue(v any) (string, error) {
	e, err := PrettyPrint()
	if err != nil {
		return "", err
	}
	return e.WriteValue(v)
}

func WritePrettyValueTo(w io.Writer, v any) error {
	e, err := PrettyPrint()
	if err != nil {
		return err
	}
	return e.WriteValueTo(w, v)
}

func ConvertToMap(v any) (map[string]any, error) {
	e, err := Print()
	if err != nil {
		return nil, err
	}
	return e.ConvertToMap(v)
}
