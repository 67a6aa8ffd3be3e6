// Package jsonutil builds configured json-iterator engines and exposes them
// through a process wide facade.
package jsonutil

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/drewjocham/go-json-utils/internal/adapter"
	jsoniter "github.com/json-iterator/go"
)

const (
	nonExecutablePrefix = ")]}'\n"
	lazyBufferSize      = 4096
)

type RawMessage = jsoniter.RawMessage

var bufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

// Engine is an immutable, configured serializer. It is safe for concurrent
// use.
type Engine struct {
	api           jsoniter.API
	pretty        bool
	nonExecutable bool
}

func newEngine(s Settings, pretty bool) *Engine {
	cfg := jsoniter.Config{
		EscapeHTML:             s.EscapeHTML,
		SortMapKeys:            s.SortMapKeys,
		ValidateJsonRawMessage: true,
		DisallowUnknownFields:  s.DisallowUnknownFields,
		CaseSensitive:          s.CaseSensitive,
		OnlyTaggedField:        s.OnlyTaggedFields,
		TagKey:                 s.TagKey,
	}
	if pretty {
		cfg.IndentionStep = s.Indent
	}
	api := cfg.Froze()
	for _, ext := range s.Extensions {
		api.RegisterExtension(ext)
	}
	adapter.Register(api, s.Options)
	return &Engine{api: api, pretty: pretty, nonExecutable: s.NonExecutable}
}

// API exposes the underlying json-iterator configuration.
func (e *Engine) API() jsoniter.API { return e.api }

func (e *Engine) Pretty() bool { return e.pretty }

// WriteValue encodes v.
func (e *Engine) WriteValue(v any) (string, error) {
	b, err := e.encode(v)
	if err != nil {
		return "", adapter.Wrap("write value", err)
	}
	if e.nonExecutable {
		return nonExecutablePrefix + string(b), nil
	}
	return string(b), nil
}

// WriteValueTo encodes v into w. w is not closed.
func (e *Engine) WriteValueTo(w io.Writer, v any) error {
	if e.nonExecutable {
		if _, err := io.WriteString(w, nonExecutablePrefix); err != nil {
			return adapter.Wrap("write value", err)
		}
	}
	stream := e.api.BorrowStream(w)
	defer e.api.ReturnStream(stream)

	stream.WriteVal(v)
	if stream.Error != nil {
		return adapter.Wrap("write value", stream.Error)
	}
	return adapter.Wrap("write value", stream.Flush())
}

func (e *Engine) encode(v any) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if err := e.api.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadValue decodes data into v, which must be a non-nil pointer. Blank input
// leaves v untouched.
func (e *Engine) ReadValue(data string, v any) error {
	data = stripNonExecutable(data)
	if strings.TrimSpace(data) == "" {
		return nil
	}
	return adapter.Wrap("read value", e.api.UnmarshalFromString(data, v))
}

// ReadValueFrom decodes the next value of r into v. r is not closed.
func (e *Engine) ReadValueFrom(r io.Reader, v any) error {
	br, empty, err := prepare(r)
	if err != nil {
		return adapter.Wrap("read value", err)
	}
	if empty {
		return nil
	}
	return adapter.Wrap("read value", e.api.NewDecoder(br).Decode(v))
}

// ConvertToMap re-reads the encoded form of v as a generic object.
func (e *Engine) ConvertToMap(v any) (map[string]any, error) {
	b, err := e.encode(v)
	if err != nil {
		return nil, adapter.Wrap("convert to map", err)
	}
	var m map[string]any
	if err := e.api.Unmarshal(b, &m); err != nil {
		return nil, adapter.Wrap("convert to map", err)
	}
	return m, nil
}

func stripNonExecutable(s string) string {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if rest, ok := strings.CutPrefix(trimmed, ")]}'"); ok {
		return rest
	}
	return s
}

// prepare skips leading whitespace and the non-executable prefix, and
// reports whether nothing but whitespace is left.
func prepare(r io.Reader) (*bufio.Reader, bool, error) {
	br := bufio.NewReader(r)
	if err := skipSpace(br); err != nil {
		if err == io.EOF {
			return br, true, nil
		}
		return nil, false, err
	}
	if p, err := br.Peek(4); err == nil && string(p) == ")]}'" {
		_, _ = br.Discard(4)
		if err := skipSpace(br); err != nil {
			if err == io.EOF {
				return br, true, nil
			}
			return nil, false, err
		}
	}
	return br, false, nil
}

func skipSpace(br *bufio.Reader) error {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return br.UnreadByte()
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// ownedBy keeps the Close of orig reachable once r wraps it.
func ownedBy(r, orig io.Reader) io.Reader {
	if c, ok := orig.(io.Closer); ok {
		return readCloser{Reader: r, Closer: c}
	}
	return r
}
