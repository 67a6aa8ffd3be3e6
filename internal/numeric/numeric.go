// Package numeric classifies JSON number literals into the narrowest Go type
// that represents them.
package numeric

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Strategy turns the literal text of a JSON number into a Go value.
type Strategy func(literal string) (any, error)

// Kind is the classification produced by ParseDynamic.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt32
	KindInt64
	KindBigInt
	KindFloat64
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindBigInt:
		return "bigint"
	case KindFloat64:
		return "float64"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// KindOf reports how v was classified.
func KindOf(v any) Kind {
	switch v.(type) {
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case *big.Int:
		return KindBigInt
	case float64:
		return KindFloat64
	case json.Number:
		return KindNumber
	default:
		return KindUnknown
	}
}

var ErrMalformed = errors.New("malformed number")

var (
	// Dynamic is the default strategy: int32, int64, *big.Int or float64.
	Dynamic Strategy = ParseDynamic
	// Double always yields float64, like encoding/json.
	Double Strategy = parseDouble
	// LongOrDouble yields int64 for integral literals and float64 otherwise.
	LongOrDouble Strategy = parseLongOrDouble
	// LazilyParsed keeps the literal as a json.Number.
	LazilyParsed Strategy = parseLazily
)

var byName = map[string]Strategy{
	"dynamic":        Dynamic,
	"double":         Double,
	"long_or_double": LongOrDouble,
	"lazily_parsed":  LazilyParsed,
}

// Lookup returns the strategy registered under name, as used in configuration.
func Lookup(name string) (Strategy, bool) {
	s, ok := byName[strings.ToLower(name)]
	return s, ok
}

// ParseDynamic picks the narrowest representation of literal.
//
// A literal with a decimal point is always a float64, even "2.0". Otherwise
// the value becomes an int32 when it fits 32 bits, an int64 when it fits 64
// bits, and a *big.Int beyond that. Exponent forms that are not integral,
// or that cannot be parsed as an integer, stay float64.
func ParseDynamic(literal string) (any, error) {
	f, err := parseFloat(literal)
	if err != nil {
		return nil, err
	}
	if strings.IndexByte(literal, '.') >= 0 {
		return f, nil
	}

	if !strings.ContainsAny(literal, "eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return int32(i), nil
			}
			return i, nil
		}
		if b, ok := new(big.Int).SetString(literal, 10); ok {
			return b, nil
		}
		return f, nil
	}

	if f == math.Trunc(f) {
		if f >= math.MinInt32 && f <= math.MaxInt32 {
			return int32(f), nil
		}
		// 2^63 is exact in float64; values below it convert without overflow.
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil
		}
	}
	if b, ok := new(big.Int).SetString(literal, 10); ok {
		return b, nil
	}
	return f, nil
}

func parseDouble(literal string) (any, error) {
	f, err := parseFloat(literal)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func parseLongOrDouble(literal string) (any, error) {
	if !strings.ContainsAny(literal, ".eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return i, nil
		}
	}
	return parseDouble(literal)
}

func parseLazily(literal string) (any, error) {
	if _, err := parseFloat(literal); err != nil {
		return nil, err
	}
	return json.Number(literal), nil
}

// parseFloat accepts out-of-range literals as ±Inf.
func parseFloat(literal string) (float64, error) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, literal)
	}
	return f, nil
}
