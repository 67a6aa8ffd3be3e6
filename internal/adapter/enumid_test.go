package adapter

import (
	"errors"
	"reflect"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

const (
	colorNone color = iota
	red
	green
)

var colors = []color{colorNone, red, green}

func (c color) ID() string {
	switch c {
	case red:
		return "R"
	case green:
		return "G"
	}
	return ""
}

func (c color) String() string {
	switch c {
	case red:
		return "Red"
	case green:
		return "Green"
	}
	return "None"
}

func (c *color) ParseID(id string) error {
	v, err := ParseID(colors, id)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

type size string

func (s size) ID() string { return string(s) }

// shape has an identifier but no way back from it.
type shape int

func (s shape) ID() string { return "shape" }

type palette struct {
	Primary   color `json:"primary"`
	Secondary color `json:"secondary"`
}

func TestEnumIDEncode(t *testing.T) {
	api := newTestAPI(t, Options{})

	out, err := api.MarshalToString(palette{Primary: red})
	require.NoError(t, err)
	assert.Equal(t, `{"primary":"R"}`, out)

	out, err = api.MarshalToString([]color{green, colorNone})
	require.NoError(t, err)
	assert.Equal(t, `["G",null]`, out)

	withNulls := newTestAPI(t, Options{SerializeNulls: true})
	out, err = withNulls.MarshalToString(palette{Primary: red})
	require.NoError(t, err)
	assert.Equal(t, `{"primary":"R","secondary":null}`, out)
}

func TestEnumIDDecodeWithParseID(t *testing.T) {
	api := newTestAPI(t, Options{})

	var p palette
	require.NoError(t, api.UnmarshalFromString(`{"primary":"G","secondary":null}`, &p))
	assert.Equal(t, palette{Primary: green, Secondary: colorNone}, p)

	var c color
	err := api.UnmarshalFromString(`"X"`, &c)
	require.Error(t, err)

	var missing ConstantNotPresentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "X", missing.Value)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "decode adapter.color", e.Op)
}

func TestEnumIDRegisteredFactory(t *testing.T) {
	calls := 0
	factory := func(id string) (any, error) {
		calls++
		if id == "" {
			return size("M"), nil
		}
		return size(id), nil
	}
	api := newTestAPI(t, Options{EnumFactories: map[reflect.Type][]EnumFactory{
		reflect.TypeFor[size](): {factory},
	}})

	var got []size
	require.NoError(t, api.UnmarshalFromString(`["S",null,"XL"]`, &got))
	assert.Equal(t, []size{"S", "M", "XL"}, got)
	assert.Equal(t, 3, calls)
}

func TestEnumIDFactoryResolutionErrors(t *testing.T) {
	twice := func(id string) (any, error) { return size(id), nil }

	tests := []struct {
		name    string
		opts    Options
		decode  func(api jsoniter.API) error
		wantErr error
	}{
		{
			name: "multiple factories",
			opts: Options{EnumFactories: map[reflect.Type][]EnumFactory{
				reflect.TypeFor[size](): {twice, twice},
			}},
			decode: func(api jsoniter.API) error {
				var s size
				return api.UnmarshalFromString(`"S"`, &s)
			},
			wantErr: ErrMultipleEnumFactories,
		},
		{
			name: "no factory",
			decode: func(api jsoniter.API) error {
				var s shape
				return api.UnmarshalFromString(`"shape"`, &s)
			},
			wantErr: ErrNoEnumFactory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, tt.opts)
			err := tt.decode(api)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEnumIDResolutionIsLazy(t *testing.T) {
	api := newTestAPI(t, Options{})

	out, err := api.MarshalToString(shape(1))
	require.NoError(t, err)
	assert.Equal(t, `"shape"`, out)

	var s shape = 7
	require.NoError(t, api.UnmarshalFromString(`null`, &s))
	assert.Equal(t, shape(0), s)
}

func TestEnumIDMapKeys(t *testing.T) {
	api := newTestAPI(t, Options{})

	out, err := api.MarshalToString(map[color]int{red: 1, green: 2})
	require.NoError(t, err)
	assert.Equal(t, `{"G":2,"R":1}`, out)

	var back map[color]int
	require.NoError(t, api.UnmarshalFromString(out, &back))
	assert.Equal(t, map[color]int{red: 1, green: 2}, back)
}

func TestEnumHelpers(t *testing.T) {
	v, err := ParseID(colors, "G")
	require.NoError(t, err)
	assert.Equal(t, green, v)

	_, err = ParseID(colors, "nope")
	assert.EqualError(t, err, `no adapter.color constant for "nope"`)

	assert.Equal(t, red, ParseIDOr(colors, "nope", red))

	v, err = ParseName(colors, "gREEN")
	require.NoError(t, err)
	assert.Equal(t, green, v)

	tests := []struct {
		in      string
		want    color
		wantErr bool
	}{
		{in: "R", want: red},
		{in: "red", want: red},
		{in: "G", want: green},
		{in: "blue", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIDOrName(colors, tt.in)
			if tt.wantErr {
				assert.True(t, errors.As(err, new(ConstantNotPresentError)))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
