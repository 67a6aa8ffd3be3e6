package adapter

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/drewjocham/go-json-utils/internal/numeric"
)

func newTestAPI(t *testing.T, opts Options) jsoniter.API {
	t.Helper()
	api := jsoniter.Config{EscapeHTML: true, SortMapKeys: true}.Froze()
	Register(api, opts)
	return api
}

func TestAnyDecoderClassifiesNumbers(t *testing.T) {
	api := newTestAPI(t, Options{})

	var got map[string]any
	err := api.UnmarshalFromString(`{
		"small": 1,
		"wide": 3000000000,
		"huge": 123456789123456789123456789123456789,
		"ratio": 2.0,
		"nested": {"list": [1, 2.5, "x", true, null]}
	}`, &got)
	require.NoError(t, err)

	assert.Equal(t, int32(1), got["small"])
	assert.Equal(t, int64(3000000000), got["wide"])
	assert.IsType(t, &big.Int{}, got["huge"])
	assert.Equal(t, float64(2), got["ratio"])

	nested := got["nested"].(map[string]any)
	assert.Equal(t, []any{int32(1), 2.5, "x", true, nil}, nested["list"])
}

func TestAnyDecoderTopLevel(t *testing.T) {
	api := newTestAPI(t, Options{})

	var v any
	require.NoError(t, api.UnmarshalFromString(`[7, 7.0]`, &v))
	assert.Equal(t, []any{int32(7), float64(7)}, v)
}

func TestAnyDecoderKeepsPreallocatedPointer(t *testing.T) {
	api := newTestAPI(t, Options{})

	type target struct {
		N int `json:"n"`
	}
	dst := &target{}
	var v any = dst
	require.NoError(t, api.UnmarshalFromString(`{"n": 5}`, &v))
	assert.Same(t, dst, v)
	assert.Equal(t, 5, dst.N)
}

func TestAnyDecoderWithStrategy(t *testing.T) {
	api := newTestAPI(t, Options{Numbers: numeric.Double})

	var v []any
	require.NoError(t, api.UnmarshalFromString(`[1, 2]`, &v))
	assert.Equal(t, []any{float64(1), float64(2)}, v)
}

type account struct {
	ID        bson.ObjectID `json:"id"`
	Owner     bson.ObjectID `json:"owner"`
	UserName  string
	HTTPProxy string
	Tagged    string `json:"tagged"`
}

func TestObjectIDCodec(t *testing.T) {
	api := newTestAPI(t, Options{SerializeNulls: true})
	id := bson.NewObjectID()

	out, err := api.MarshalToString(account{ID: id})
	require.NoError(t, err)
	assert.Contains(t, out, `"id":"`+id.Hex()+`"`)
	assert.Contains(t, out, `"owner":null`)

	var back account
	require.NoError(t, api.UnmarshalFromString(out, &back))
	assert.Equal(t, id, back.ID)
	assert.True(t, back.Owner.IsZero())

	err = api.UnmarshalFromString(`{"id":"not-hex"}`, &back)
	require.Error(t, err)
}

func TestObjectIDMapKeys(t *testing.T) {
	api := newTestAPI(t, Options{})
	id := bson.NewObjectID()

	out, err := api.MarshalToString(map[bson.ObjectID]int{id: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"`+id.Hex()+`":1}`, out)

	var back map[bson.ObjectID]int
	require.NoError(t, api.UnmarshalFromString(out, &back))
	assert.Equal(t, 1, back[id])
}

func TestFieldNamingPolicy(t *testing.T) {
	tests := []struct {
		policy FieldNamingPolicy
		in     string
		want   string
	}{
		{Identity, "UserName", "UserName"},
		{LowerCamelCase, "UserName", "userName"},
		{LowerCamelCase, "HTTPProxy", "httpProxy"},
		{UpperCamelCase, "userName", "UserName"},
		{UpperCamelCaseWithSpaces, "UserName", "User Name"},
		{UpperCaseWithUnderscores, "UserName", "USER_NAME"},
		{LowerCaseWithUnderscores, "HTTPProxy", "http_proxy"},
		{LowerCaseWithUnderscores, "UserID", "user_id"},
		{LowerCaseWithDashes, "UserName", "user-name"},
		{LowerCaseWithDots, "UserName", "user.name"},
	}

	for _, tt := range tests {
		t.Run(tt.in+"/"+strconv.Itoa(int(tt.policy)), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Translate(tt.in))
		})
	}
}

func TestParseFieldNamingPolicy(t *testing.T) {
	p, ok := ParseFieldNamingPolicy("LOWER_CASE_WITH_DASHES")
	require.True(t, ok)
	assert.Equal(t, LowerCaseWithDashes, p)

	_, ok = ParseFieldNamingPolicy("kebab")
	assert.False(t, ok)
}

func TestNamingStrategyKeepsTaggedNames(t *testing.T) {
	api := newTestAPI(t, Options{Naming: LowerCaseWithUnderscores.Strategy()})

	out, err := api.MarshalToString(account{UserName: "ann", HTTPProxy: "p", Tagged: "t"})
	require.NoError(t, err)
	assert.Equal(t, `{"user_name":"ann","http_proxy":"p","tagged":"t"}`, out)

	var back account
	require.NoError(t, api.UnmarshalFromString(`{"user_name":"bob"}`, &back))
	assert.Equal(t, "bob", back.UserName)
}

type versioned struct {
	Always  string `json:"always"`
	New     string `json:"new" since:"1.1"`
	Retired string `json:"retired" until:"1.1"`
}

func TestVersionGating(t *testing.T) {
	value := versioned{Always: "a", New: "n", Retired: "r"}

	tests := []struct {
		version float64
		want    string
	}{
		{1.0, `{"always":"a","retired":"r"}`},
		{1.1, `{"always":"a","new":"n"}`},
		{2.0, `{"always":"a","new":"n"}`},
	}
	for _, tt := range tests {
		t.Run(strconv.FormatFloat(tt.version, 'f', 1, 64), func(t *testing.T) {
			api := newTestAPI(t, Options{HasVersion: true, Version: tt.version})
			out, err := api.MarshalToString(value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

type exposed struct {
	Both     string `json:"both" expose:""`
	OutOnly  string `json:"out" expose:"serialize"`
	InOnly   string `json:"in" expose:"deserialize"`
	Internal string `json:"internal"`
}

func TestRequireExpose(t *testing.T) {
	api := newTestAPI(t, Options{RequireExpose: true})

	out, err := api.MarshalToString(exposed{Both: "b", OutOnly: "o", InOnly: "i", Internal: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"both":"b","out":"o"}`, out)

	var back exposed
	require.NoError(t, api.UnmarshalFromString(`{"both":"b","out":"o","in":"i","internal":"x"}`, &back))
	assert.Equal(t, exposed{Both: "b", InOnly: "i"}, back)
}

type skipSecrets struct{}

func (skipSecrets) ShouldSkipField(f FieldAttributes) bool {
	return f.Tag.Get("secret") == "true"
}

func (skipSecrets) ShouldSkipType(t reflect.Type) bool { return t == reflect.TypeOf(complex64(0)) }

type credentials struct {
	User     string `json:"user"`
	Password string `json:"password" secret:"true"`
}

func TestExclusionStrategies(t *testing.T) {
	api := newTestAPI(t, Options{SerializationExclusions: []ExclusionStrategy{skipSecrets{}}})

	out, err := api.MarshalToString(credentials{User: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, `{"user":"u"}`, out)

	var back credentials
	require.NoError(t, api.UnmarshalFromString(`{"user":"u","password":"p"}`, &back))
	assert.Equal(t, "p", back.Password)

	api = newTestAPI(t, Options{DeserializationExclusions: []ExclusionStrategy{skipSecrets{}}})
	back = credentials{}
	require.NoError(t, api.UnmarshalFromString(`{"user":"u","password":"p"}`, &back))
	assert.Empty(t, back.Password)
}

type nullable struct {
	Name   string         `json:"name"`
	Ptr    *int           `json:"ptr"`
	Items  []string       `json:"items"`
	Meta   map[string]int `json:"meta"`
	Any    any            `json:"any"`
	Empty  string         `json:"empty,omitempty"`
	Kept   []string       `json:"kept"`
	Status int            `json:"status"`
}

func TestNullFieldsOmittedByDefault(t *testing.T) {
	api := newTestAPI(t, Options{})

	out, err := api.MarshalToString(nullable{Name: "n", Kept: []string{}})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"n","kept":[],"status":0}`, out)
}

func TestSerializeNulls(t *testing.T) {
	api := newTestAPI(t, Options{SerializeNulls: true})

	out, err := api.MarshalToString(nullable{Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"n","ptr":null,"items":null,"meta":null,"any":null,"kept":null,"status":0}`, out)
}

func TestLongAsString(t *testing.T) {
	api := newTestAPI(t, Options{LongPolicy: LongAsString})

	type counters struct {
		Big   int64  `json:"big"`
		Plain int32  `json:"plain"`
		U     uint64 `json:"u"`
	}
	out, err := api.MarshalToString(counters{Big: 9007199254740993, Plain: 3, U: 7})
	require.NoError(t, err)
	assert.Equal(t, `{"big":"9007199254740993","plain":3,"u":"7"}`, out)
}

func TestSpecialFloats(t *testing.T) {
	nan := []float64{0, 1.5, math.Inf(1), math.Inf(-1)}

	api := newTestAPI(t, Options{SpecialFloats: true})
	out, err := api.MarshalToString(nan)
	require.NoError(t, err)
	assert.Equal(t, `[0,1.5,Infinity,-Infinity]`, out)

	plain := newTestAPI(t, Options{})
	_, err = plain.MarshalToString(nan)
	require.Error(t, err)
}

func TestLenientDecoding(t *testing.T) {
	type form struct {
		Age    int     `json:"age"`
		Score  float64 `json:"score"`
		Label  string  `json:"label"`
		Active bool    `json:"active"`
		Count  uint8   `json:"count"`
	}
	api := newTestAPI(t, Options{Lenient: true})

	var got form
	require.NoError(t, api.UnmarshalFromString(`{"age":"42","score":"1.5","label":12,"active":"true","count":true}`, &got))
	assert.Equal(t, form{Age: 42, Score: 1.5, Label: "12", Active: true, Count: 1}, got)

	err := api.UnmarshalFromString(`{"age":"forty"}`, &got)
	require.Error(t, err)

	strict := newTestAPI(t, Options{})
	err = strict.UnmarshalFromString(`{"age":"42"}`, &got)
	require.Error(t, err)
}

type celsius float64

func TestTypeAdapters(t *testing.T) {
	adapterFn := AdapterFunc(
		func(v celsius, stream *jsoniter.Stream) {
			stream.WriteString(strconv.FormatFloat(float64(v), 'f', 1, 64) + "C")
		},
		func(iter *jsoniter.Iterator) (celsius, error) {
			s := iter.ReadString()
			if len(s) == 0 || s[len(s)-1] != 'C' {
				return 0, errors.New("missing unit")
			}
			f, err := strconv.ParseFloat(s[:len(s)-1], 64)
			return celsius(f), err
		},
	)
	api := newTestAPI(t, Options{TypeAdapters: map[reflect.Type]any{reflect.TypeOf(celsius(0)): adapterFn}})

	out, err := api.MarshalToString([]celsius{21.5})
	require.NoError(t, err)
	assert.Equal(t, `["21.5C"]`, out)

	var back []celsius
	require.NoError(t, api.UnmarshalFromString(`["19.0C", null]`, &back))
	assert.Equal(t, []celsius{19, 0}, back)

	err = api.UnmarshalFromString(`["19"]`, &back)
	require.Error(t, err)
}

type areaShape interface{ Area() float64 }

type square struct{ Side float64 }

func (s square) Area() float64 { return s.Side * s.Side }

func TestHierarchyAdapter(t *testing.T) {
	enc := EncoderFunc(func(s square, stream *jsoniter.Stream) {
		stream.WriteFloat64(s.Area())
	})
	api := newTestAPI(t, Options{HierarchyAdapters: []HierarchyAdapter{
		{Base: reflect.TypeOf((*areaShape)(nil)).Elem(), Adapter: enc},
	}})

	out, err := api.MarshalToString(square{Side: 3})
	require.NoError(t, err)
	assert.Equal(t, `9`, out)
}

func TestWrap(t *testing.T) {
	cause := errors.New("boom")

	err := Wrap("read value", cause)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "read value", e.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "jsonutil: read value: boom", err.Error())

	assert.Same(t, err, Wrap("read value", err))
	assert.Equal(t, ErrNoMoreElements, Wrap("read value", ErrNoMoreElements))
	assert.NoError(t, Wrap("read value", nil))
}
