package jsonutil_test

import (
	"strings"
	"testing"
	"time"

	"github.com/drewjocham/go-json-utils/jsonutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

const (
	statusActive  status = "A"
	statusRetired status = "R"
)

var statuses = []status{statusActive, statusRetired}

func (s status) ID() string { return string(s) }

func (s *status) ParseID(id string) error {
	v, err := jsonutil.ParseID(statuses, id)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type order struct {
	ID      int                     `json:"id"`
	Status  status                  `json:"status"`
	Placed  jsonutil.LocalDate      `json:"placed"`
	Shipped jsonutil.OffsetDateTime `json:"shipped"`
	Amount  any                     `json:"amount"`
}

func TestPublicSurface(t *testing.T) {
	b := jsonutil.NewBuilder().FieldNamingPolicy(jsonutil.LowerCamelCase)
	require.NoError(t, jsonutil.SetBuilder(b))
	t.Cleanup(func() { _ = jsonutil.SetBuilder(nil) })

	in := order{
		ID:      7,
		Status:  statusActive,
		Placed:  jsonutil.NewLocalDate(2024, time.February, 29),
		Shipped: jsonutil.OffsetDateTime(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)),
		Amount:  int32(12),
	}
	out, err := jsonutil.WriteValue(in)
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"status":"A","placed":"2024-02-29","shipped":"2024-03-01T12:00:00Z","amount":12}`, out)

	back, err := jsonutil.ReadValue[order](out)
	require.NoError(t, err)
	assert.Equal(t, in.Status, back.Status)
	assert.Equal(t, in.Placed, back.Placed)
	assert.True(t, in.Shipped.Equal(back.Shipped))
	assert.Equal(t, int32(12), back.Amount)

	_, err = jsonutil.ReadValue[status](`"X"`)
	var jerr *jsonutil.Error
	assert.ErrorAs(t, err, &jerr)
}

func TestPublicIterator(t *testing.T) {
	var seq *jsonutil.Iterator[order]
	seq, err := jsonutil.ReadListLazy[order](strings.NewReader(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	defer seq.Close()

	var ids []int
	for seq.HasNext() {
		o, err := seq.Next()
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []int{1, 2}, ids)

	_, err = seq.Next()
	assert.ErrorIs(t, err, jsonutil.ErrNoMoreElements)
}
