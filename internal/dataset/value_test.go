package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"text", Text("widget"), KindText},
		{"number", Number(12.5), KindNumber},
		{"time", Timestamp(time.Now()), KindTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
		})
	}
}

func TestValueAccessorsRejectWrongKind(t *testing.T) {
	_, ok := Text("x").Float()
	assert.False(t, ok)
	_, ok = Number(1).TextValue()
	assert.False(t, ok)
	_, ok = Null().Time()
	assert.False(t, ok)
}

func TestValueString(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "", Null().String())
	assert.Equal(t, "widget", Text("widget").String())
	assert.Equal(t, "12.5", Number(12.5).String())
	assert.Equal(t, "2024-01-15", Timestamp(day).String())
}

func TestValueEqual(t *testing.T) {
	utc := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	other := utc.In(time.FixedZone("plus3", 3*60*60))

	assert.True(t, Timestamp(utc).Equal(Timestamp(other)))
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Text("1")))
	assert.True(t, Null().Equal(Null()))
}
