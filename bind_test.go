package basex

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryArgument(t *testing.T) {
	id := uuid.MustParse("9f53cbfb-74e4-4d21-8b5c-7df357d98118")
	when := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		value any
		text  string
		typ   string
	}{
		{nil, "", ""},
		{"chapter", "chapter", "xs:string"},
		{true, "true", "xs:boolean"},
		{int8(-1), "-1", "xs:byte"},
		{int16(-2), "-2", "xs:short"},
		{int32(-3), "-3", "xs:int"},
		{int64(-4), "-4", "xs:long"},
		{-5, "-5", "xs:long"},
		{uint8(1), "1", "xs:unsignedByte"},
		{uint16(2), "2", "xs:unsignedShort"},
		{uint32(3), "3", "xs:unsignedInt"},
		{uint64(4), "4", "xs:unsignedLong"},
		{uint(5), "5", "xs:unsignedLong"},
		{float32(1.5), "1.5", "xs:float"},
		{2.25, "2.25", "xs:double"},
		{when, "2024-05-17T10:30:00Z", "xs:dateTime"},
		{decimal.RequireFromString("10.25"), "10.25", "xs:decimal"},
		{id, "9f53cbfb-74e4-4d21-8b5c-7df357d98118", "xs:string"},
	}
	for _, tt := range tests {
		text, typ, err := queryArgument(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.text, text, "value %v", tt.value)
		assert.Equal(t, tt.typ, typ, "value %v", tt.value)
	}
}

func TestQueryArgumentUnsupported(t *testing.T) {
	_, _, err := queryArgument(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported argument type")
}
