package stun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAttributes_RoundTrip(t *testing.T) {
	u := UnknownAttributes{Types: []AttrType{0x0002, 0x0003, AttrRealm}}
	m := New()
	require.NoError(t, u.AddTo(m))

	var got UnknownAttributes
	require.NoError(t, got.GetFrom(m))
	assert.Equal(t, u.Types, got.Types)
}

func TestUnknownAttributes_TruncatesOversizedList(t *testing.T) {
	types := make([]AttrType, unknownAttributesReportMax+10)
	for i := range types {
		types[i] = AttrType(i + 1)
	}
	u := UnknownAttributes{Types: types}

	m := New()
	require.NoError(t, u.AddTo(m))

	var got UnknownAttributes
	require.NoError(t, got.GetFrom(m))
	assert.Len(t, got.Types, unknownAttributesReportMax)
	assert.Equal(t, types[:unknownAttributesReportMax], got.Types)
}
