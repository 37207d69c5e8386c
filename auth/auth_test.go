package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeKey_None(t *testing.T) {
	key, err := ComputeKey(None())
	assert.NoError(t, err)
	assert.Nil(t, key)
}

func TestComputeKey_ShortTerm(t *testing.T) {
	key, err := ComputeKey(ShortTerm("password"))
	assert.NoError(t, err)
	assert.Equal(t, "password", string(key))
}

func TestComputeKey_LongTerm(t *testing.T) {
	key, err := ComputeKey(LongTerm("user", "realm", "pass"))
	assert.NoError(t, err)
	assert.Equal(t, "8493fbc53ba582fb4c044c456bdc40eb", hex.EncodeToString(key))
}

func TestComputeKey_Deterministic(t *testing.T) {
	c := LongTerm("corendos", "default", "password")
	a, err := ComputeKey(c)
	assert.NoError(t, err)
	b, err := ComputeKey(c)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAppendKey(t *testing.T) {
	buf := []byte("prefix:")
	out, err := AppendKey(buf, ShortTerm("pw"))
	assert.NoError(t, err)
	assert.Equal(t, "prefix:pw", string(out))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "short_term", KindShortTerm.String())
	assert.Equal(t, "long_term", KindLongTerm.String())
}
