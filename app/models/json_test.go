package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONScan(t *testing.T) {
	var j JSON
	require.NoError(t, j.Scan([]byte(`{"plan":"premium"}`)))
	assert.Equal(t, `{"plan":"premium"}`, string(j))

	require.NoError(t, j.Scan("from-string"))
	assert.Equal(t, "from-string", string(j))

	require.NoError(t, j.Scan(nil))
	assert.Equal(t, "{}", string(j))

	assert.Error(t, j.Scan(42))
}

func TestJSONValue(t *testing.T) {
	j := JSON(`{"a":1}`)
	v, err := j.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	var empty JSON
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
