package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocksFieldUnmarshal(t *testing.T) {
	t.Run("structured array", func(t *testing.T) {
		var b BlocksField
		err := json.Unmarshal([]byte(`[{"content":"a","language":"go"},{"content":"b"}]`), &b)
		require.NoError(t, err)
		require.Len(t, b, 2)
		assert.Equal(t, "go", b[0].Language)
		assert.Equal(t, "b", b[1].Content)
	})

	t.Run("serialized string", func(t *testing.T) {
		var b BlocksField
		err := json.Unmarshal([]byte(`"[{\"content\":\"a\"}]"`), &b)
		require.NoError(t, err)
		require.Len(t, b, 1)
		assert.Equal(t, "a", b[0].Content)
	})

	t.Run("null and empty string", func(t *testing.T) {
		var b BlocksField
		require.NoError(t, json.Unmarshal([]byte(`null`), &b))
		assert.Nil(t, b)
		require.NoError(t, json.Unmarshal([]byte(`""`), &b))
		assert.Nil(t, b)
	})

	t.Run("garbage string", func(t *testing.T) {
		var b BlocksField
		assert.Error(t, json.Unmarshal([]byte(`"not json"`), &b))
	})

	t.Run("wrong type", func(t *testing.T) {
		var b BlocksField
		assert.Error(t, json.Unmarshal([]byte(`42`), &b))
	})
}
