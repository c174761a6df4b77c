// Package storetest holds the behaviour every store.Backend must share.
package storetest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qa-forum/server/src/server/store"
)

// Run exercises b against the Backend contract. Each subtest uses its own
// collection names so a single backend instance can be shared.
func Run(t *testing.T, b store.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty collection", func(t *testing.T) {
		docs, err := b.Load(ctx, "never_saved")
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("save then load", func(t *testing.T) {
		in := map[string]json.RawMessage{
			"a@b.com": json.RawMessage(`{"username":"a@b.com","password":"h","registration-name":"a"}`),
			"c@d.com": json.RawMessage(`{"username":"c@d.com","password":"h","registration-name":"c"}`),
		}
		require.NoError(t, b.Save(ctx, "round_trip", in))

		out, err := b.Load(ctx, "round_trip")
		require.NoError(t, err)
		require.Len(t, out, 2)
		for k, v := range in {
			assert.JSONEq(t, string(v), string(out[k]), "key %s", k)
		}
	})

	t.Run("save replaces whole collection", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "replace", map[string]json.RawMessage{
			"1": json.RawMessage(`{"n":1}`),
			"2": json.RawMessage(`{"n":2}`),
		}))
		require.NoError(t, b.Save(ctx, "replace", map[string]json.RawMessage{
			"2": json.RawMessage(`{"n":22}`),
		}))

		out, err := b.Load(ctx, "replace")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.JSONEq(t, `{"n":22}`, string(out["2"]))
	})

	t.Run("save empty collection", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "emptied", map[string]json.RawMessage{"k": json.RawMessage(`1`)}))
		require.NoError(t, b.Save(ctx, "emptied", map[string]json.RawMessage{}))

		out, err := b.Load(ctx, "emptied")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("collections are isolated", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "iso_a", map[string]json.RawMessage{"k": json.RawMessage(`"a"`)}))
		require.NoError(t, b.Save(ctx, "iso_b", map[string]json.RawMessage{"k": json.RawMessage(`"b"`)}))

		a, err := b.Load(ctx, "iso_a")
		require.NoError(t, err)
		assert.JSONEq(t, `"a"`, string(a["k"]))
	})

	t.Run("loaded map is a copy", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "copy", map[string]json.RawMessage{"k": json.RawMessage(`1`)}))
		out, err := b.Load(ctx, "copy")
		require.NoError(t, err)
		out["other"] = json.RawMessage(`2`)

		again, err := b.Load(ctx, "copy")
		require.NoError(t, err)
		assert.Len(t, again, 1)
	})
}
