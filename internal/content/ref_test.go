package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("articles", func(_ context.Context, id uint) (any, error) {
		return map[string]uint{"id": id}, nil
	})

	assert.True(t, reg.Known("articles"))
	assert.False(t, reg.Known("videos"))

	got, err := reg.Resolve(context.Background(), Ref{Kind: "articles", ID: 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]uint{"id": 3}, got)
}

func TestRegistry_UnknownKind(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, err := reg.Resolve(context.Background(), Ref{Kind: "ghosts", ID: 1})
	assert.Error(t, err)
}

func TestRef_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "posts/12", Ref{Kind: "posts", ID: 12}.String())
}
