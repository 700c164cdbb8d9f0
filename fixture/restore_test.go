package fixture_test

import (
	"testing"

	"github.com/aron/lazy/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreRemovesEverythingDeclared(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("user", "ada"))
	require.NoError(t, set.Set("token", func() any { return "t-1" }))
	require.NoError(t, set.Set("session", func(c *fixture.Context) (any, error) {
		return c.Get("token")
	}))

	_, err := ctx.Get("session")
	require.NoError(t, err)
	assert.Equal(t, 4, ctx.Len())

	set.Restore()
	assert.False(t, ctx.Has("user"))
	assert.False(t, ctx.Has("token"))
	assert.False(t, ctx.Has("session"))
	assert.Equal(t, []string{"set"}, ctx.Keys())
	assert.Empty(t, set.Declared())
}

func TestRestoreTwiceIsSafe(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("user", "ada"))
	set.Restore()
	set.Restore()
	assert.Equal(t, 1, ctx.Len())
}

func TestRestoreOnEmptyRegistryIsNoop(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	set.Restore()
	assert.Equal(t, []string{"set"}, ctx.Keys())
}

func TestRestoreSkipsDuplicatesAndExternalDeletes(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("token", "a"))
	require.NoError(t, set.Set("token", "b"))
	require.NoError(t, set.Set("user", "ada"))
	assert.Equal(t, []string{"token", "token", "user"}, set.Declared())

	assert.True(t, ctx.Delete("user"))
	set.Restore()

	assert.False(t, ctx.Has("token"))
	assert.False(t, ctx.Has("user"))
	assert.Empty(t, set.Declared())
}

func TestDeleteRemovesProperty(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("user", "ada"))
	assert.True(t, ctx.Delete("user"))
	assert.False(t, ctx.Delete("user"))
	assert.False(t, ctx.Has("user"))

	got, err := ctx.Get("user")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKeysTrackInsertionOrder(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("a", 1))
	require.NoError(t, set.Set("b", 2))
	require.NoError(t, ctx.Set("c", 3))
	assert.Equal(t, []string{"set", "a", "b", "c"}, ctx.Keys())

	// redeclaring keeps the original position
	require.NoError(t, set.Set("a", 10))
	assert.Equal(t, []string{"set", "a", "b", "c"}, ctx.Keys())

	// delete then recreate moves to the end
	assert.True(t, ctx.Delete("a"))
	require.NoError(t, set.Set("a", 100))
	assert.Equal(t, []string{"set", "b", "c", "a"}, ctx.Keys())
}

func TestDeclaredAndNames(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("b", 1))
	require.NoError(t, set.Set("a", 2))
	require.NoError(t, set.Set("b", 3))

	assert.Equal(t, []string{"b", "a", "b"}, set.Declared())
	assert.Equal(t, []string{"b", "a"}, set.Names())
}

func TestSealedContextRefusesDeclaration(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("user", "ada"))
	ctx.Seal()

	err := set.Set("token", "t-1")
	assert.ErrorIs(t, err, fixture.ErrSealed)
	// the failed declaration left no registry entry behind
	assert.Equal(t, []string{"user"}, set.Declared())

	assert.ErrorIs(t, ctx.Set("fresh", 1), fixture.ErrSealed)
	assert.False(t, ctx.Delete("user"))

	// writes to existing slots still land
	require.NoError(t, ctx.Set("user", "grace"))
	user, err := fixture.Get[string](ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, "grace", user)

	assert.Panics(t, func() {
		fixture.Attach(ctx, "let")
	})
}

func TestIndependentBindersPerMethod(t *testing.T) {
	ctx := fixture.New()
	fixture.Attach(ctx, "let")

	set := ctx.Binder(fixture.DefaultMethod)
	let := ctx.Binder("let")
	require.NotNil(t, set)
	require.NotNil(t, let)

	require.NoError(t, set.Set("shared", "from set"))
	require.NoError(t, let.Set("scoped", "from let"))

	let.Restore()
	assert.True(t, ctx.Has("shared"))
	assert.False(t, ctx.Has("scoped"))

	set.Restore()
	assert.False(t, ctx.Has("shared"))
	assert.Equal(t, []string{"set", "let"}, ctx.Keys())
}

func TestReattachInstallsFreshBinder(t *testing.T) {
	ctx := fixture.New()
	old := ctx.Binder(fixture.DefaultMethod)
	require.NoError(t, old.Set("leftover", 1))

	fixture.Attach(ctx, fixture.DefaultMethod)
	fresh := ctx.Binder(fixture.DefaultMethod)
	require.NotNil(t, fresh)
	assert.NotSame(t, old, fresh)
	assert.Empty(t, fresh.Declared())

	// the fresh binder knows nothing about the old declarations
	fresh.Restore()
	assert.True(t, ctx.Has("leftover"))

	// a retained reference can still clean up
	old.Restore()
	assert.False(t, ctx.Has("leftover"))
}

func TestDeclaringOverTheHelperName(t *testing.T) {
	ctx := fixture.New()
	set := ctx.Binder(fixture.DefaultMethod)

	require.NoError(t, set.Set("set", "shadowed"))
	assert.Nil(t, ctx.Binder(fixture.DefaultMethod))

	got, err := ctx.Get("set")
	require.NoError(t, err)
	assert.Equal(t, "shadowed", got)

	set.Restore()
	assert.False(t, ctx.Has("set"))
	assert.Equal(t, 0, ctx.Len())
}
