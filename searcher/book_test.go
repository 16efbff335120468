package searcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ggp/game"
	"ggp/games"
)

func TestBookBuilderNim(t *testing.T) {
	interp, err := games.ByName("nim")
	require.NoError(t, err)

	builder := NewBookBuilder(interp, games.RoleFirst)
	book, err := builder.Build(context.Background())
	require.NoError(t, err)
	require.True(t, builder.Done())
	require.Equal(t, games.RoleFirst, book.Role())

	t.Run("a pile of seven is a first-player win", func(t *testing.T) {
		utility, ok := book.Lookup(interp.InitState(), games.RoleFirst)
		require.True(t, ok)
		require.Equal(t, 1.0, utility)
	})

	t.Run("the book answers only for its role", func(t *testing.T) {
		_, ok := book.Lookup(interp.InitState(), games.RoleSecond)
		require.False(t, ok)
	})

	t.Run("a multiple of four loses for the mover", func(t *testing.T) {
		losing := game.MakeState("control(first)", "pile(size(4))")

		utility, ok := book.Lookup(losing, games.RoleFirst)
		require.True(t, ok)
		require.Equal(t, 0.0, utility)
	})

	t.Run("the second player loses the opening", func(t *testing.T) {
		second, err := NewBookBuilder(interp, games.RoleSecond).Build(context.Background())
		require.NoError(t, err)

		utility, ok := second.Lookup(interp.InitState(), games.RoleSecond)
		require.True(t, ok)
		require.Equal(t, 0.0, utility)
	})

	t.Run("unknown state", func(t *testing.T) {
		_, ok := book.Lookup(game.MakeState("control(first)", "pile(size(99))"), games.RoleFirst)
		require.False(t, ok)
	})
}

func TestBookBuilderChance(t *testing.T) {
	interp, err := games.ByName("minipoker")
	require.NoError(t, err)

	caller, err := NewBookBuilder(interp, games.RoleCaller).Build(context.Background())
	require.NoError(t, err)

	t.Run("the deal averages the two branches", func(t *testing.T) {
		utility, ok := caller.Lookup(interp.InitState(), games.RoleCaller)
		require.True(t, ok)
		require.Equal(t, 0.5, utility)

		bluffer, err := NewBookBuilder(interp, games.RoleBluffer).Build(context.Background())
		require.NoError(t, err)
		utility, ok = bluffer.Lookup(interp.InitState(), games.RoleBluffer)
		require.True(t, ok)
		require.Equal(t, 0.5, utility)
	})

	t.Run("an informed caller always calls a red hand", func(t *testing.T) {
		held := game.MakeState("control(caller)", "dealt", "dealt(red)", "held(bluffer)")

		utility, ok := caller.Lookup(held, games.RoleCaller)
		require.True(t, ok)
		require.Equal(t, 1.0, utility)
	})
}

func TestBookBuilderCancellation(t *testing.T) {
	interp, err := games.ByName("tictactoe")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	book, err := NewBookBuilder(interp, games.RoleX).Build(ctx)
	require.NoError(t, err, "cancellation returns the partial book")
	require.Equal(t, 0, book.Len())
}
