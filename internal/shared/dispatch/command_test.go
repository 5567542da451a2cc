package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renameThing struct {
	ID   string
	Name string
}

func (renameThing) CommandKind() CommandKind { return "things.rename" }

type deleteThing struct {
	ID string
}

func (deleteThing) CommandKind() CommandKind { return "things.delete" }

type orphanCommand struct{}

func (orphanCommand) CommandKind() CommandKind { return "things.orphan" }

func TestInvoker_ExecuteRoutesToSingleHandler(t *testing.T) {
	var renamed []renameThing
	deletes := 0
	invoker, err := NewInvoker([]CommandRoute{
		OnCommand(func(_ context.Context, cmd renameThing) error {
			renamed = append(renamed, cmd)
			return nil
		}),
		OnCommand(func(_ context.Context, cmd deleteThing) error {
			deletes++
			return nil
		}),
	})
	require.NoError(t, err)

	cmd := renameThing{ID: "a", Name: "b"}
	require.NoError(t, invoker.Execute(context.Background(), cmd))

	require.Len(t, renamed, 1)
	assert.Equal(t, cmd, renamed[0])
	assert.Zero(t, deletes)
	assert.Equal(t, []CommandKind{"things.delete", "things.rename"}, invoker.Kinds())
}

func TestInvoker_ExecutePropagatesHandlerErrorUnchanged(t *testing.T) {
	storageDown := errors.New("storage unavailable")
	calls := 0
	invoker, err := NewInvoker([]CommandRoute{
		OnCommand(func(context.Context, renameThing) error {
			calls++
			return storageDown
		}),
	})
	require.NoError(t, err)

	err = invoker.Execute(context.Background(), renameThing{ID: "a"})
	assert.Same(t, storageDown, err)
	assert.Equal(t, 1, calls)
}

func TestInvoker_ExecuteUnregisteredKindPanics(t *testing.T) {
	invoker, err := NewInvoker([]CommandRoute{
		OnCommand(func(context.Context, renameThing) error { return nil }),
	})
	require.NoError(t, err)

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)
		defect, ok := recovered.(*ResolutionDefect)
		require.True(t, ok, "expected *ResolutionDefect, got %T", recovered)
		assert.Equal(t, CommandKind("things.orphan"), defect.Command)
		assert.Contains(t, defect.Error(), "things.orphan")
	}()
	_ = invoker.Execute(context.Background(), orphanCommand{})
}

func TestNewInvoker_RejectsDuplicateKinds(t *testing.T) {
	handler := func(context.Context, renameThing) error { return nil }
	_, err := NewInvoker([]CommandRoute{OnCommand(handler), OnCommand(handler)})
	require.ErrorIs(t, err, ErrDuplicateRoute)
}

func TestNewInvoker_RejectsNilHandler(t *testing.T) {
	_, err := NewInvoker([]CommandRoute{OnCommand[renameThing](nil)})
	require.ErrorIs(t, err, ErrNilHandler)
}

func TestNewInvoker_RequiresDeclaredKinds(t *testing.T) {
	_, err := NewInvoker([]CommandRoute{
		OnCommand(func(context.Context, renameThing) error { return nil }),
	}, renameThing{}.CommandKind(), deleteThing{}.CommandKind())
	require.ErrorIs(t, err, ErrMissingRoute)
	assert.Contains(t, err.Error(), "things.delete")
}
