package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover_WithPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "objective")
		panic("bad candidate")
	}

	err := fn()
	require.Error(t, err)

	var panicErr *PanicError
	require.True(t, As(err, &panicErr))
	assert.Equal(t, "objective", panicErr.Operation)
	assert.Equal(t, "bad candidate", panicErr.PanicValue)
	assert.Contains(t, panicErr.String(), "Stack trace")
}

func TestRecover_WithoutPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "objective")
		return nil
	}
	assert.NoError(t, fn())
}

func TestRecover_WithExistingError(t *testing.T) {
	original := New("metric failed")
	fn := func() (err error) {
		defer Recover(&err, "objective")
		err = original
		panic("after error")
	}

	err := fn()
	require.Error(t, err)
	assert.True(t, Is(err, original))
	assert.Contains(t, fmt.Sprintf("%+v", err), "after error")
}

func TestSafeExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, SafeExecute("op", func() error { return nil }))
	})

	t.Run("function error", func(t *testing.T) {
		want := New("boom")
		err := SafeExecute("op", func() error { return want })
		assert.True(t, Is(err, want))
	})

	t.Run("panic with error value", func(t *testing.T) {
		cause := New("index out of range")
		err := SafeExecute("learner.Learn", func() error { panic(cause) })

		var panicErr *PanicError
		require.True(t, As(err, &panicErr))
		assert.True(t, Is(err, cause))
		assert.Equal(t, "modelselect: panic in learner.Learn: index out of range", panicErr.Error())
	})

	t.Run("panic with other value", func(t *testing.T) {
		err := SafeExecute("op", func() error { panic(42) })
		assert.Contains(t, err.Error(), "42")
	})
}
