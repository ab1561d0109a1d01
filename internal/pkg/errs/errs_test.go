//go:build unit

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"availability-engine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	cause := errs.New("night 2030-06-02 booked")

	t.Run("marked error matches the sentinel with both Is functions", func(t *testing.T) {
		err := errs.Mark(cause, errs.ErrDatesUnavailable)

		assert.True(t, errors.Is(err, errs.ErrDatesUnavailable))
		assert.True(t, errs.Is(err, errs.ErrDatesUnavailable))
		assert.False(t, errors.Is(err, errs.ErrStayLengthNotAllowed))
		assert.False(t, errs.Is(err, errs.ErrStayLengthNotAllowed))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("mark survives further wrapping", func(t *testing.T) {
		err := errs.Wrap(errs.Wrapf(errs.Mark(cause, errs.ErrUpstreamUnavailable), "window %s", "1/10"), "get availability")

		assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
		assert.True(t, errs.Is(err, errs.ErrUpstreamUnavailable))
		assert.Equal(t, "get availability: window 1/10: night 2030-06-02 booked", err.Error())
	})

	t.Run("message and stack of the cause are kept", func(t *testing.T) {
		err := errs.Mark(cause, errs.ErrAuth)

		assert.Equal(t, cause.Error(), err.Error())
		assert.Contains(t, fmt.Sprintf("%+v", err), "errs_test.TestMark")
	})

	t.Run("nil cause yields the sentinel", func(t *testing.T) {
		assert.Same(t, errs.ErrAuth, errs.Mark(nil, errs.ErrAuth))
	})
}
