package cmderr_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/nspcc-dev/fsp/cmd/internal/cmderr"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	cause := errors.New("cause")

	require.Zero(t, cmderr.Code(nil))
	require.Equal(t, 1, cmderr.Code(cause))
	require.Equal(t, 2, cmderr.Code(cmderr.ExitErr{Code: 2, Cause: cause}))
	require.Equal(t, 3, cmderr.Code(fmt.Errorf("wrapped: %w", cmderr.ExitErr{Code: 3, Cause: cause})))

	require.ErrorIs(t, cmderr.ExitErr{Code: 2, Cause: cause}, cause)
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer

	cmderr.Fprint(&buf, nil)
	require.Empty(t, buf.String())

	cmderr.Fprint(&buf, errors.New("boom"))
	require.Equal(t, "Error: boom\n", buf.String())
}
