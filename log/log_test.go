package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	require.NoError(t, SetLevel("DEBUG"))
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, SetLevel(""))
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.Error(t, SetLevel("loud"))
}
