package partconfig_test

import (
	"io/fs"
	"testing"

	"github.com/nspcc-dev/fsp/cmd/fsp/config"
	partconfig "github.com/nspcc-dev/fsp/cmd/fsp/config/part"
	configtest "github.com/nspcc-dev/fsp/cmd/fsp/config/test"
	"github.com/stretchr/testify/require"
)

func TestPartSection(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := configtest.EmptyConfig(t)

		require.EqualValues(t, partconfig.UnitSizeDefault, partconfig.UnitSize(c))
		require.EqualValues(t, 1<<20, partconfig.UnitSize(c))
		require.EqualValues(t, partconfig.MaxUnitsDefault, partconfig.MaxUnits(c))
		require.EqualValues(t, 60, partconfig.MaxUnits(c))
		require.EqualValues(t, partconfig.BufferSizeDefault, partconfig.BufferSize(c))
		require.EqualValues(t, 1024, partconfig.BufferSize(c))
		require.Equal(t, ".fsp", partconfig.Suffix(c))
		require.Equal(t, 3000, partconfig.MaxKeyLen(c))
		require.Equal(t, partconfig.PermDefault, partconfig.Perm(c))
		require.True(t, partconfig.NoSync(c))
	})

	const path = "../../../../config/example/fsp"

	fileConfigTest := func(c *config.Config) {
		require.EqualValues(t, 4<<20, partconfig.UnitSize(c))
		require.EqualValues(t, 10, partconfig.MaxUnits(c))
		require.EqualValues(t, 64<<10, partconfig.BufferSize(c))
		require.Equal(t, ".part", partconfig.Suffix(c))
		require.Equal(t, 1024, partconfig.MaxKeyLen(c))
		require.Equal(t, fs.FileMode(0o600), partconfig.Perm(c))
		require.False(t, partconfig.NoSync(c))
	}

	configtest.ForEachFileType(t, path, fileConfigTest)

	t.Run("ENV", func(t *testing.T) {
		configtest.LoadEnv(t, path+".env")

		fileConfigTest(configtest.EmptyConfig(t))
	})
}
