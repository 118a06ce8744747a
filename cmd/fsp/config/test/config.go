package configtest

import (
	"testing"

	"github.com/nspcc-dev/fsp/cmd/fsp/config"
	"github.com/stretchr/testify/require"
	"github.com/subosito/gotenv"
)

func fromFile(t testing.TB, path string) *config.Config {
	var p config.Prm

	c, err := config.New(p,
		config.WithConfigFile(path),
	)
	require.NoError(t, err)

	return c
}

// ForEachFileType passes configs read from next files:
//   - `<pref>.yaml`;
//   - `<pref>.json`.
func ForEachFileType(t testing.TB, pref string, f func(*config.Config)) {
	for _, p := range []string{pref + ".yaml", pref + ".json"} {
		f(fromFile(t, p))
	}
}

// EmptyConfig returns config without any values and sections.
func EmptyConfig(t testing.TB) *config.Config {
	var p config.Prm

	c, err := config.New(p)
	require.NoError(t, err)

	return c
}

// LoadEnv sets environment variables listed in the dotenv file at path for
// the duration of the test.
func LoadEnv(t testing.TB, path string) {
	env, err := gotenv.Read(path)
	require.NoError(t, err)

	for k, v := range env {
		t.Setenv(k, v)
	}
}
