package environ_test

import (
	"os"
	"testing"

	"github.com/gandalfthegui/dotenv/internal/environ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateOverwrite(t *testing.T) {
	env := environ.NewMap(map[string]string{"A": "old"})

	written, err := environ.Populate(env, map[string]string{"A": "new", "B": "2"}, environ.Overwrite)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, written)

	v, ok := env.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestPopulateKeepExisting(t *testing.T) {
	env := environ.NewMap(map[string]string{"A": "old", "EMPTY": ""})

	written, err := environ.Populate(env, map[string]string{"A": "new", "B": "2", "EMPTY": "x"}, environ.KeepExisting)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, written)

	assert.Equal(t, []string{"A=old", "B=2", "EMPTY="}, env.Environ())
}

func TestPopulateStopsOnFailedWrite(t *testing.T) {
	env := environ.NewMap(nil)

	written, err := environ.Populate(env, map[string]string{"A": "1", "B=C": "2"}, environ.Overwrite)
	require.Error(t, err)
	assert.Equal(t, []string{"A"}, written)
}

func TestFromEnviron(t *testing.T) {
	m := environ.FromEnviron([]string{"A=1", "B=x=y", "junk", "=hidden", "EMPTY="})
	assert.Equal(t, []string{"A=1", "B=x=y", "EMPTY="}, m.Environ())
}

func TestRecorder(t *testing.T) {
	rec := environ.Record(environ.NewMap(map[string]string{"KEEP": "1"}))

	_, err := environ.Populate(rec, map[string]string{"KEEP": "2", "NEW": "3"}, environ.KeepExisting)
	require.NoError(t, err)

	assert.Equal(t, []string{"NEW"}, rec.Written())
	assert.True(t, rec.Wrote("NEW"))
	assert.False(t, rec.Wrote("KEEP"))
}

func TestOSEnv(t *testing.T) {
	t.Setenv("DOTENV_ENVIRON_TEST", "before")

	var env environ.OS
	v, ok := env.Lookup("DOTENV_ENVIRON_TEST")
	require.True(t, ok)
	assert.Equal(t, "before", v)

	require.NoError(t, env.Set("DOTENV_ENVIRON_TEST", "after"))
	assert.Equal(t, "after", os.Getenv("DOTENV_ENVIRON_TEST"))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "keep-existing", environ.KeepExisting.String())
	assert.Equal(t, "overwrite", environ.Overwrite.String())
	assert.Equal(t, "Mode(7)", environ.Mode(7).String())
}
