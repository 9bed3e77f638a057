package profile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsVenus(t *testing.T) {
	assert.Equal(t, Venus, Default())
}

func TestNamed(t *testing.T) {
	p, ok := Named("")
	assert.True(t, ok)
	assert.Equal(t, Venus, p)

	p, ok = Named("venus")
	assert.True(t, ok)
	assert.Equal(t, Venus, p)

	p, ok = Named("rars")
	assert.True(t, ok)
	assert.Equal(t, RARS, p)
	assert.Equal(t, 93, p.ExitWithCode)

	_, ok = Named("unknown-simulator")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "profile-*.toml")
	require.NoError(t, err)

	_, err = f.WriteString(`
name = "custom"
print_int = 1
print_string = 4
print_char = 11
read_int = 5
exit_no_code = 10
exit_with_code = 42
`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	p, err := Load(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, 42, p.ExitWithCode)
}
