package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	rootCmd.SetArgs([]string{"migrate", "sideways"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "direction must be 'up' or 'down'")
}

func TestMigrateRequiresDirection(t *testing.T) {
	rootCmd.SetArgs([]string{"migrate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, rootCmd.Execute())
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	envFile = "does-not-exist.env"
	t.Cleanup(func() { envFile = "" })

	_, err := loadConfig()
	assert.Error(t, err)
}
