package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/config"
	"github.com/Veraticus/microscan/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points the global config at a fresh database and a shell
// scraper that prints script's output.
func setupTestConfig(t *testing.T, script string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping tests")
	}

	viper.Reset()
	config.SetDefaults(viper.GetViper())
	t.Cleanup(viper.Reset)

	dbPath := filepath.Join(t.TempDir(), "microscan.db")
	viper.Set("database.path", dbPath)
	viper.Set("scraper.command", "sh")
	viper.Set("scraper.args", []string{"-c", script, "scraper"})
	return dbPath
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReadNames(t *testing.T) {
	names, err := readNames(strings.NewReader("Glow Serum\n\n# comment\n  Aqua Gel  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Glow Serum", "Aqua Gel"}, names)
}

func TestMigrateCmd(t *testing.T) {
	setupTestConfig(t, `echo '[]'`)

	out, err := execute(t, migrateCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	out, err = execute(t, migrateCmd(), "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 2")
}

func TestResolveCmd(t *testing.T) {
	dbPath := setupTestConfig(t, `printf '[{"name":"%s","risk":"high","high":["polyethylene"]}]' "$1"`)

	out, err := execute(t, resolveCmd(), "Glow Serum")
	require.NoError(t, err)
	assert.Contains(t, out, "Glow Serum")
	assert.Contains(t, out, "polyethylene")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	found, err := store.FindByNameContains(context.Background(), "glow")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = execute(t, resolveCmd())
	assert.Error(t, err)
}

func TestResolveCmd_File(t *testing.T) {
	setupTestConfig(t, `printf '[{"name":"%s","risk":"low"}]' "$1"`)

	file := filepath.Join(t.TempDir(), "products.txt")
	require.NoError(t, os.WriteFile(file, []byte("Aqua Gel\nNight Oil\n"), 0600))

	out, err := execute(t, resolveCmd(), "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Aqua Gel")
	assert.Contains(t, out, "Night Oil")
}

func TestUsersAndProductsCmds(t *testing.T) {
	setupTestConfig(t, `printf '[{"name":"%s","risk":"medium","med":["dimethicone"]}]' "$1"`)

	out, err := execute(t, usersCmd(), "create", "ada", "ada@example.com")
	require.NoError(t, err)
	m := regexp.MustCompile(`Created user ada \(([0-9a-f-]+)\)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	userID := m[1]

	_, err = execute(t, usersCmd(), "create", "ada", "ada@example.com")
	assert.ErrorIs(t, err, common.ErrValidation)

	out, err = execute(t, usersCmd(), "show", userID)
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")

	out, err = execute(t, productsCmd(), "add", userID, "Night Oil")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved Night Oil")

	out, err = execute(t, productsCmd(), "list", userID)
	require.NoError(t, err)
	assert.Contains(t, out, "Night Oil")

	_, err = execute(t, productsCmd(), "list", "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAlternativesCmd(t *testing.T) {
	setupTestConfig(t, `echo '[{"name":"Clean Serum","risk":"low"},{"name":"Harsh Serum","risk":"high"}]'`)

	out, err := execute(t, alternativesCmd(), "Harsh Serum", "--risk", "medium")
	require.NoError(t, err)
	assert.Contains(t, out, "Clean Serum")
	assert.NotContains(t, out, "Harsh Serum")

	_, err = execute(t, alternativesCmd(), "Harsh Serum", "--risk", "extreme")
	assert.Error(t, err)
}

func TestCreateInvoker_MissingCommand(t *testing.T) {
	setupTestConfig(t, `echo '[]'`)
	viper.Set("scraper.command", "definitely-not-a-real-scraper-binary")

	_, err := execute(t, resolveCmd(), "Glow Serum")
	require.Error(t, err)

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "scraper.command")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
