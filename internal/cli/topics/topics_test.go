package topics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTopic(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestManagerLoad(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "layout.md", "# Layout\n\nHow trees are stored")
	writeTopic(t, dir, "caching.txt", "Notes on the presence caches")
	writeTopic(t, dir, "ignore.json", "not a topic")

	t.Run("default extensions", func(t *testing.T) {
		m := New(dir, Options{})
		require.NoError(t, m.load())

		topic, ok := m.Get("layout")
		require.True(t, ok)
		assert.Equal(t, "# Layout\n\nHow trees are stored", topic.Content)

		_, ok = m.Get("ignore")
		assert.False(t, ok)

		assert.Equal(t, []string{"caching", "layout"}, m.List())
	})

	t.Run("custom extensions", func(t *testing.T) {
		m := New(dir, Options{Extensions: []string{".json"}})
		require.NoError(t, m.load())

		_, ok := m.Get("ignore")
		assert.True(t, ok)
		_, ok = m.Get("layout")
		assert.False(t, ok)
	})
}

func TestManagerMissingDirectory(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "absent"), Options{})
	require.NoError(t, m.load())
	assert.Empty(t, m.List())
}

func TestInitializeReplacesHelp(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "layout.md", "# Layout")

	rootCmd := &cobra.Command{Use: "dirstore"}
	require.NoError(t, Initialize(rootCmd, dir, Options{}))

	var helpCmd *cobra.Command
	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" {
			helpCmd = c
		}
	}
	require.NotNil(t, helpCmd)
	assert.Contains(t, helpCmd.Long, "dirstore help topics")
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "raw", r.Render("raw", ".txt"))
}

func TestGlamourRendererPassesThroughNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
