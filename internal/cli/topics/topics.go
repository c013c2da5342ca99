// Package topics extends Cobra's help with free-standing documentation
// topics loaded from files, so `dirstore help <topic>` works alongside
// `dirstore help <command>`.
package topics

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help document
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Options configures topic discovery and rendering
type Options struct {
	// Extensions lists the file extensions treated as topics.
	// Defaults to [".txt", ".md"].
	Extensions []string

	// Renderer formats topic content for the terminal.
	// Defaults to PlainRenderer.
	Renderer Renderer
}

// Manager holds the discovered topics for one command tree
type Manager struct {
	dir          string
	topics       map[string]*Topic
	extensions   []string
	renderer     Renderer
	originalHelp func(*cobra.Command, []string)
}

// New creates a Manager reading topics from dir
func New(dir string, opts Options) *Manager {
	m := &Manager{
		dir:        dir,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}
	return m
}

// load reads every topic file under the manager's directory. A missing
// directory is not an error; it just means no topics.
func (m *Manager) load() error {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(m.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if !m.supported(ext) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(path), ext)
		m.topics[name] = &Topic{
			Name:     name,
			FilePath: path,
			Content:  string(content),
		}
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Get retrieves a topic by name
func (m *Manager) Get(name string) (*Topic, bool) {
	topic, ok := m.topics[name]
	return topic, ok
}

// List returns the available topic names, sorted
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Initialize wires the topic system into rootCmd: it replaces the help
// command with one that also resolves topics, and overrides the help
// function so `--help <topic>` works too.
func Initialize(rootCmd *cobra.Command, dir string, opts Options) error {
	m := New(dir, opts)
	if err := m.load(); err != nil {
		return fmt.Errorf("failed to load help topics: %w", err)
	}

	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: fmt.Sprintf(`Help provides help for any command or topic.
Type %[1]s help [command or topic] for full details.

To see all available topics:
  %[1]s help topics`, rootCmd.Name()),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				m.printTopicList(rootCmd.Name())
				return
			}

			if topic, ok := m.Get(args[0]); ok {
				fmt.Print(m.render(topic))
				return
			}

			m.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.Get(args[0]); ok {
				fmt.Print(m.render(topic))
				return
			}
		}
		m.originalHelp(cmd, args)
	})

	return nil
}

func (m *Manager) render(topic *Topic) string {
	return m.renderer.Render(topic.Content, filepath.Ext(topic.FilePath))
}

func (m *Manager) printTopicList(program string) {
	names := m.List()
	if len(names) == 0 {
		fmt.Println("No help topics available.")
		return
	}

	fmt.Println("Available help topics:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", program)
}
