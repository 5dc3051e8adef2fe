package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/km/internal/errors"
	"github.com/rileyhilliard/km/internal/sshkey"
)

// keyItem implements list.Item for the Bubbles list component.
type keyItem struct {
	record sshkey.KeyRecord
}

func (i keyItem) Title() string {
	return i.record.Name()
}

func (i keyItem) Description() string {
	parts := []string{keyTypeCell(i.record)}
	if i.record.Comment != "" {
		parts = append(parts, i.record.Comment)
	}
	if i.record.Fingerprint != "" {
		parts = append(parts, i.record.Fingerprint)
	}
	return strings.Join(parts, " | ")
}

func (i keyItem) FilterValue() string {
	// Allow searching by name, comment, and fingerprint
	return strings.Join([]string{
		i.record.Name(),
		i.record.Comment,
		i.record.Fingerprint,
	}, " ")
}

// KeyPickerModel is a Bubble Tea model for selecting a key pair.
type KeyPickerModel struct {
	list     list.Model
	selected *sshkey.KeyRecord
	quitting bool
}

// keyPickerKeyMap defines key bindings for the picker.
type keyPickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var keyPickerKeys = keyPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewKeyPickerModel creates a new key picker model.
func NewKeyPickerModel(records []sshkey.KeyRecord) KeyPickerModel {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = keyItem{record: rec}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		BorderForeground(lipgloss.Color(string(ColorSecondary)))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color(string(ColorMuted)))

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select a key"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorMuted)))

	return KeyPickerModel{list: l}
}

// Init implements tea.Model.
func (m KeyPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m KeyPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(keyItem); ok {
				rec := item.record
				m.selected = &rec
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keyPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m KeyPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the selected record, or nil if cancelled.
func (m KeyPickerModel) Selected() *sshkey.KeyRecord {
	return m.selected
}

// PickKey displays an interactive picker and returns the selected key.
// Returns nil if the user cancels (ESC/q/Ctrl+C).
func PickKey(records []sshkey.KeyRecord) (*sshkey.KeyRecord, error) {
	return PickKeyWithIO(records, os.Stdout, os.Stdin)
}

// PickKeyWithIO displays the key picker using custom I/O.
func PickKeyWithIO(records []sshkey.KeyRecord, output io.Writer, input io.Reader) (*sshkey.KeyRecord, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrNotFound,
			"No keys to pick from",
			"Generate one first: km generate")
	}

	if len(records) == 1 {
		return &records[0], nil
	}

	p := tea.NewProgram(
		NewKeyPickerModel(records),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Key picker failed",
			"Try again, or name the key directly as an argument.")
	}

	if m, ok := finalModel.(KeyPickerModel); ok {
		return m.Selected(), nil
	}

	return nil, nil
}
