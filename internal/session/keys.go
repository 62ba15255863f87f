package session

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the single-key commands of the session
type KeyMap struct {
	Help     key.Binding
	Stations key.Binding
	Search   key.Binding
	Repeat   key.Binding
	Find     key.Binding
	Select   key.Binding
	Play     key.Binding
	Pause    key.Binding
	Stop     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "Help"),
		),
		Stations: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Choose radios"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Enter search text"),
		),
		Repeat: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Repeat search results"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Find in search results"),
		),
		Select: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "Select an entry, 1-9 for entries 1 to 9, 010-099 for entries 10 to 99"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Play"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("<space>", "Pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Stop"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// HelpBindings returns the bindings in the order help lists them
func (k KeyMap) HelpBindings() []key.Binding {
	return []key.Binding{
		k.Help, k.Stations, k.Search, k.Repeat, k.Find,
		k.Select, k.Play, k.Pause, k.Stop, k.Quit,
	}
}

// keyMsg wraps a raw keystroke so bindings can be matched with key.Matches.
// Control characters map to their named keys, so 0x03 matches "ctrl+c".
func keyMsg(r rune) tea.KeyMsg {
	if r < 0x20 || r == 0x7f {
		return tea.KeyMsg{Type: tea.KeyType(r)}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
