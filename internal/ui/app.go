package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moeghashim/X-RAY/internal/pipeline"
	"github.com/moeghashim/X-RAY/internal/store"
)

// ViewMode represents the current view.
type ViewMode int

const (
	ModeLibrary ViewMode = iota
	ModeDetail
	ModeHelp
)

// Model is the root Bubble Tea model.
type Model struct {
	store        *store.Store
	orchestrator *pipeline.Orchestrator
	events       <-chan pipeline.Event

	// Library state
	category  store.Category
	items     []store.Item
	counts    map[store.Category]int
	cursor    int
	itemLimit int

	// UI state
	mode      ViewMode
	width     int
	height    int
	spinner   spinner.Model
	input     textinput.Model
	inputMode bool
	statusMsg string
	errMsg    string

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the root model. The event channel feeds live refreshes as
// background analyses complete. itemLimit caps how many items one category
// view holds; zero means no cap.
func New(st *store.Store, orchestrator *pipeline.Orchestrator, itemLimit int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = LoadingItem

	input := textinput.New()
	input.Placeholder = "Paste a tweet link or type text to analyze..."
	input.CharLimit = 2000

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		store:        st,
		orchestrator: orchestrator,
		events:       orchestrator.Subscribe(),
		category:     store.CategoryLearning,
		itemLimit:    itemLimit,
		counts:       map[store.Category]int{},
		mode:         ModeLibrary,
		spinner:      s,
		input:        input,
		statusMsg:    "Ready",
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadItems(),
		m.loadCounts(),
		m.listenForPipelineEvents(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ItemsLoaded:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else if msg.Category == m.category {
			m.items = msg.Items
			if m.cursor >= len(m.items) && len(m.items) > 0 {
				m.cursor = len(m.items) - 1
			}
		}

	case CountsLoaded:
		if msg.Err == nil {
			m.counts = msg.Counts
		}

	case Submitted:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.statusMsg = "Analyzing..."
			cmds = append(cmds, m.loadItems(), m.loadCounts())
		}

	case ItemDeleted:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			cmds = append(cmds, m.loadItems(), m.loadCounts())
		}

	case pipelineEventMsg:
		if msg.Change == "finalized" {
			m.statusMsg = "Ready"
			if msg.Category == m.category {
				cmds = append(cmds, m.loadItems())
			}
		}
		cmds = append(cmds, m.listenForPipelineEvents())
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.errMsg != "" {
		m.errMsg = ""
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		m.mode = ModeLibrary

	case key.Matches(msg, keys.Input):
		m.inputMode = true
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.NextTab):
		m.category = nextCategory(m.category)
		m.cursor = 0
		return m, m.loadItems()

	case key.Matches(msg, keys.PrevTab):
		m.category = prevCategory(m.category)
		m.cursor = 0
		return m, m.loadItems()

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Enter):
		if m.mode == ModeLibrary && m.selected() != nil {
			m.mode = ModeDetail
		}

	case key.Matches(msg, keys.Delete):
		if item := m.selected(); item != nil {
			return m, m.deleteItem(item.ID)
		}

	case key.Matches(msg, keys.Refresh):
		return m, tea.Batch(m.loadItems(), m.loadCounts())
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.input.Value()
		m.inputMode = false
		m.input.Blur()
		m.input.SetValue("")
		return m, m.submit(text)
	case "esc":
		m.inputMode = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) selected() *store.Item {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return &m.items[m.cursor]
}

// Commands

func (m Model) loadItems() tea.Cmd {
	category := m.category
	limit := m.itemLimit
	return func() tea.Msg {
		items, err := m.store.ListByCategory(category)
		if err == nil && limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		return ItemsLoaded{Category: category, Items: items, Err: err}
	}
}

func (m Model) loadCounts() tea.Cmd {
	return func() tea.Msg {
		counts, err := m.store.Counts()
		return CountsLoaded{Counts: counts, Err: err}
	}
}

func (m Model) submit(text string) tea.Cmd {
	category := m.category
	return func() tea.Msg {
		id, err := m.orchestrator.Submit(m.ctx, text, category)
		return Submitted{ID: id, Err: err}
	}
}

func (m Model) deleteItem(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Delete(id)
		return ItemDeleted{ID: id, Err: err}
	}
}

func (m Model) listenForPipelineEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case event, ok := <-m.events:
			if !ok {
				return nil
			}
			return pipelineEventMsg(event)
		case <-m.ctx.Done():
			return nil
		case <-time.After(5 * time.Second):
			// Re-poll so the update loop never starves
			return pipelineEventMsg(pipeline.Event{})
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.mode {
	case ModeLibrary:
		b.WriteString(m.renderLibrary())
	case ModeDetail:
		b.WriteString(m.renderDetail())
	case ModeHelp:
		b.WriteString(m.renderHelp())
	}

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(ErrorBar.Render("Error: " + m.errMsg + " (press any key to dismiss)"))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, category := range store.Categories() {
		label := fmt.Sprintf("%s (%d)", category, m.counts[category])
		if category == m.category {
			tabs = append(tabs, ActiveTab.Render(label))
		} else {
			tabs = append(tabs, InactiveTab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderLibrary() string {
	if len(m.items) == 0 {
		return NormalItem.Render("Nothing here yet. Press i to analyze something.")
	}

	var b strings.Builder
	for i, item := range m.items {
		line := itemLine(item, m.spinner.View())
		switch {
		case i == m.cursor:
			line = SelectedItem.Render(line)
		case item.IsLoading:
			line = LoadingItem.Render(line)
		case item.Error != "":
			line = ErrorItem.Render(line)
		default:
			line = NormalItem.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func itemLine(item store.Item, spinnerView string) string {
	title := strings.TrimSpace(item.OriginalText)
	if len(title) > 70 {
		title = title[:67] + "..."
	}
	switch {
	case item.IsLoading:
		return spinnerView + " " + title
	case item.Error != "":
		return "✗ " + title
	default:
		return "  " + title
	}
}

func (m Model) renderStatusBar() string {
	if m.inputMode {
		return InputBar.Render(m.input.View())
	}
	help := "i: analyze  tab: switch  enter: open  d: delete  ?: help  q: quit"
	return StatusBar.Render(fmt.Sprintf("%s │ %s", m.statusMsg, help))
}

func (m Model) renderHelp() string {
	help := `
  X-RAY

  NAVIGATION
    j/k, ↑/↓     Move cursor
    tab / shift+tab  Switch category
    enter        Open item
    esc          Back to library

  ACTIONS
    i            Analyze new content
    d            Delete item
    r            Refresh

  Press esc to return
`
	return Help.Render(help)
}

func nextCategory(c store.Category) store.Category {
	categories := store.Categories()
	for i, candidate := range categories {
		if candidate == c {
			return categories[(i+1)%len(categories)]
		}
	}
	return categories[0]
}

func prevCategory(c store.Category) store.Category {
	categories := store.Categories()
	for i, candidate := range categories {
		if candidate == c {
			return categories[(i+len(categories)-1)%len(categories)]
		}
	}
	return categories[0]
}

// Key bindings
var keys = struct {
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Input   key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Down    key.Binding
	Up      key.Binding
	Enter   key.Binding
	Delete  key.Binding
	Refresh key.Binding
}{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Help:    key.NewBinding(key.WithKeys("?")),
	Escape:  key.NewBinding(key.WithKeys("esc")),
	Input:   key.NewBinding(key.WithKeys("i")),
	NextTab: key.NewBinding(key.WithKeys("tab")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab")),
	Down:    key.NewBinding(key.WithKeys("j", "down")),
	Up:      key.NewBinding(key.WithKeys("k", "up")),
	Enter:   key.NewBinding(key.WithKeys("enter")),
	Delete:  key.NewBinding(key.WithKeys("d")),
	Refresh: key.NewBinding(key.WithKeys("r")),
}
