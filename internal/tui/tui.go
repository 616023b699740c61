// Package tui is the interactive list. Every action goes straight to the
// backend and the list is refetched afterwards, so several viewers of one
// server converge on the same state.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolist/internal/liststore"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

// listItem adapts model.Element to bubbles/list.Item
type listItem struct {
	model.Element
}

func (i listItem) FilterValue() string { return i.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{ st styles }

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	box := d.st.muted.Render(d.st.boxUnchecked)
	text := it.Title
	if it.IsDone() {
		box = d.st.success.Render(d.st.boxChecked)
		text = d.st.done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// itemsMsg carries a fresh copy of the list.
type itemsMsg struct{ items []model.Element }

// errMsg reports a failed backend call. fetch is set when loading the list
// failed, as opposed to a mutation.
type errMsg struct {
	err   error
	fetch bool
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind    = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	refreshBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
)

// Model is the Bubble Tea model of the interactive list.
type Model struct {
	ctx     context.Context
	backend liststore.Backend
	st      styles

	list  list.Model
	items []model.Element

	// busy is set while a backend call is in flight; input is ignored
	busy bool
	err  string

	mode      inputMode
	ti        textinput.Model // shared text input model (used for add & edit)
	editIndex int
	inputErr  string

	// Undo support (single-level)
	canUndo   bool
	undoIndex int
	undoItem  model.Element

	width, height int
}

// New builds the model; call Init (or Run) to load the list.
func New(ctx context.Context, backend liststore.Backend, theme ui.Theme) Model {
	st := newStyles(theme)

	l := list.New(nil, itemDelegate{st: st}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	// positions are the only identity elements have; a filtered view would
	// break the index mapping
	l.SetFilteringEnabled(false)
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.SetStatusBarItemName("item", "items")
	extra := func() []key.Binding {
		return []key.Binding{toggleBind, addBind, editBind, deleteBind, undoBind, refreshBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		ctx:     ctx,
		backend: backend,
		st:      st,
		list:    l,
		ti:      ti,
		width:   80,
		height:  24,
	}
	m.list.Title = m.header()
	m.resize()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, backend liststore.Backend, theme ui.Theme) error {
	p := tea.NewProgram(New(ctx, backend, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// Items returns the list as last fetched.
func (m Model) Items() []model.Element { return m.items }

// -------------- backend commands --------------

func (m Model) fetch() tea.Cmd {
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		items, err := b.ListAll(ctx)
		if err != nil {
			return errMsg{err: err, fetch: true}
		}
		return itemsMsg{items}
	}
}

// call runs op and then refetches; either failure is reported as errMsg.
func (m Model) call(op func(ctx context.Context, b liststore.Backend) error) tea.Cmd {
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		if err := op(ctx, b); err != nil {
			return errMsg{err: err}
		}
		items, err := b.ListAll(ctx)
		if err != nil {
			return errMsg{err: err, fetch: true}
		}
		return itemsMsg{items}
	}
}

func (m Model) start(op func(ctx context.Context, b liststore.Backend) error) (Model, tea.Cmd) {
	m.busy = true
	m.err = ""
	return m, m.call(op)
}

// -------------- update --------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case itemsMsg:
		return m.applyItems(msg.items)
	case errMsg:
		m.err = msg.err.Error()
		if msg.fetch {
			// no automatic retry; r refetches
			m.busy = false
			return m, nil
		}
		// the mutation may still have been applied; stay busy until the
		// list is reloaded
		m.canUndo = false
		return m, m.fetch()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) applyItems(items []model.Element) (tea.Model, tea.Cmd) {
	m.busy = false
	m.items = items
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = listItem{it}
	}
	sel := m.list.Index()
	cmd := m.list.SetItems(li)
	if sel >= len(li) {
		sel = len(li) - 1
	}
	if sel >= 0 {
		m.list.Select(sel)
	}
	m.list.Title = m.header()
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	i := m.list.Index()
	inRange := i >= 0 && i < len(m.items)

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case " ":
		if !inRange {
			return m, nil
		}
		e := m.items[i]
		e.Status = e.Status.Toggle()
		return m.start(func(ctx context.Context, b liststore.Backend) error {
			return b.UpdateAt(ctx, i, e)
		})
	case "d":
		if !inRange {
			return m, nil
		}
		m.undoItem = m.items[i]
		m.undoIndex = i
		m.canUndo = true
		return m.start(func(ctx context.Context, b liststore.Backend) error {
			return b.RemoveAt(ctx, i)
		})
	case "u":
		if !m.canUndo {
			return m, nil
		}
		idx := m.undoIndex
		if idx > len(m.items) {
			idx = len(m.items)
		}
		e := m.undoItem
		m.canUndo = false
		return m.start(func(ctx context.Context, b liststore.Backend) error {
			return b.InsertAt(ctx, idx, e)
		})
	case "r":
		m.busy = true
		return m, m.fetch()
	case "a":
		m.mode = modeAdd
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New item title..."
		m.ti.Focus()
		m.resize()
		return m, nil
	case "e":
		if !inRange {
			return m, nil
		}
		m.mode = modeEdit
		m.editIndex = i
		m.inputErr = ""
		m.ti.SetValue(m.items[i].Title)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Edit item title..."
		m.ti.Focus()
		m.resize()
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(m.ti.Value())
		if title == "" {
			m.inputErr = "Title cannot be empty"
			return m, nil
		}
		mode := m.mode
		m.closeInput()
		if mode == modeAdd {
			pos := len(m.items)
			e := model.Element{Title: title}
			return m.start(func(ctx context.Context, b liststore.Backend) error {
				return b.InsertAt(ctx, pos, e)
			})
		}
		idx := m.editIndex
		if idx >= len(m.items) {
			m.err = model.ErrIndexOutOfBounds.Error()
			return m, nil
		}
		e := m.items[idx]
		e.Title = title
		return m.start(func(ctx context.Context, b liststore.Backend) error {
			return b.UpdateAt(ctx, idx, e)
		})
	case "esc":
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// -------------- view --------------

func (m *Model) resize() {
	listHeight := m.height - 4
	if m.mode != modeBrowse {
		listHeight -= 4
	}
	if m.err != "" {
		listHeight--
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(m.width-4, listHeight)
}

func (m Model) header() string {
	d, p := ui.Stats(m.items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		m.st.title.Render("Todos"),
		m.st.success.Render(m.st.symDone), d,
		m.st.pending.Render(m.st.symPending), p,
		m.st.accent.Render("Total"), len(m.items),
	)
}

func (m Model) View() string {
	content := m.list.View()
	if m.mode != modeBrowse {
		title := "Add new item"
		if m.mode == modeEdit {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " - " + m.st.err.Render(m.inputErr)
		}
		content += "\n" + m.st.input.Render(title+"\n"+m.ti.View())
	}
	if m.err != "" {
		content += "\n" + m.st.err.Render("✖ "+m.err)
	}
	return m.st.frame.Render(content)
}
