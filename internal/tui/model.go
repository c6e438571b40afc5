package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/lachiem1/tallyUp/internal/invoice"
	"github.com/lachiem1/tallyUp/internal/logging"
	"github.com/lachiem1/tallyUp/internal/nav"
	"github.com/lachiem1/tallyUp/internal/report"
	"github.com/lachiem1/tallyUp/internal/source"
)

type loadedMsg struct {
	seq     int
	kind    source.Kind
	table   invoice.Table
	err     error
	elapsed time.Duration
}

type clearStatusMsg struct {
	id int
}

// Options wires a session to its data sources.
type Options struct {
	// CSV is the file source, or nil until the user opens one.
	CSV source.Source
	// QuickBooks is the remote source, or nil when it is not configured.
	QuickBooks source.Source
	// Active picks the source loaded first.
	Active source.Kind
	// NewCSV builds a source for a path typed into the open prompt.
	NewCSV func(path string) source.Source
	Logger *zap.Logger
}

type model struct {
	csv    source.Source
	qb     source.Source
	active source.Kind
	newCSV func(string) source.Source
	logger *zap.Logger

	width  int
	height int

	state        nav.State
	snapshot     report.Snapshot
	loadErr      error
	loading      bool
	loadSeq      int
	cursor       int
	detailOffset int

	prompting bool
	pathInput textinput.Model
	keys      keyMap
	help      help.Model
	spinner   spinner.Model

	statusText string
	statusID   int
	quitting   bool
}

// New returns the bubbletea model for one session. The first load starts
// from Init.
func New(opts Options) tea.Model {
	logger := logging.OrNop(opts.Logger)

	pathInput := textinput.New()
	pathInput.Prompt = "CSV: "
	pathInput.Placeholder = "~/Downloads/invoices.csv"
	pathInput.Width = 56

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60"))

	newCSV := opts.NewCSV
	if newCSV == nil {
		newCSV = func(path string) source.Source { return source.NewCSVFile(path, logger) }
	}

	active := opts.Active
	if active == "" {
		active = source.KindCSV
	}

	m := model{
		csv:       opts.CSV,
		qb:        opts.QuickBooks,
		active:    active,
		newCSV:    newCSV,
		logger:    logger,
		state:     nav.Home(),
		pathInput: pathInput,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spin,
	}
	if m.activeSource() != nil {
		m.loading = true
		m.loadSeq = 1
	}
	return m
}

// Run starts a full-screen session and blocks until it exits.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return tea.Batch(loadCmd(m.loadSeq, m.active, m.activeSource()), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.pathInput.Width = max(24, msg.Width-20)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		m.loadErr = msg.err
		m.snapshot = report.Build(msg.table)
		if m.snapshot.Err != nil {
			m.logger.Info("invoice data rejected", zap.Error(m.snapshot.Err))
		}
		m.clampCursor()
		m.logger.Info("session data loaded",
			zap.String("source", string(msg.kind)),
			zap.Int("rows", msg.table.Len()),
			zap.Duration("elapsed", msg.elapsed),
			zap.Bool("failed", msg.err != nil),
		)
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusText = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.loading {
			return m.withStatus("still loading, try again in a moment")
		}
		m.prompting = true
		if csv, ok := m.csv.(interface{ Path() string }); ok {
			m.pathInput.SetValue(csv.Path())
			m.pathInput.CursorEnd()
		}
		cmd := m.pathInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Source):
		if m.loading {
			return m.withStatus("still loading, try again in a moment")
		}
		next := source.KindQuickBooks
		if m.active == source.KindQuickBooks {
			next = source.KindCSV
		}
		if next == source.KindQuickBooks && m.qb == nil {
			return m.withStatus("QuickBooks is not configured; set quickbooks.realm_id and run `tallyup auth set`")
		}
		m.active = next
		m.logger.Info("source switched", zap.String("source", string(next)))
		return m.startLoad()

	case key.Matches(msg, m.keys.Reload):
		if m.loading || m.activeSource() == nil {
			return m, nil
		}
		source.Invalidate(m.activeSource())
		return m.startLoad()
	}

	switch m.state.View() {
	case nav.ViewHome:
		return m.updateHome(msg)
	case nav.ViewCustomerDetail:
		return m.updateDetail(msg)
	}
	return m, nil
}

func (m model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	customers := m.snapshot.Home().Customers()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(customers)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.activeSource() == nil || len(customers) == 0 {
			return m, nil
		}
		m.state = nav.Transition(m.state, nav.SelectCustomer{Customer: customers[m.cursor]})
		m.detailOffset = 0
		m.logger.Debug("view changed", zap.Stringer("view", m.state.View()))
	case key.Matches(msg, m.keys.Back):
		m.state = nav.Transition(m.state, nav.ReturnHome{})
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.state = nav.Transition(m.state, nav.ReturnHome{})
		m.clampCursor()
		m.logger.Debug("view changed", zap.Stringer("view", m.state.View()))
	case key.Matches(msg, m.keys.Up):
		if m.detailOffset > 0 {
			m.detailOffset--
		}
	case key.Matches(msg, m.keys.Down):
		m.detailOffset++
	case key.Matches(msg, m.keys.Select):
		// Detail to detail is not a transition; the state stays put.
		m.state = nav.Transition(m.state, nav.SelectCustomer{Customer: m.detailCustomer()})
	}
	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.prompting = false
		m.pathInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.prompting = false
		m.pathInput.Blur()
		path := expandHome(strings.TrimSpace(m.pathInput.Value()))
		if path == "" {
			return m.withStatus("no file selected")
		}
		m.csv = m.newCSV(path)
		m.active = source.KindCSV
		m.state = nav.Home()
		m.cursor = 0
		m.logger.Info("csv selected", zap.String("path", path))
		return m.startLoad()
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m model) startLoad() (tea.Model, tea.Cmd) {
	src := m.activeSource()
	m.loadErr = nil
	if src == nil {
		m.loading = false
		m.snapshot = report.Snapshot{}
		return m, nil
	}
	m.loading = true
	m.loadSeq++
	return m, tea.Batch(loadCmd(m.loadSeq, m.active, src), m.spinner.Tick)
}

func loadCmd(seq int, kind source.Kind, src source.Source) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()
		table, err := src.Load(context.Background())
		return loadedMsg{
			seq:     seq,
			kind:    kind,
			table:   table,
			err:     err,
			elapsed: time.Since(started),
		}
	}
}

func (m model) withStatus(text string) (tea.Model, tea.Cmd) {
	m.statusText = text
	m.statusID++
	id := m.statusID
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m model) activeSource() source.Source {
	if m.active == source.KindQuickBooks {
		return m.qb
	}
	return m.csv
}

func (m model) detailCustomer() string {
	customer, _ := m.state.Customer()
	return customer
}

func (m *model) clampCursor() {
	n := len(m.snapshot.Home().Groups)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
