package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/faqchat/internal/api"
	apierrors "github.com/diogo/faqchat/internal/errors"
	"github.com/diogo/faqchat/internal/models"
	"github.com/diogo/faqchat/internal/render"
)

// PlaceholderText is the content of a bot message whose reply is outstanding
const PlaceholderText = "..."

// DefaultTypingDelay is the pause between a reply arriving and it replacing its placeholder
const DefaultTypingDelay = 500 * time.Millisecond

// Message types for the TUI
type (
	// replyMsg carries the outcome of one /chat request
	replyMsg struct {
		id     int
		text   string
		failed bool
	}
	// revealMsg fires once the typing delay of a reply has elapsed
	revealMsg struct {
		id     int
		text   string
		failed bool
	}
	resetDoneMsg struct {
		err error
	}
)

// entry is one message in the conversation view
type entry struct {
	id      int
	sender  models.Sender
	content string
	pending bool
	failed  bool
}

// Options configures the chat widget
type Options struct {
	// TypingDelay is applied before each reply is shown. Zero shows replies at once.
	TypingDelay time.Duration
	// CopyToClipboard copies every successful reply to the system clipboard.
	CopyToClipboard bool
	Render          render.Options
	Logger          zerolog.Logger
	// Context bounds every request; cancelling it abandons outstanding ones.
	Context context.Context
}

// DefaultOptions returns the widget defaults
func DefaultOptions() Options {
	return Options{
		TypingDelay: DefaultTypingDelay,
		Render:      render.DefaultOptions(),
		Logger:      zerolog.Nop(),
	}
}

// Model is the chat widget: it owns the conversation view, turns input into
// /chat requests and resolves each placeholder with its own reply.
type Model struct {
	client api.ChatClientInterface
	opts   Options
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	entries  []entry
	nextID   int
	inFlight int
	ready    bool
	notice   string
	err      error

	// rendered caches markdown output of resolved bot replies by entry id
	rendered map[int]string

	width  int
	height int
}

// NewChatModel creates a chat widget talking to client
func NewChatModel(client api.ChatClientInterface, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a question..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	if opts.Render.Width == 0 {
		opts.Render = render.DefaultOptions()
	}

	return Model{
		client:   client,
		opts:     opts,
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
		textarea: ta,
		spinner:  s,
		rendered: make(map[int]string),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SubmitQuery sends text as a new question. Blank input is ignored. Otherwise
// the user message and a placeholder are appended and one request is issued;
// the returned command delivers its outcome.
func (m *Model) SubmitQuery(text string) tea.Cmd {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil
	}

	m.textarea.Reset()
	m.RenderMessage(query, models.SenderUser)
	id := m.appendEntry(entry{sender: models.SenderBot, content: PlaceholderText, pending: true})

	m.inFlight++
	m.logger.Debug().Int("id", id).Int("in_flight", m.inFlight).Msg("query submitted")

	cmds := []tea.Cmd{m.sendQuery(id, query)}
	if m.inFlight == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// RenderMessage appends a message to the conversation view and scrolls to it
func (m *Model) RenderMessage(content string, sender models.Sender) {
	m.appendEntry(entry{sender: sender, content: content})
}

// Messages returns the conversation view in display order. Outstanding
// replies appear as PlaceholderText.
func (m Model) Messages() []models.Message {
	out := make([]models.Message, len(m.entries))
	for i, e := range m.entries {
		out[i] = models.Message{Content: e.content, Sender: e.sender}
	}
	return out
}

// InFlight returns the number of outstanding requests
func (m Model) InFlight() int {
	return m.inFlight
}

// AtBottom reports whether the view is scrolled to the newest message
func (m Model) AtBottom() bool {
	return m.viewport.AtBottom()
}

// Close abandons outstanding requests
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 2
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.rendered = make(map[int]string)
		m.refresh()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Close()
			return m, tea.Quit

		case "ctrl+y":
			m.copyLastReply()
			return m, nil

		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			switch input {
			case "/exit", "/quit":
				m.Close()
				return m, tea.Quit
			case "/reset":
				m.textarea.Reset()
				m.notice = "Resetting conversation memory..."
				return m, m.resetConversation()
			}
			m.notice = ""
			return m, m.SubmitQuery(input)
		}

		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

		// Printable keys belong to the input, not to viewport scrolling.
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			return m, tea.Batch(cmds...)
		}

	case replyMsg:
		if m.opts.TypingDelay > 0 {
			cmds = append(cmds, revealAfter(m.opts.TypingDelay, msg))
		} else {
			m.resolve(msg.id, msg.text, msg.failed)
		}

	case revealMsg:
		m.resolve(msg.id, msg.text, msg.failed)

	case resetDoneMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("reset failed")
			m.notice = ""
			m.err = msg.err
		} else {
			m.err = nil
			m.notice = "Conversation memory reset"
		}

	case spinner.TickMsg:
		if m.inFlight > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.refresh()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return subtitleStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		titleStyle.Render("✦ FAQ Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.serverURL()),
	}
	if m.inFlight > 0 {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(fmt.Sprintf("%d waiting", m.inFlight)),
		)
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	// Messages
	var messagesContent string
	if len(m.entries) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input stays usable while replies are outstanding
	inputContent := lipgloss.JoinVertical(
		lipgloss.Left,
		inputLabelStyle.Render("You"),
		m.textarea.View(),
	)
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Ask anything about family health"),
		"",
		welcomeStyle.Width(width).Render("Answers come from the FAQ book loaded by the server"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/reset", "Forget"},
		{"Ctrl+Y", "Copy reply"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

func (m Model) serverURL() string {
	if m.client == nil {
		return ""
	}
	return m.client.ServerURL()
}

// sendQuery issues the /chat request for the placeholder with the given id
func (m Model) sendQuery(id int, query string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return replyMsg{id: id, text: apierrors.BotText(apierrors.NewTransportError(models.PathChat, apierrors.ErrClientClosed)), failed: true}
		}
		resp, err := client.Chat(ctx, query)
		if err != nil {
			return replyMsg{id: id, text: apierrors.BotText(err), failed: true}
		}
		return replyMsg{id: id, text: resp.Response}
	}
}

func (m Model) resetConversation() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return resetDoneMsg{err: apierrors.ErrClientClosed}
		}
		return resetDoneMsg{err: client.Reset(ctx)}
	}
}

func revealAfter(delay time.Duration, reply replyMsg) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return revealMsg(reply)
	})
}

func (m *Model) appendEntry(e entry) int {
	m.nextID++
	e.id = m.nextID
	m.entries = append(m.entries, e)
	m.refresh()
	m.viewport.GotoBottom()
	return e.id
}

// resolve replaces the placeholder with the given id. A placeholder is
// resolved at most once.
func (m *Model) resolve(id int, text string, failed bool) {
	for i := range m.entries {
		e := &m.entries[i]
		if e.id != id || !e.pending {
			continue
		}

		e.content = text
		e.pending = false
		e.failed = failed
		m.inFlight--

		if failed {
			m.logger.Warn().Int("id", id).Str("reply", text).Msg("query failed")
		} else {
			m.logger.Debug().Int("id", id).Int("len", len(text)).Msg("reply shown")
			if m.opts.CopyToClipboard {
				m.writeClipboard(text)
			}
		}

		m.refresh()
		m.viewport.GotoBottom()
		return
	}
}

func (m *Model) copyLastReply() {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.sender == models.SenderBot && !e.pending && !e.failed {
			if m.writeClipboard(e.content) {
				m.notice = "Reply copied to clipboard"
			}
			return
		}
	}
	m.notice = "No reply to copy yet"
}

func (m *Model) writeClipboard(text string) bool {
	if err := clipboard.WriteAll(text); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard write failed")
		m.notice = "Clipboard unavailable"
		return false
	}
	return true
}

// refresh rebuilds the viewport content from the conversation entries
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, e := range m.entries {
		if i > 0 {
			content.WriteString("\n")
		}

		if e.sender == models.SenderUser {
			content.WriteString(userLabelStyle.Render("⬤ You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(e.content))
			content.WriteString("\n")
			continue
		}

		content.WriteString(assistantLabelStyle.Render("✦ Bot") + "\n")
		switch {
		case e.pending:
			content.WriteString(placeholderStyle.Width(bubbleWidth).Render(m.spinner.View() + " typing"))
		case e.failed:
			content.WriteString(errorBubbleStyle.Width(bubbleWidth).Render(e.content))
		default:
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(m.renderReply(e, bubbleWidth-4)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m *Model) renderReply(e entry, width int) string {
	if cached, ok := m.rendered[e.id]; ok {
		return cached
	}

	out, err := render.Markdown(e.content, m.opts.Render.WithWidth(width))
	if err != nil {
		m.logger.Debug().Err(err).Msg("markdown render failed")
		out = e.content
	}
	out = strings.TrimRight(out, "\n")
	m.rendered[e.id] = out
	return out
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(client api.ChatClientInterface, opts Options) error {
	m := NewChatModel(client, opts)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
