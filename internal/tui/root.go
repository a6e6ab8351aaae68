package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iammorganparry/articles/internal/article"
	"github.com/iammorganparry/articles/internal/client"
	"github.com/iammorganparry/articles/internal/form"
	"github.com/iammorganparry/articles/internal/request"
	"github.com/iammorganparry/articles/internal/status"
)

// Focus is the widget receiving key input
type Focus int

const (
	FocusUsername Focus = iota // Login screen
	FocusPassword
	FocusList // Articles screen
	FocusTitle
	FocusText
	FocusTopic
)

// Messages
type settledMsg struct {
	name   string
	settle request.Settle
}

type spinnerTickMsg struct{}

// Spinner animation frames
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the root Bubble Tea model
type Model struct {
	// Terminal dimensions
	width  int
	height int
	ready  bool

	ctx context.Context
	app *client.App

	// Inputs mirror the app's forms
	username textinput.Model
	password textinput.Model
	title    textinput.Model
	text     textarea.Model
	focus    Focus

	cursor       int // Highlighted article
	spinning     bool
	spinnerIndex int

	keys     KeyMap
	help     help.Model
	showHelp bool
	debug    DebugPanel
}

// NewRootModel creates a new root model driving app. Requests are bound to
// ctx so quitting cancels anything in flight.
func NewRootModel(ctx context.Context, app *client.App, debug bool) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "Username: "
	username.PromptStyle = InputPromptStyle
	username.CharLimit = form.MaxCredentialLen

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.PromptStyle = InputPromptStyle
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = form.MaxCredentialLen

	title := textinput.New()
	title.Placeholder = "Enter title"
	title.Prompt = "Title: "
	title.PromptStyle = InputPromptStyle
	title.CharLimit = article.MaxTitleLen

	text := textarea.New()
	text.Placeholder = "Enter text"
	text.CharLimit = article.MaxTextLen
	text.ShowLineNumbers = false
	text.SetHeight(4)

	m := Model{
		ctx:      ctx,
		app:      app,
		username: username,
		password: password,
		title:    title,
		text:     text,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		debug:    NewDebugPanel(debug),
	}
	m.syncFocus()
	return m
}

// Init initializes the model. The first fetch is started by the first
// Update, which bubbletea always sends (WindowSizeMsg).
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// spinnerTickCmd returns a fast tick command for spinner animation
func spinnerTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// dispatch runs eff off the event loop and delivers its Settle back as a
// settledMsg. A rejected begin (busy guard) is only recorded.
func (m *Model) dispatch(name string, eff request.Effect, err error) tea.Cmd {
	if err != nil {
		m.debug.AddEvent(name, "rejected: "+err.Error())
		return nil
	}
	if eff == nil {
		return nil
	}
	m.debug.AddEvent(name, "started")

	ctx := m.ctx
	run := func() tea.Msg {
		return settledMsg{name: name, settle: eff(ctx)}
	}
	if m.spinning {
		return run
	}
	m.spinning = true
	return tea.Batch(run, spinnerTickCmd())
}

// poll starts the articles fetch when the articles screen was just entered
func (m *Model) poll() tea.Cmd {
	eff, err := m.app.EnterArticles()
	return m.dispatch("fetch", eff, err)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width

		inputWidth := m.formWidth() - 14
		if inputWidth < 10 {
			inputWidth = 10
		}
		m.title.Width = inputWidth
		m.text.SetWidth(inputWidth)

	case spinnerTickMsg:
		if m.app.Snapshot().Loading {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			cmds = append(cmds, spinnerTickCmd())
		} else {
			m.spinning = false
		}

	case settledMsg:
		if msg.settle != nil {
			msg.settle()
		}
		m.debug.AddEvent(msg.name, "settled")

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKey(msg))
	}

	m.syncInputs()
	cmds = append(cmds, m.poll(), m.syncFocus())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Login):
		m.app.Navigate(status.ScreenLogin)
		return nil
	case key.Matches(msg, m.keys.Articles):
		m.app.Navigate(status.ScreenArticles)
		return nil
	}

	if m.app.Snapshot().Screen == status.ScreenLogin {
		return m.handleLoginKey(msg)
	}
	return m.handleArticlesKey(msg)
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		if m.focus == FocusUsername {
			m.focus = FocusPassword
		} else {
			m.focus = FocusUsername
		}
		return nil
	case msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Submit):
		eff, err := m.app.Login()
		return m.dispatch("login", eff, err)
	}

	var cmd tea.Cmd
	lf := m.app.LoginForm()
	if m.focus == FocusPassword {
		m.password, cmd = m.password.Update(msg)
		lf.SetPassword(m.password.Value())
	} else {
		m.username, cmd = m.username.Update(msg)
		lf.SetUsername(m.username.Value())
	}
	return cmd
}

func (m *Model) handleArticlesKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Logout):
		m.app.Logout()
		return nil
	case key.Matches(msg, m.keys.Submit):
		eff, err := m.app.SubmitArticle()
		return m.dispatch("submit", eff, err)
	case key.Matches(msg, m.keys.NextField):
		m.focus = nextFocus(m.focus, 1)
		return nil
	case key.Matches(msg, m.keys.PrevField):
		m.focus = nextFocus(m.focus, -1)
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.app.CancelEdit()
		m.focus = FocusList
		return nil
	}

	switch m.focus {
	case FocusList:
		return m.handleListKey(msg)
	case FocusTopic:
		switch {
		case key.Matches(msg, m.keys.TopicNext):
			m.app.ArticleForm().CycleTopic(1)
		case key.Matches(msg, m.keys.TopicPrev):
			m.app.ArticleForm().CycleTopic(-1)
		case msg.Type == tea.KeyEnter:
			eff, err := m.app.SubmitArticle()
			return m.dispatch("submit", eff, err)
		}
		return nil
	case FocusTitle:
		if msg.Type == tea.KeyEnter {
			m.focus = FocusText
			return nil
		}
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		m.app.ArticleForm().SetTitle(m.title.Value())
		return cmd
	case FocusText:
		var cmd tea.Cmd
		m.text, cmd = m.text.Update(msg)
		m.app.ArticleForm().SetText(m.text.Value())
		return cmd
	}
	return nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	list := m.app.Snapshot().Articles
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(list)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Edit):
		if m.cursor < len(list) {
			m.app.Edit(list[m.cursor].ID)
			m.focus = FocusTitle
		}
	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(list) {
			eff, err := m.app.Delete(list[m.cursor].ID)
			return m.dispatch("delete", eff, err)
		}
	}
	return nil
}

// nextFocus cycles through the articles screen widgets
func nextFocus(f Focus, step int) Focus {
	order := []Focus{FocusList, FocusTitle, FocusText, FocusTopic}
	idx := 0
	for i, o := range order {
		if o == f {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(order) + len(order)) % len(order)
	return order[idx]
}

// syncInputs copies the app's form state into the widgets when the app
// rewrote it (edit, cancel, submit).
func (m *Model) syncInputs() {
	snap := m.app.Snapshot()
	if m.username.Value() != snap.LoginForm.Username {
		m.username.SetValue(snap.LoginForm.Username)
	}
	if m.password.Value() != snap.LoginForm.Password {
		m.password.SetValue(snap.LoginForm.Password)
	}
	if m.title.Value() != snap.ArticleForm.Title {
		m.title.SetValue(snap.ArticleForm.Title)
	}
	if m.text.Value() != snap.ArticleForm.Text {
		m.text.SetValue(snap.ArticleForm.Text)
	}
	if m.cursor >= len(snap.Articles) {
		m.cursor = len(snap.Articles) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncFocus keeps focus on a widget of the current screen
func (m *Model) syncFocus() tea.Cmd {
	if m.app.Snapshot().Screen == status.ScreenLogin {
		if m.focus != FocusUsername && m.focus != FocusPassword {
			m.focus = FocusUsername
		}
	} else if m.focus == FocusUsername || m.focus == FocusPassword {
		m.focus = FocusList
	}

	var cmds []tea.Cmd
	focusInput := func(in *textinput.Model, f Focus) {
		if m.focus == f {
			if !in.Focused() {
				cmds = append(cmds, in.Focus())
			}
		} else {
			in.Blur()
		}
	}
	focusInput(&m.username, FocusUsername)
	focusInput(&m.password, FocusPassword)
	focusInput(&m.title, FocusTitle)
	if m.focus == FocusText {
		if !m.text.Focused() {
			cmds = append(cmds, m.text.Focus())
		}
	} else {
		m.text.Blur()
	}
	return tea.Batch(cmds...)
}

// View renders the current screen
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	snap := m.app.Snapshot()
	sections := []string{m.renderHeader(snap)}
	if snap.Message != "" {
		sections = append(sections, MessageStyle.Render(snap.Message))
	}
	if snap.Loading {
		spinner := spinnerFrames[m.spinnerIndex%len(spinnerFrames)]
		sections = append(sections, SpinnerStyle.Render(spinner+" Please wait..."))
	}

	var body string
	if snap.Screen == status.ScreenLogin {
		body = m.loginView(snap)
	} else {
		body = m.articlesView(snap)
	}
	if m.debug.IsEnabled() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.debug.Render(40, lipgloss.Height(body)))
	}
	sections = append(sections, body, StatusBarStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(snap client.Snapshot) string {
	link := func(label string, screen status.Screen) string {
		if snap.Screen == screen {
			return NavActiveStyle.Render(label)
		}
		return NavStyle.Render(label)
	}
	return HeaderStyle.Render("ARTICLES") + "  " +
		link("Login", status.ScreenLogin) + "  " +
		link("Articles", status.ScreenArticles) + "\n"
}

func (m Model) loginView(snap client.Snapshot) string {
	button := ButtonDisabledStyle.Render("Submit credentials")
	if snap.CanLogin {
		button = ButtonStyle.Render("Submit credentials")
	}
	content := FormTitleStyle.Render("Login") + "\n\n" +
		m.username.View() + "\n" +
		m.password.View() + "\n\n" +
		button
	return FormFocusedStyle.Render(content)
}

func (m Model) formWidth() int {
	if m.width <= 0 {
		return 40
	}
	return m.width / 2
}

func (m Model) articlesView(snap client.Snapshot) string {
	listWidth := m.width - m.formWidth() - 4
	if listWidth < 20 {
		listWidth = 20
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderArticleForm(snap),
		lipgloss.NewStyle().Width(listWidth).PaddingLeft(2).Render(m.renderArticleList(snap)),
	)
}

func (m Model) renderArticleForm(snap client.Snapshot) string {
	heading := "Create Article"
	if snap.Editing {
		heading = "Edit Article"
	}

	topic := string(snap.ArticleForm.Topic)
	if topic == "" {
		topic = "-- Select topic --"
	}
	topicLine := LabelStyle.Render("Topic: ") + TopicStyle.Render("‹ "+topic+" ›")

	button := ButtonDisabledStyle.Render("Submit")
	if snap.CanSubmitArticle {
		button = ButtonStyle.Render("Submit")
	}

	var b strings.Builder
	b.WriteString(FormTitleStyle.Render(heading) + "\n\n")
	b.WriteString(m.title.View() + "\n\n")
	b.WriteString(LabelStyle.Render("Text:") + "\n")
	b.WriteString(m.text.View() + "\n\n")
	b.WriteString(topicLine + "\n\n")
	b.WriteString(button)
	if snap.Editing {
		b.WriteString("  " + DimStyle.Render("esc cancel edit"))
	}

	style := FormStyle
	if m.focus != FocusList {
		style = FormFocusedStyle
	}
	return style.Width(m.formWidth()).Render(b.String())
}

func (m Model) renderArticleList(snap client.Snapshot) string {
	if len(snap.Articles) == 0 {
		return DimStyle.Render("No articles yet")
	}

	var items []string
	for i, a := range snap.Articles {
		style := ArticleStyle
		if m.focus == FocusList && i == m.cursor {
			style = ArticleSelectedStyle
		}
		heading := ArticleTitleStyle.Render(a.Title)
		if snap.CurrentArticleID != nil && *snap.CurrentArticleID == a.ID {
			heading += " " + DimStyle.Render("(editing)")
		}
		items = append(items, style.Render(fmt.Sprintf("%s\n%s\n%s",
			heading,
			a.Text,
			LabelStyle.Render("Topic: ")+TopicStyle.Render(string(a.Topic)),
		)))
	}
	return strings.Join(items, "\n")
}
