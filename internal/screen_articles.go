package internal

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/api"
	"github.com/jhalter/articles-client/internal/style"
	"github.com/muesli/reflow/truncate"
)

type articlesFocus int

const (
	focusList articlesFocus = iota
	focusForm
)

// ArticlesScreen shows the article list next to the article form. It only
// renders what the model hands it and turns keys into intents.
type ArticlesScreen struct {
	list          list.Model
	form          *ArticleForm
	focus         articlesFocus
	width, height int
	model         *Model
}

func NewArticlesScreen(topics []string, m *Model) *ArticlesScreen {
	l := list.New(nil, newArticleDelegate(), 0, 0)
	l.Title = "Articles"
	l.SetFilteringEnabled(true)
	l.SetShowStatusBar(true)
	l.SetShowTitle(true)
	l.SetShowHelp(true)
	l.SetStatusBarItemName("article", "articles")
	l.DisableQuitKeybindings()

	s := &ArticlesScreen{
		list:  l,
		form:  NewArticleForm(topics),
		focus: focusList,
		model: m,
	}
	s.SetSize(m.contentWidth(), m.contentHeight())
	return s
}

// SetArticles replaces the list items in collection order and moves the
// cursor to currentID when it is non-zero.
func (s *ArticlesScreen) SetArticles(articles []api.Article, currentID int) {
	items := make([]list.Item, len(articles))
	cursor := -1
	for i, a := range articles {
		items[i] = articleItem{article: a, current: a.ID == currentID && currentID != 0}
		if a.ID == currentID {
			cursor = i
		}
	}
	s.list.SetItems(items)
	if cursor >= 0 {
		s.list.Select(cursor)
	}
}

// FocusList hands keyboard input to the list.
func (s *ArticlesScreen) FocusList() {
	s.focus = focusList
}

// FocusForm hands keyboard input to the form.
func (s *ArticlesScreen) FocusForm() tea.Cmd {
	s.focus = focusForm
	return s.form.form.Init()
}

// FormFocused reports whether the form has the keyboard.
func (s *ArticlesScreen) FormFocused() bool {
	return s.focus == focusForm
}

// Update implements ScreenModel
func (s *ArticlesScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		if s.focus == focusForm {
			// Leaving a create draft keeps it for later.
			if _, editing := s.form.Editing(); !editing && msg.String() == "esc" {
				s.FocusList()
				return s, nil
			}
			return s, s.form.Update(msg)
		}

		// Handle custom keys when NOT actively filtering
		if s.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "enter", "e":
				if item, ok := s.list.SelectedItem().(articleItem); ok {
					id := item.article.ID
					return s, func() tea.Msg { return ArticleSelectedMsg{ID: id} }
				}
				return s, nil

			case "n":
				return s, func() tea.Msg { return ArticleSelectedMsg{ID: 0} }

			case "x", "delete":
				if item, ok := s.list.SelectedItem().(articleItem); ok {
					id := item.article.ID
					return s, func() tea.Msg { return ArticleDeleteRequestedMsg{ID: id} }
				}
				return s, nil

			case "r":
				return s, func() tea.Msg { return ArticlesRefreshMsg{} }

			case "tab":
				return s, s.FocusForm()
			}
		}
	}

	if s.focus == focusForm {
		return s, s.form.Update(msg)
	}

	// Delegate all other messages to the list
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// View implements tea.Model
func (s *ArticlesScreen) View() string {
	listStyle := style.PanelStyle
	if s.focus == focusList {
		listStyle = style.FocusedPanelStyle
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		listStyle.Render(s.list.View()),
		s.form.View(s.focus == focusForm),
	)
}

// SetSize updates the screen dimensions
func (s *ArticlesScreen) SetSize(width, height int) {
	s.width = width
	s.height = height

	h, v := style.PanelStyle.GetFrameSize()
	listWidth := width / 2
	s.list.SetSize(max(listWidth-h, 0), max(height-v, 0))
	s.form.SetWidth(width - listWidth - h)
}

// articleItem represents an article in the list
type articleItem struct {
	article api.Article
	current bool
}

func (i articleItem) FilterValue() string {
	return i.article.Title + " " + i.article.Topic
}

func (i articleItem) Title() string {
	title := fmt.Sprintf("#%d %s", i.article.ID, i.article.Title)
	if i.current {
		title = "✎ " + title
	}
	return title
}

func (i articleItem) Description() string {
	return style.TopicBadge(i.article.Topic) + " " + truncate.StringWithTail(i.article.Text, 40, "…")
}

// newArticleDelegate creates a custom delegate for article list items
func newArticleDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(style.ColorFuscia).
		BorderForeground(style.ColorFuscia)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		BorderForeground(style.ColorFuscia)

	edit := key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit"))
	create := key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new"))
	remove := key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete"))
	refresh := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	focus := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "form"))

	d.ShortHelpFunc = func() []key.Binding {
		return []key.Binding{edit, create, remove, refresh}
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{{edit, create, remove, refresh, focus}}
	}

	return d
}
