package internal

import (
	"fmt"
	"slices"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/api"
	"github.com/jhalter/articles-client/internal/style"
)

const (
	titleCharLimit = 50
	textCharLimit  = 200

	noTopicLabel = "-- Select topic --"
)

// Form field keys
const (
	FieldTitle = "title"
	FieldText  = "text"
	FieldTopic = "topic"
)

// ArticleForm edits a local draft of an article. Seeding replaces the draft
// wholesale; nothing typed here reaches the collection until the model
// applies a server response.
type ArticleForm struct {
	form   *huh.Form
	topics []string
	width  int

	// Id of the article being edited, 0 when creating.
	editingID int

	// Draft values (bound to form inputs)
	title string
	text  string
	topic string
}

func NewArticleForm(topics []string) *ArticleForm {
	f := &ArticleForm{topics: topics, width: 50}
	f.rebuild()
	return f
}

// Seed resets the draft. A nil article switches to create mode with empty
// fields; otherwise the draft is a copy of the article's fields.
func (f *ArticleForm) Seed(a *api.Article) tea.Cmd {
	if a == nil {
		f.editingID = 0
		f.title, f.text, f.topic = "", "", ""
	} else {
		f.editingID = a.ID
		f.title, f.text, f.topic = a.Title, a.Text, a.Topic
	}
	f.rebuild()
	return f.form.Init()
}

// SetField sets one draft field by key. Unknown keys are ignored.
func (f *ArticleForm) SetField(name, value string) {
	switch name {
	case FieldTitle:
		f.title = clampRunes(value, titleCharLimit)
	case FieldText:
		f.text = clampRunes(value, textCharLimit)
	case FieldTopic:
		f.topic = value
	default:
		return
	}
	f.rebuild()
}

// Draft returns the current field values.
func (f *ArticleForm) Draft() api.ArticleFields {
	return api.ArticleFields{Title: f.title, Text: f.text, Topic: f.topic}
}

// CanSubmit reports whether every field is filled in.
func (f *ArticleForm) CanSubmit() bool {
	return f.Draft().Complete()
}

// Editing returns the id of the article being edited, if any.
func (f *ArticleForm) Editing() (int, bool) {
	return f.editingID, f.editingID != 0
}

// Submit emits the draft, or nothing when a field is empty.
func (f *ArticleForm) Submit() tea.Cmd {
	if !f.CanSubmit() {
		return nil
	}
	msg := ArticleSubmittedMsg{ID: f.editingID, Fields: f.Draft()}
	return func() tea.Msg { return msg }
}

func (f *ArticleForm) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	f.width = width
	f.form = f.form.WithWidth(width)
}

// Update feeds input to the form. Esc cancels an edit and is ignored in
// create mode, where the draft is kept; completing the last field submits.
func (f *ArticleForm) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		if f.editingID == 0 {
			return nil
		}
		return func() tea.Msg { return ArticleEditCancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if ff, ok := form.(*huh.Form); ok {
		f.form = ff
	}

	if f.form.State == huh.StateCompleted {
		submit := f.Submit()
		if submit == nil {
			// Incomplete draft: keep editing what is there.
			f.rebuild()
			return f.form.Init()
		}
		return submit
	}

	return cmd
}

func (f *ArticleForm) heading() string {
	if f.editingID != 0 {
		return fmt.Sprintf("Edit Article #%d", f.editingID)
	}
	return "Create Article"
}

// View renders the form with a submit hint that is dimmed while any field is
// empty.
func (f *ArticleForm) View(focused bool) string {
	submit := style.HotkeyStyle.Render("[ Submit ]")
	if !f.CanSubmit() {
		submit = style.BusyStyle.Render("[ Submit ]")
	}

	counters := style.CounterStyle.Render(fmt.Sprintf(
		"title %d/%d  text %d/%d",
		utf8.RuneCountInString(f.title), titleCharLimit,
		utf8.RuneCountInString(f.text), textCharLimit,
	))

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		style.TitleStyle.Render(f.heading()),
		f.form.View(),
		counters,
		submit,
	)

	if focused {
		return style.FocusedPanelStyle.Render(body)
	}
	return style.PanelStyle.Render(body)
}

func (f *ArticleForm) topicOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption(noTopicLabel, "")}
	for _, t := range f.topics {
		opts = append(opts, huh.NewOption(t, t))
	}
	// Keep a topic the server knows about even if it is not configured here.
	if f.topic != "" && !slices.Contains(f.topics, f.topic) {
		opts = append(opts, huh.NewOption(f.topic, f.topic))
	}
	return opts
}

func (f *ArticleForm) rebuild() {
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key(FieldTitle).
				Title("Title").
				Placeholder("Article title").
				CharLimit(titleCharLimit).
				Value(&f.title).
				Validate(requireValue("title")),

			huh.NewText().
				Key(FieldText).
				Title("Text").
				Placeholder("Write something").
				CharLimit(textCharLimit).
				Lines(4).
				Value(&f.text).
				Validate(requireValue("text")),

			huh.NewSelect[string]().
				Key(FieldTopic).
				Title("Topic").
				Options(f.topicOptions()...).
				Value(&f.topic).
				Validate(requireValue("topic")),
		),
	).
		WithWidth(f.width).
		WithShowHelp(false).
		WithShowErrors(true)
}

func clampRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
