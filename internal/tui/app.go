// Package tui implements the templage terminal user interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/templage/internal/bundle"
	"github.com/opencode-ai/templage/internal/clipboard"
	"github.com/opencode-ai/templage/internal/generate"
	"github.com/opencode-ai/templage/internal/inputs"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/placeholder"
	"github.com/opencode-ai/templage/internal/store"
	"github.com/opencode-ai/templage/internal/templates"
	"github.com/opencode-ai/templage/internal/theme"
	"github.com/opencode-ai/templage/internal/tokens"
	"github.com/opencode-ai/templage/internal/tui/components"
	"github.com/opencode-ai/templage/internal/tui/styles"
)

// Config wires the TUI to the application services.
type Config struct {
	Storage   *store.Storage
	Tokens    *tokens.Store
	Templates *templates.Store
	Collector *inputs.Collector
	Generator *generate.Generator
	Bundle    *bundle.Service
	Clipboard clipboard.Options
	// Strategies overrides the clipboard chain built from Clipboard.
	Strategies []clipboard.Strategy
	Language   models.Language
}

// Run launches the templage TUI program.
func Run(cfg Config) error {
	m, err := newModel(cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

type model struct {
	cfg     Config
	ctx     context.Context
	styles  styles.Styles
	pref    theme.Preference
	palette *components.TemplatePalette
	focus   components.Focus

	filtering bool
	language  models.Language

	templates  []models.Template
	configName string

	form       *inputs.Form
	fields     map[string]textinput.Model
	fieldOrder []string
	fieldIndex int

	clip    *clipboard.Clipboard
	notice  *clipboard.Notice
	noticed time.Time

	width  int
	height int
}

const (
	minWidth  = 60
	minHeight = 15
	noticeTTL = 3 * time.Second
)

func newModel(cfg Config) (model, error) {
	if cfg.Storage == nil || cfg.Tokens == nil || cfg.Templates == nil || cfg.Collector == nil || cfg.Generator == nil {
		return model{}, fmt.Errorf("tui: missing service in config")
	}
	ctx := context.Background()
	lang := cfg.Language
	if !lang.IsValid() {
		lang = models.DefaultLanguage
	}

	// Notices travel back in GeneratedMsg, so the clipboard needs no notifier.
	clip := clipboard.NewDefault(nil, cfg.Clipboard)
	if len(cfg.Strategies) > 0 {
		clip = clipboard.New(nil, cfg.Strategies...)
	}

	pref := theme.Load(ctx, cfg.Storage)
	m := model{
		cfg:      cfg,
		ctx:      ctx,
		styles:   pref.Styles(),
		pref:     pref,
		palette:  components.NewTemplatePalette(),
		focus:    components.FocusPalette,
		language: lang,
		form:     cfg.Collector.NewForm(ctx),
		fields:   make(map[string]textinput.Model),
		clip:     clip,
	}
	tracker := cfg.Generator.Tracker()
	m.form.OnEdit(func(string) { tracker.RecordEdit() })
	return m, nil
}

func (m model) Init() tea.Cmd {
	return loadCatalog(m.cfg)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case CatalogLoadedMsg:
		m.applyCatalog(msg)
	case GeneratedMsg:
		return m.applyGenerated(msg)
	case NoticeExpiredMsg:
		if msg.At.Equal(m.noticed) {
			m.notice = nil
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) applyCatalog(msg CatalogLoadedMsg) {
	m.templates = msg.Templates
	m.configName = msg.ConfigName
	for _, bucket := range templates.Partition(msg.Templates) {
		m.palette.SetSection(bucket.Type, components.ItemsForTemplates(bucket.Templates))
	}
	m.syncFields()
}

func (m model) applyGenerated(msg GeneratedMsg) (tea.Model, tea.Cmd) {
	m.syncFieldValues()
	if msg.Err != nil {
		level := clipboard.LevelError
		text := msg.Err.Error()
		var invalid *generate.InvalidValueError
		switch {
		case len(msg.Missing) > 0:
			text = "Missing fields: " + strings.Join(msg.Missing, ", ")
			m.focus = components.FocusFields
			m.focusField(indexOf(m.fieldOrder, msg.Missing[0]))
		case errors.As(msg.Err, &invalid):
			text = "Invalid value for " + invalid.Token
			m.focus = components.FocusFields
			m.focusField(indexOf(m.fieldOrder, invalid.Token))
		}
		return m, m.setNotice(clipboard.Notice{Level: level, Message: text})
	}
	return m, m.setNotice(msg.Notice)
}

func (m *model) setNotice(notice clipboard.Notice) tea.Cmd {
	m.noticed = time.Now()
	m.notice = &notice
	return expireNoticeCmd(m.noticed)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.toggleFocus()
		return m, nil
	case "ctrl+l":
		m.language = m.language.Next()
		m.syncFields()
		return m, nil
	case "ctrl+t":
		m.pref = theme.Toggle(m.ctx, m.cfg.Storage)
		m.styles = m.pref.Styles()
		return m, nil
	case "ctrl+r":
		m.cfg.Collector.ResetFields(m.ctx, m.form)
		m.syncFieldValues()
		return m, nil
	case "enter":
		if m.filtering {
			m.filtering = false
			return m, nil
		}
		return m, m.generate()
	}

	if m.focus == components.FocusFields {
		return m.handleFieldKey(msg)
	}
	return m.handlePaletteKey(msg)
}

func (m model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.filtering = false
			m.palette.SetQuery("")
		case tea.KeyBackspace:
			if query := []rune(m.palette.Query); len(query) > 0 {
				m.palette.SetQuery(string(query[:len(query)-1]))
			}
		case tea.KeyRunes, tea.KeySpace:
			m.palette.SetQuery(m.palette.Query + string(msg.Runes))
		}
		m.syncFields()
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		m.filtering = true
	case "up", "k":
		m.palette.Move(-1)
	case "down", "j":
		m.palette.Move(1)
	case "left", "h":
		m.palette.PrevSection()
	case "right", "l":
		m.palette.NextSection()
	default:
		return m, nil
	}
	m.syncFields()
	return m, nil
}

func (m model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.toggleFocus()
		return m, nil
	case "up", "shift+tab":
		m.focusField(m.fieldIndex - 1)
		return m, nil
	case "down":
		m.focusField(m.fieldIndex + 1)
		return m, nil
	}

	if len(m.fieldOrder) == 0 {
		return m, nil
	}
	token := m.fieldOrder[m.fieldIndex]
	if !acceptsKey(m.inputType(token), msg) {
		return m, nil
	}
	field := m.fields[token]
	before := field.Value()
	field, cmd := field.Update(msg)
	m.fields[token] = field
	if field.Value() != before {
		m.form.Set(token, field.Value())
	}
	return m, cmd
}

func (m *model) toggleFocus() {
	if m.focus == components.FocusPalette {
		m.focus = components.FocusFields
		m.focusField(m.fieldIndex)
		return
	}
	m.focus = components.FocusPalette
	m.blurFields()
}

func (m *model) generate() tea.Cmd {
	tmpl, variantID := m.selected()
	if tmpl == nil {
		return nil
	}
	req := generate.Request{
		Template:  tmpl,
		VariantID: variantID,
		Language:  m.language,
		Section:   string(tmpl.Type),
		Form:      m.form,
	}
	return generateCmd(m.cfg.Generator, m.clip, req)
}

func (m model) selected() (*models.Template, string) {
	item := m.palette.SelectedItem()
	if item == nil {
		return nil, ""
	}
	for i := range m.templates {
		if m.templates[i].ID == item.TemplateID {
			return &m.templates[i], item.VariantID
		}
	}
	return nil, ""
}

func (m model) selectedBody() string {
	tmpl, variantID := m.selected()
	if tmpl == nil {
		return ""
	}
	body, err := templates.SelectBody(tmpl, variantID, m.language)
	if err != nil {
		return ""
	}
	return body
}

// syncFields rebuilds the visible inputs for the placeholders of the
// selected body. Placeholders with no definition still get a field.
func (m *model) syncFields() {
	order := placeholder.Scan(m.selectedBody())
	for _, token := range order {
		if !m.form.HasField(token) {
			m.form.AddField(token)
		}
		if _, ok := m.fields[token]; !ok {
			m.fields[token] = m.newField(token)
		}
	}
	m.fieldOrder = order
	if m.fieldIndex >= len(order) {
		m.fieldIndex = 0
	}
	m.syncFieldValues()
	if m.focus == components.FocusFields {
		m.focusField(m.fieldIndex)
	}
}

func (m *model) syncFieldValues() {
	for token, field := range m.fields {
		if value := m.form.Value(token); field.Value() != value {
			field.SetValue(value)
			m.fields[token] = field
		}
	}
}

// acceptsKey drops typed characters that can never appear in a valid value.
func acceptsKey(inputType models.InputType, msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeySpace:
		return inputType.AcceptsRune(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !inputType.AcceptsRune(r) {
				return false
			}
		}
	}
	return true
}

func (m model) inputType(token string) models.InputType {
	if def, ok := m.cfg.Tokens.Find(m.ctx, token); ok {
		return def.InputType
	}
	return models.InputTypeText
}

func (m model) newField(token string) textinput.Model {
	field := textinput.New()
	field.Prompt = "› "
	field.CharLimit = 256
	field.Width = 40
	field.Validate = m.inputType(token).CheckValue
	field.SetValue(m.form.Value(token))
	if def, ok := m.cfg.Tokens.Find(m.ctx, token); ok {
		field.Placeholder = def.DisplayLabel()
		if def.InputType == models.InputTypeDate {
			field.Placeholder += " (YYYY-MM-DD)"
		}
	} else {
		field.Placeholder = placeholder.Label(token)
	}
	return field
}

func (m *model) focusField(idx int) {
	m.blurFields()
	if len(m.fieldOrder) == 0 {
		m.fieldIndex = 0
		return
	}
	if idx < 0 {
		idx = len(m.fieldOrder) - 1
	}
	if idx >= len(m.fieldOrder) {
		idx = 0
	}
	m.fieldIndex = idx
	token := m.fieldOrder[idx]
	field := m.fields[token]
	field.Focus()
	m.fields[token] = field
}

func (m *model) blurFields() {
	for token, field := range m.fields {
		if field.Focused() {
			field.Blur()
			m.fields[token] = field
		}
	}
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", joinLines(m.smallViewLines()))
		}
	}

	header := m.styles.Title.Render("templage")
	if badge := components.RenderConfigBadge(m.styles, m.configName); badge != "" {
		header += "  " + badge
	}
	header += "  " + components.RenderLanguageBadge(m.styles, m.language)

	lines := []string{header, ""}
	lines = append(lines, m.paletteLines()...)
	lines = append(lines, "")
	lines = append(lines, m.fieldLines()...)
	lines = append(lines, "")
	if line := m.noticeLine(); line != "" {
		lines = append(lines, line, "")
	}

	tmpl, _ := m.selected()
	lines = append(lines, components.RenderQuickActionBar(m.styles, components.GeneratorQuickActions(m.focus, tmpl != nil)))
	return fmt.Sprintf("%s\n", joinLines(lines))
}

func (m model) paletteLines() []string {
	if len(m.templates) == 0 {
		return []string{components.EmptyTemplates().Render(m.styles)}
	}
	lines := m.palette.Render(m.styles)
	if m.filtering {
		lines[1] = m.styles.Focus.Render(fmt.Sprintf("filter> %s▏", m.palette.Query))
	}
	if m.palette.Query != "" && m.palette.SelectedItem() == nil {
		lines = append(lines, components.EmptyTemplatesFiltered(m.palette.Query).RenderCompact(m.styles))
	}
	return lines
}

func (m model) fieldLines() []string {
	tmpl, _ := m.selected()
	if tmpl == nil {
		return nil
	}
	if len(m.fieldOrder) == 0 {
		return []string{components.EmptyTokens().RenderCompact(m.styles)}
	}

	lines := []string{m.styles.Accent.Render("Fields")}
	for i, token := range m.fieldOrder {
		label := token
		if def, ok := m.cfg.Tokens.Find(m.ctx, token); ok {
			label = def.DisplayLabel()
		}
		focused := m.focus == components.FocusFields && i == m.fieldIndex
		field := m.fields[token]
		lines = append(lines,
			components.RenderFieldLabel(m.styles, label, m.form.IsMissing(token), m.form.IsStale(token), focused),
			"  "+field.View(),
		)
		if field.Err != nil {
			lines = append(lines, "  "+m.styles.Error.Render(field.Err.Error()))
		}
	}
	return lines
}

func (m model) noticeLine() string {
	if m.notice == nil {
		return ""
	}
	switch m.notice.Level {
	case clipboard.LevelWarning:
		return m.styles.ToastWarning.Render(m.notice.Message)
	case clipboard.LevelError:
		return m.styles.ToastError.Render(m.notice.Message)
	default:
		return m.styles.ToastSuccess.Render(m.notice.Message)
	}
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press ctrl+c to quit."),
	}
}

func indexOf(list []string, value string) int {
	for i, item := range list {
		if item == value {
			return i
		}
	}
	return 0
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
