// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/tui/styles"
)

// TemplatePaletteItem is one selectable template, or one variant of a template.
type TemplatePaletteItem struct {
	TemplateID  string
	VariantID   string
	Title       string
	VariantName string
	Category    string
}

// Label returns the display label.
func (i TemplatePaletteItem) Label() string {
	if i.VariantName == "" {
		return i.Title
	}
	return fmt.Sprintf("%s / %s", i.Title, i.VariantName)
}

// TemplatePaletteSection is one template type bucket.
type TemplatePaletteSection struct {
	Type  models.TemplateType
	Items []TemplatePaletteItem
}

// TemplatePalette stores state for the template picker.
type TemplatePalette struct {
	Query    string
	Section  int
	Index    int
	Sections []TemplatePaletteSection
}

// NewTemplatePalette creates a palette with empty email, sms and other sections.
func NewTemplatePalette() *TemplatePalette {
	p := &TemplatePalette{}
	for _, templateType := range models.TemplateTypes() {
		p.Sections = append(p.Sections, TemplatePaletteSection{Type: templateType})
	}
	return p
}

// SetSection replaces the items of one section, keeping their order.
func (p *TemplatePalette) SetSection(templateType models.TemplateType, items []TemplatePaletteItem) {
	for i := range p.Sections {
		if p.Sections[i].Type == templateType {
			p.Sections[i].Items = append([]TemplatePaletteItem(nil), items...)
		}
	}
	p.ClampIndex()
}

// ItemsForTemplates expands templates (already in display order) into items,
// one per template followed by one per variant.
func ItemsForTemplates(list []models.Template) []TemplatePaletteItem {
	items := make([]TemplatePaletteItem, 0, len(list))
	for _, tmpl := range list {
		items = append(items, TemplatePaletteItem{
			TemplateID: tmpl.ID,
			Title:      tmpl.Title,
			Category:   tmpl.Category,
		})
		for _, variant := range tmpl.Variants {
			items = append(items, TemplatePaletteItem{
				TemplateID:  tmpl.ID,
				VariantID:   variant.ID,
				Title:       tmpl.Title,
				VariantName: variant.Name,
				Category:    tmpl.Category,
			})
		}
	}
	return items
}

// ActiveType returns the type of the active section.
func (p *TemplatePalette) ActiveType() models.TemplateType {
	if p.Section < 0 || p.Section >= len(p.Sections) {
		return models.TemplateTypeEmail
	}
	return p.Sections[p.Section].Type
}

// NextSection cycles the active section.
func (p *TemplatePalette) NextSection() {
	if len(p.Sections) == 0 {
		return
	}
	p.Section = (p.Section + 1) % len(p.Sections)
	p.Index = 0
}

// PrevSection cycles the active section backwards.
func (p *TemplatePalette) PrevSection() {
	if len(p.Sections) == 0 {
		return
	}
	p.Section = (p.Section - 1 + len(p.Sections)) % len(p.Sections)
	p.Index = 0
}

// Move shifts the selection within the active section, wrapping around.
func (p *TemplatePalette) Move(delta int) {
	items := p.activeItems()
	if len(items) == 0 {
		p.Index = 0
		return
	}
	if delta == 0 {
		return
	}
	idx := p.Index
	if idx < 0 || idx >= len(items) {
		idx = 0
	}
	idx += delta
	if idx < 0 {
		idx = len(items) - 1
	} else if idx >= len(items) {
		idx = 0
	}
	p.Index = idx
}

// ClampIndex keeps the selection index in bounds.
func (p *TemplatePalette) ClampIndex() {
	items := p.activeItems()
	if len(items) == 0 {
		p.Index = 0
		return
	}
	if p.Index < 0 {
		p.Index = 0
	}
	if p.Index >= len(items) {
		p.Index = len(items) - 1
	}
}

// SetQuery updates the filter and resets the selection.
func (p *TemplatePalette) SetQuery(query string) {
	p.Query = query
	p.Index = 0
}

// SelectedItem returns the selected entry of the active section.
func (p *TemplatePalette) SelectedItem() *TemplatePaletteItem {
	items := p.activeItems()
	if p.Index < 0 || p.Index >= len(items) {
		return nil
	}
	selected := items[p.Index]
	return &selected
}

// Render renders the palette lines.
func (p *TemplatePalette) Render(styleSet styles.Styles) []string {
	lines := []string{
		styleSet.Accent.Render("Templates"),
		styleSet.Text.Render(fmt.Sprintf("filter> %s", p.Query)),
	}

	for i, section := range p.Sections {
		lines = append(lines, p.renderSection(styleSet, section, i == p.Section)...)
	}
	return lines
}

func (p *TemplatePalette) renderSection(styleSet styles.Styles, section TemplatePaletteSection, active bool) []string {
	headingStyle := styleSet.Muted
	if active {
		headingStyle = styleSet.Accent
	}
	lines := []string{headingStyle.Render(strings.ToUpper(string(section.Type)))}

	items := p.filteredItems(section.Items)
	if len(items) == 0 {
		lines = append(lines, styleSet.Muted.Render("  (none)"))
		return lines
	}
	for idx, item := range items {
		label := truncate(item.Label(), 60)
		if active && idx == p.Index {
			lines = append(lines, styleSet.Focus.Render("> "+label))
			continue
		}
		lines = append(lines, styleSet.Muted.Render("  "+label))
	}
	return lines
}

func (p *TemplatePalette) filteredItems(items []TemplatePaletteItem) []TemplatePaletteItem {
	query := strings.TrimSpace(strings.ToLower(p.Query))
	if query == "" {
		return items
	}
	words := strings.Fields(query)
	filtered := make([]TemplatePaletteItem, 0, len(items))
	for _, item := range items {
		haystack := strings.ToLower(strings.Join([]string{item.Title, item.VariantName, item.Category}, " "))
		if matchesAll(haystack, words) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (p *TemplatePalette) activeItems() []TemplatePaletteItem {
	if p.Section < 0 || p.Section >= len(p.Sections) {
		return nil
	}
	return p.filteredItems(p.Sections[p.Section].Items)
}

func matchesAll(haystack string, words []string) bool {
	for _, word := range words {
		if !strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
