// Package render turns template identifiers plus minimal structured context
// into finished prompt, help and status text. The engine never formats
// natural language itself.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// TemplateUsage identifies one slot in the template table.
type TemplateUsage string

const (
	TemplateString         TemplateUsage = "string"
	TemplateSelectOne      TemplateUsage = "select_one"
	TemplateConfirmation   TemplateUsage = "confirmation"
	TemplateNavigation     TemplateUsage = "navigation"
	TemplateNotUnderstood  TemplateUsage = "not_understood"
	TemplateHelp           TemplateUsage = "help"
	TemplateHelpNavigation TemplateUsage = "help_navigation"
	TemplateStatusLine     TemplateUsage = "status_line"
	TemplateStatusHeader   TemplateUsage = "status_header"
)

// Templates maps template usages to fmt format strings.
type Templates map[TemplateUsage]string

// DefaultTemplates is the built-in English template table.
func DefaultTemplates() Templates {
	return Templates{
		TemplateString:         "Please enter %s",
		TemplateSelectOne:      "Please select %s (%s)",
		TemplateConfirmation:   "Is this your selection?\n%s",
		TemplateNavigation:     "What do you want to change? (%s)",
		TemplateNotUnderstood:  "%q is not a %s option.",
		TemplateHelp:           "You are filling in the %s field. Possible responses:\n%s\n%s",
		TemplateHelpNavigation: "You can switch to another field by entering its name. (%s)",
		TemplateStatusLine:     "%s: %s",
		TemplateStatusHeader:   "Progress so far:",
	}
}

// Prompter renders text for one locale's template table.
type Prompter struct {
	templates     Templates
	separator     string
	lastSeparator string
}

func NewPrompter(templates Templates, separator, lastSeparator string) *Prompter {
	if separator == "" {
		separator = ", "
	}
	if lastSeparator == "" {
		lastSeparator = " and "
	}
	return &Prompter{templates: templates, separator: separator, lastSeparator: lastSeparator}
}

// Prompt renders the template for the given usage. Unknown usages render to
// a joined argument list so a missing template never swallows content.
func (p *Prompter) Prompt(usage TemplateUsage, args ...any) string {
	format, ok := p.templates[usage]
	if !ok {
		format = DefaultTemplates()[usage]
	}
	if format == "" {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, fmt.Sprint(a))
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprintf(format, args...)
}

// BuildList joins items the way the prompter joins choice lists:
// "a", "a and b", "a, b and c".
func (p *Prompter) BuildList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], p.separator) + p.lastSeparator + items[len(items)-1]
}

// MatchLocale picks the best supported locale for the requested tag,
// falling back to the first supported entry when nothing matches.
func MatchLocale(requested string, supported []string) string {
	if len(supported) == 0 {
		return requested
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	matcher := language.NewMatcher(tags)
	tag, err := language.Parse(requested)
	if err != nil {
		return supported[0]
	}
	_, index, _ := matcher.Match(tag)
	return supported[index]
}
