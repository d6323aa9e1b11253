package content

import (
	"strings"

	"github.com/1broseidon/termdesk/internal/config"
)

// NewAbout renders the About sections: a heading, then paragraphs, then
// bullet items.
func NewAbout(name string, sections []config.AboutSection, animate bool) Panel {
	var lines []line
	if name != "" {
		lines = append(lines, line{kind: lineHeading, text: name}, line{kind: lineBlank})
	}
	for i, sec := range sections {
		if i > 0 {
			lines = append(lines, line{kind: lineBlank})
		}
		if sec.Heading != "" {
			lines = append(lines, line{kind: lineHeading, text: sec.Heading})
		}
		for _, p := range sec.Paragraphs {
			lines = append(lines, line{kind: lineText, text: strings.TrimSpace(p)})
		}
		for _, item := range sec.Items {
			lines = append(lines, line{kind: lineItem, text: strings.TrimSpace(item)})
		}
	}
	return newDocument(lines, animate)
}

// NewSkills lists skill categories, one bullet per skill.
func NewSkills(categories []config.SkillCategory, animate bool) Panel {
	var lines []line
	for i, cat := range categories {
		if i > 0 {
			lines = append(lines, line{kind: lineBlank})
		}
		lines = append(lines, line{kind: lineHeading, text: cat.Name})
		for _, item := range cat.Items {
			lines = append(lines, line{kind: lineItem, text: item})
		}
	}
	if len(lines) == 0 {
		lines = append(lines, line{kind: lineSubtle, text: "No skills listed."})
	}
	return newDocument(lines, animate)
}
