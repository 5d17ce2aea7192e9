package envtmpl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	lineColRe = regexp.MustCompile(`template: [^:]+:(\d+):(\d+): (.+)`)
	lineRe    = regexp.MustCompile(`template: [^:]+:(\d+): (.+)`)
)

// TemplateError is a parse or execution failure located within the template
// source.
type TemplateError struct {
	Name    string
	Line    int
	Column  int
	Message string
	Context []string
}

func NewTemplateError(name, src string, err error) *TemplateError {
	te := &TemplateError{
		Name:    name,
		Message: err.Error(),
	}

	te.parseError(err.Error())
	te.loadContext(src)
	te.cleanMessage()

	return te
}

func (te *TemplateError) parseError(errStr string) {
	// template: name:line:col: message
	if matches := lineColRe.FindStringSubmatch(errStr); len(matches) > 3 {
		te.Line, _ = strconv.Atoi(matches[1])
		te.Column, _ = strconv.Atoi(matches[2])
		te.Message = matches[3]
		return
	}

	// template: name:line: message
	if matches := lineRe.FindStringSubmatch(errStr); len(matches) > 2 {
		te.Line, _ = strconv.Atoi(matches[1])
		te.Message = matches[2]
	}
}

// loadContext keeps up to two lines either side of the failing line.
func (te *TemplateError) loadContext(src string) {
	if te.Line == 0 {
		return
	}

	lines := strings.Split(src, "\n")
	start := max(te.Line-3, 0)
	end := min(te.Line+2, len(lines))
	if start >= end {
		return
	}

	te.Context = lines[start:end]
}

func (te *TemplateError) cleanMessage() {
	replacements := []struct{ old, new string }{
		{"can't evaluate field", "unknown field"},
		{"map has no entry for key", "missing key"},
		{fmt.Sprintf(`executing %q `, te.Name), ""},
		{"at <", "accessing variable <"},
	}

	for _, r := range replacements {
		te.Message = strings.ReplaceAll(te.Message, r.old, r.new)
	}
}

func (te *TemplateError) Error() string {
	return te.format()
}

func (te *TemplateError) format() string {
	if te.Line == 0 {
		return fmt.Sprintf("template error in %s: %s", te.Name, te.Message)
	}

	var (
		errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		fileStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true)
		lineNumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		errorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		contextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		pointerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	)

	var sb strings.Builder

	sb.WriteString(errorStyle.Render("Template Error") + "\n\n")

	location := fmt.Sprintf("%s:%d", te.Name, te.Line)
	if te.Column > 0 {
		location += fmt.Sprintf(":%d", te.Column)
	}
	sb.WriteString(fileStyle.Render(location) + "\n\n")

	if len(te.Context) > 0 {
		startLine := max(te.Line-2, 1)

		for i, line := range te.Context {
			current := startLine + i
			prefix := fmt.Sprintf("%4d │ ", current)

			if current != te.Line {
				sb.WriteString(lineNumStyle.Render(prefix))
				sb.WriteString(contextStyle.Render(line) + "\n")
				continue
			}

			sb.WriteString(errorLineStyle.Render(prefix))
			sb.WriteString(errorLineStyle.Render(line) + "\n")

			if te.Column > 0 && te.Column <= len(line) {
				sb.WriteString(strings.Repeat(" ", 6+te.Column-1) + pointerStyle.Render("^") + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(errorStyle.Render("Error: ") + te.Message + "\n")

	return sb.String()
}
