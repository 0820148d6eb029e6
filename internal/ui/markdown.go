package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// Compiled regex patterns for markdown parsing
var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	starItalic        = regexp.MustCompile(`(^|[^*\w])\*([^*\s][^*]*)\*($|[^*\w])`)
	underscoreItalic  = regexp.MustCompile(`(^|[^a-zA-Z0-9_])_([^_]+)_($|[^a-zA-Z0-9_])`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	numberedPattern   = regexp.MustCompile(`^(\d{1,3})\. (.*)$`)
	tableRulePattern  = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?$`)
)

// highlightCode applies syntax highlighting to code using chroma and the
// current theme's chroma style.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(currentTheme.ChromaStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return strings.TrimRight(buf.String(), "\n")
}

// renderInlineMarkdown applies inline formatting (bold, italic, code, links) to a line
func renderInlineMarkdown(line string) string {
	// Protect code spans from the other patterns.
	var codeSpans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		codeSpans = append(codeSpans, MarkdownInlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00CODE%d\x00", len(codeSpans)-1)
	})

	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownBoldStyle.Render(boldPattern.FindStringSubmatch(match)[1])
	})

	italic := func(re *regexp.Regexp) func(string) string {
		return func(match string) string {
			m := re.FindStringSubmatch(match)
			return m[1] + MarkdownItalicStyle.Render(m[2]) + m[3]
		}
	}
	line = starItalic.ReplaceAllStringFunc(line, italic(starItalic))
	line = underscoreItalic.ReplaceAllStringFunc(line, italic(underscoreItalic))

	line = linkPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		return MarkdownLinkStyle.Render(parts[1]) + " (" + MarkdownLinkStyle.Render(parts[2]) + ")"
	})

	for i, rendered := range codeSpans {
		line = strings.Replace(line, fmt.Sprintf("\x00CODE%d\x00", i), rendered, 1)
	}
	return line
}

// wrapText wraps text to the specified width, handling ANSI escape codes
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// indentContinuation wraps content and indents every line after the first.
func indentContinuation(content string, width int, indent string) string {
	lines := strings.Split(wrapText(content, width), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

// renderMarkdownLine renders a single line with markdown formatting
func renderMarkdownLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "#### "):
		return MarkdownH4Style.Render(strings.TrimPrefix(trimmed, "#### "))
	case strings.HasPrefix(trimmed, "### "):
		return MarkdownH3Style.Render(strings.TrimPrefix(trimmed, "### "))
	case strings.HasPrefix(trimmed, "## "):
		return MarkdownH2Style.Render(strings.TrimPrefix(trimmed, "## "))
	case strings.HasPrefix(trimmed, "# "):
		return MarkdownH1Style.Render(strings.TrimPrefix(trimmed, "# "))
	case trimmed == "---" || trimmed == "***" || trimmed == "___":
		hr := width
		if hr > 32 {
			hr = 32
		}
		return MarkdownHRStyle.Render(strings.Repeat("─", hr))
	case strings.HasPrefix(trimmed, "> "):
		content := strings.TrimPrefix(trimmed, "> ")
		return MarkdownBlockquoteStyle.Render(wrapText(renderInlineMarkdown(content), width-4))
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		bullet := MarkdownListBulletStyle.Render("•")
		return "  " + bullet + " " + indentContinuation(renderInlineMarkdown(trimmed[2:]), width-6, "    ")
	}

	if m := numberedPattern.FindStringSubmatch(trimmed); m != nil {
		number := MarkdownListBulletStyle.Render(m[1] + ".")
		return "  " + number + " " + indentContinuation(renderInlineMarkdown(m[2]), width-6, "     ")
	}

	return wrapText(renderInlineMarkdown(line), width)
}

func isTableRow(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "|") && strings.Count(t, "|") >= 2
}

func splitTableRow(line string) []string {
	t := strings.Trim(strings.TrimSpace(line), "|")
	cells := strings.Split(t, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// renderTable lays out a pipe table with columns padded to their widest
// cell. A second row of dashes marks the first row as a header.
func renderTable(lines []string) string {
	var rows [][]string
	header := false
	for i, l := range lines {
		if i == 1 && tableRulePattern.MatchString(strings.TrimSpace(l)) {
			header = true
			continue
		}
		rows = append(rows, splitTableRow(l))
	}

	var widths []int
	for _, r := range rows {
		for c, cell := range r {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}

	sep := MarkdownTableBorderStyle.Render("│")
	var out []string
	for i, r := range rows {
		var cells []string
		for c := range widths {
			cell := ""
			if c < len(r) {
				cell = r[c]
			}
			padded := runewidth.FillRight(cell, widths[c])
			if header && i == 0 {
				padded = MarkdownTableHeaderStyle.Render(padded)
			} else {
				padded = renderInlineMarkdown(padded)
			}
			cells = append(cells, " "+padded+" ")
		}
		out = append(out, sep+strings.Join(cells, sep)+sep)
		if header && i == 0 {
			var rule []string
			for _, w := range widths {
				rule = append(rule, strings.Repeat("─", w+2))
			}
			out = append(out, MarkdownTableBorderStyle.Render("├"+strings.Join(rule, "┼")+"┤"))
		}
	}
	return strings.Join(out, "\n")
}

// renderMarkdown renders markdown content with syntax-highlighted code blocks
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var result strings.Builder
	lines := strings.Split(content, "\n")
	inCodeBlock := false
	codeBlockLang := ""
	var codeBlockContent strings.Builder

	flushCode := func() {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		if codeBlockLang != "" {
			result.WriteString(MarkdownCodeLangStyle.Render(codeBlockLang))
			result.WriteString("\n")
		}
		result.WriteString(highlightCode(codeBlockContent.String(), codeBlockLang))
		result.WriteString("\n")
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				codeBlockContent.Reset()
			} else {
				inCodeBlock = false
				flushCode()
				codeBlockLang = ""
			}
			continue
		}

		if inCodeBlock {
			if codeBlockContent.Len() > 0 {
				codeBlockContent.WriteString("\n")
			}
			codeBlockContent.WriteString(line)
			continue
		}

		if isTableRow(line) {
			j := i
			for j < len(lines) && isTableRow(lines[j]) {
				j++
			}
			result.WriteString(renderTable(lines[i:j]))
			result.WriteString("\n")
			i = j - 1
			continue
		}

		result.WriteString(renderMarkdownLine(line, width))
		result.WriteString("\n")
	}

	// An unterminated fence still shows what it has.
	if inCodeBlock {
		flushCode()
	}

	return strings.TrimRight(result.String(), "\n")
}
