package richtext

import (
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*]+)\*`)
)

// FormatText converts line-oriented markdown-like text into a block
// sequence. Each non-blank line is classified independently: "#", "##" and
// "###" prefixes map to heading levels 1-3, ">" maps to a quote block, and
// any other non-blank line becomes a paragraph. Blank lines are dropped.
func FormatText(text string) []Block {
	var blocks []Block
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "### "):
			blocks = append(blocks, Block{Type: BlockHeading3, Runs: plainRuns(trimmed[4:])})
		case strings.HasPrefix(trimmed, "## "):
			blocks = append(blocks, Block{Type: BlockHeading2, Runs: plainRuns(trimmed[3:])})
		case strings.HasPrefix(trimmed, "# "):
			blocks = append(blocks, Block{Type: BlockHeading1, Runs: plainRuns(trimmed[2:])})
		case strings.HasPrefix(trimmed, "> "):
			blocks = append(blocks, Block{Type: BlockQuote, Runs: plainRuns(trimmed[2:])})
		case strings.HasPrefix(trimmed, ">"):
			blocks = append(blocks, Block{Type: BlockQuote, Runs: plainRuns(strings.TrimSpace(trimmed[1:]))})
		default:
			blocks = append(blocks, Block{Type: BlockParagraph, Runs: ParseRuns(trimmed)})
		}
	}
	return blocks
}

// ParseRuns splits a line into styled runs. Bold ("**x**") and italic
// ("*x*") spans are recognized non-overlapping, earliest match first; when
// both patterns match at the same offset the bold span wins. Text outside
// any span becomes a plain run.
func ParseRuns(line string) []Run {
	var runs []Run
	rest := line
	for rest != "" {
		bold := boldPattern.FindStringSubmatchIndex(rest)
		italic := italicPattern.FindStringSubmatchIndex(rest)

		match, mark := bold, MarkBold
		if match == nil || (italic != nil && italic[0] < match[0]) {
			match, mark = italic, MarkItalic
		}
		if match == nil {
			runs = append(runs, Run{Text: rest})
			break
		}
		if match[0] > 0 {
			runs = append(runs, Run{Text: rest[:match[0]]})
		}
		runs = append(runs, Run{Text: rest[match[2]:match[3]], Marks: []Mark{mark}})
		rest = rest[match[1]:]
	}
	return runs
}

// Heading titles and quotes keep any emphasis characters verbatim.
func plainRuns(text string) []Run {
	return []Run{{Text: text}}
}
