package edit

import (
	"strings"
)

// spacesPerLevel is the indent width one nesting level occupies. Tabs count
// as one level each.
const spacesPerLevel = 2

// ParseOutline converts markdown-shaped text into outline items. Nesting
// comes from leading indentation; "-", "*", and "+" bullets are stripped;
// blank lines are skipped. A "#" heading becomes an item one level above
// the text that follows it, with the marker stripped; deeper headings nest
// under shallower ones until a heading of equal or shallower rank closes
// them.
func ParseOutline(content string) []Item {
	var items []Item
	var headings []int // open heading ranks, shallow to deep
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if rank, text := headingLine(line); rank > 0 {
			for len(headings) > 0 && headings[len(headings)-1] >= rank {
				headings = headings[:len(headings)-1]
			}
			items = append(items, Item{Text: text, Level: len(headings) + 1})
			headings = append(headings, rank)
			continue
		}
		level := len(headings) + indentLevel(line) + 1
		text := stripBullet(strings.TrimLeft(line, " \t"))
		if text == "" {
			continue
		}
		items = append(items, Item{Text: text, Level: level})
	}
	return items
}

// headingLine reports a line's heading rank (number of leading "#") and its
// text. Rank 0 means the line is not a heading.
func headingLine(line string) (int, string) {
	trimmed := strings.TrimLeft(line, " \t")
	rank := 0
	for rank < len(trimmed) && trimmed[rank] == '#' {
		rank++
	}
	if rank == 0 || rank > 6 || rank == len(trimmed) || trimmed[rank] != ' ' {
		return 0, ""
	}
	return rank, strings.TrimSpace(trimmed[rank:])
}

func indentLevel(line string) int {
	tabs, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			tabs++
		case ' ':
			spaces++
		default:
			return tabs + spaces/spacesPerLevel
		}
	}
	return tabs + spaces/spacesPerLevel
}

func stripBullet(line string) string {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return strings.TrimSpace(line)
}
