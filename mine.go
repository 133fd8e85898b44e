package docscout

import (
	"regexp"
	"strings"
)

// block is one structural unit of a markdown document: either a prose
// paragraph or a fenced code region.
type block struct {
	code bool
	info string // fence info string, code blocks only
	text string
}

// fenceRe matches an opening or closing code fence with an optional info string.
var fenceRe = regexp.MustCompile("^(```|~~~)\\s*([A-Za-z0-9_+-]*)\\s*$")

// splitBlocks partitions markdown into prose paragraphs and fenced code
// regions. An unterminated fence runs to the end of the document.
func splitBlocks(markdown string) []block {
	var blocks []block
	var para []string
	var code []string
	var info string
	inFence := false

	flushPara := func() {
		if len(para) > 0 {
			blocks = append(blocks, block{text: strings.Join(para, "\n")})
			para = nil
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		if m := fenceRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if inFence {
				blocks = append(blocks, block{code: true, info: info, text: strings.Join(code, "\n")})
				code = nil
				inFence = false
			} else {
				flushPara()
				info = m[2]
				inFence = true
			}
			continue
		}

		if inFence {
			code = append(code, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushPara()
			continue
		}
		para = append(para, line)
	}

	if inFence && len(code) > 0 {
		blocks = append(blocks, block{code: true, info: info, text: strings.Join(code, "\n")})
	}
	flushPara()

	return blocks
}

// structuralTokenRe matches markers of declarations, assignments, and
// blocks - the "looks like configuration or program logic" test.
var structuralTokenRe = regexp.MustCompile(`[={}()\[\]]|:\s|:$|=>|\b(func|def|class|const|let|var|import|from|return|if|for|while|type|interface|export)\b`)

// commandWordRe matches the leading word of a typical shell command line.
var commandWordRe = regexp.MustCompile(`^\s*(\$|>|npm|npx|yarn|pnpm|pip|pip3|git|cd|mkdir|cp|mv|rm|curl|wget|brew|apt|apt-get|docker|kubectl|go|cargo|make)\b`)

// exampleRe marks descriptions that introduce a usage example rather than
// configuration or program structure.
var exampleRe = regexp.MustCompile(`(?i)\b(example|usage|quick\s?start|for instance|demonstrat|walkthrough)`)

// nonBlankLines returns the non-blank lines of s.
func nonBlankLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// looksLikeCode applies a token-density heuristic: at least half the
// non-blank lines must carry a structural marker.
func looksLikeCode(code string) bool {
	lines := nonBlankLines(code)
	if len(lines) == 0 {
		return false
	}
	hits := 0
	for _, line := range lines {
		if structuralTokenRe.MatchString(line) {
			hits++
		}
	}
	return hits*2 >= len(lines)
}

// isShellTranscript reports whether a code region is purely a list of shell
// commands. Such regions are install/setup transcripts, not reusable patterns.
func isShellTranscript(code string) bool {
	lines := nonBlankLines(code)
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		if !commandWordRe.MatchString(line) {
			return false
		}
	}
	return true
}

// MinePatterns scans markdown for fenced code regions that qualify as
// reusable patterns: non-trivial (more than one non-blank line), looking
// like configuration or program logic, and not purely a shell command list.
// The paragraph immediately preceding a region becomes its description.
//
// The heuristic is lexical and deliberately approximate; no parsing of the
// embedded language is attempted.
func MinePatterns(markdown, sourceURL string, category Category) []CodePattern {
	var patterns []CodePattern
	var prevProse string

	for _, b := range splitBlocks(markdown) {
		if !b.code {
			prevProse = strings.TrimSpace(b.text)
			continue
		}

		if len(nonBlankLines(b.text)) < 2 || !looksLikeCode(b.text) || isShellTranscript(b.text) {
			continue
		}

		patterns = append(patterns, CodePattern{
			SourceURL:   sourceURL,
			Code:        strings.TrimRight(b.text, "\n"),
			Description: prevProse,
			Category:    category,
			Example:     exampleRe.MatchString(prevProse),
		})
	}

	return patterns
}

// gotchaLexicon lists the warning indicators scanned for, lowercase.
var gotchaLexicon = []string{
	"note:",
	"important:",
	"warning:",
	"caution:",
	"make sure",
	"avoid",
	"common mistake",
	"troubleshooting",
	"do not",
	"be careful",
	"keep in mind",
	"pitfall",
	"deprecated",
}

// sentenceRe splits prose into sentences on terminal punctuation.
var sentenceRe = regexp.MustCompile(`[^.!?]*[.!?]+|[^.!?]+$`)

// containingSentence returns the sentence of text that covers byte offset idx.
func containingSentence(text string, idx int) string {
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		if idx >= loc[0] && idx < loc[1] {
			return strings.TrimSpace(text[loc[0]:loc[1]])
		}
	}
	return strings.TrimSpace(text)
}

// MineGotchas scans prose for warning indicators and returns the pitfalls
// found. The warning text is the sentence containing the first indicator in
// a paragraph; the following prose paragraph becomes its nearby context.
// At most one gotcha is produced per paragraph.
func MineGotchas(markdown, sourceURL string, category Category) []Gotcha {
	blocks := splitBlocks(markdown)

	var gotchas []Gotcha
	for i, b := range blocks {
		if b.code {
			continue
		}

		text := strings.TrimSpace(strings.ReplaceAll(b.text, "\n", " "))
		lower := strings.ToLower(text)

		idx := -1
		for _, indicator := range gotchaLexicon {
			if j := strings.Index(lower, indicator); j != -1 && (idx == -1 || j < idx) {
				idx = j
			}
		}
		if idx == -1 {
			continue
		}

		var context string
		for j := i + 1; j < len(blocks); j++ {
			if !blocks[j].code {
				context = strings.TrimSpace(strings.ReplaceAll(blocks[j].text, "\n", " "))
				break
			}
		}

		gotchas = append(gotchas, Gotcha{
			SourceURL: sourceURL,
			Warning:   containingSentence(text, idx),
			Context:   context,
			Category:  category,
		})
	}

	return gotchas
}
