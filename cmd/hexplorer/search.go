package main

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hexkit/cmd/hexplorer/logger"
	"github.com/joshuapare/hexkit/ihex"
)

// nextQueryKind cycles text → hex → regex
func nextQueryKind(k ihex.QueryKind) ihex.QueryKind {
	switch k {
	case ihex.QueryText:
		return ihex.QueryBytes
	case ihex.QueryBytes:
		return ihex.QueryRegex
	default:
		return ihex.QueryText
	}
}

// queryKindName names a query kind for the prompt and status bar
func queryKindName(k ihex.QueryKind) string {
	switch k {
	case ihex.QueryBytes:
		return "hex"
	case ihex.QueryRegex:
		return "regex"
	default:
		return "text"
	}
}

// runSearch executes a query, stores the hits, and moves the cursor to the
// first match at or after the current position
func (m Model) runSearch(query string, kind ihex.QueryKind) (tea.Model, tea.Cmd) {
	if query == "" {
		m.query = ""
		m.matches = nil
		m.matchIdx = 0
		return m, nil
	}

	matches, matchLen, err := m.executeQuery(query, kind)
	if err != nil {
		m.statusMessage = err.Error()
		return m, clearStatusAfter(3 * time.Second)
	}

	m.query = query
	m.queryKind = kind
	m.matches = matches
	m.matchLen = matchLen
	m.matchIdx = 0

	logger.Debug("search complete", "kind", queryKindName(kind), "query", query, "matches", len(matches))

	if len(matches) == 0 {
		m.statusMessage = fmt.Sprintf("No matches for %q", query)
		return m, clearStatusAfter(3 * time.Second)
	}

	// Land on the first match at or after the cursor, wrapping to the start
	idx := sort.Search(len(matches), func(k int) bool { return matches[k] >= m.cursor })
	if idx == len(matches) {
		idx = 0
	}
	m.matchIdx = idx
	m.setCursor(matches[idx])

	m.statusMessage = fmt.Sprintf("%d match(es)", len(matches))
	return m, clearStatusAfter(3 * time.Second)
}

// executeQuery runs one query against the image and reports the highlight
// width of a hit
func (m *Model) executeQuery(query string, kind ihex.QueryKind) ([]uint32, int, error) {
	switch kind {
	case ihex.QueryBytes:
		pattern, err := hex.DecodeString(strings.ReplaceAll(query, " ", ""))
		if err != nil || len(pattern) == 0 {
			return nil, 0, fmt.Errorf("invalid hex pattern %q", query)
		}
		return m.img.SearchBytes(pattern), len(pattern), nil

	case ihex.QueryRegex:
		if _, err := regexp.Compile(query); err != nil {
			return nil, 0, fmt.Errorf("invalid regex: %v", err)
		}
		// Match spans are not reported, so highlight the first byte only
		return m.img.SearchRegex(query), 1, nil

	default:
		return m.img.SearchText(query), len(query), nil
	}
}

// rerunSearch refreshes the hit list after the underlying bytes changed
func (m *Model) rerunSearch() {
	if m.query == "" {
		return
	}
	matches, matchLen, err := m.executeQuery(m.query, m.queryKind)
	if err != nil {
		return
	}
	m.matches = matches
	m.matchLen = matchLen
	if m.matchIdx >= len(matches) {
		m.matchIdx = 0
	}
}

// handleNextMatch advances to the first match past the cursor, wrapping
func (m Model) handleNextMatch() (tea.Model, tea.Cmd) {
	if len(m.matches) == 0 {
		m.statusMessage = "No matches"
		return m, clearStatusAfter(2 * time.Second)
	}

	idx := sort.Search(len(m.matches), func(k int) bool { return m.matches[k] > m.cursor })
	if idx == len(m.matches) {
		idx = 0
	}
	m.matchIdx = idx
	m.setCursor(m.matches[idx])
	m.statusMessage = fmt.Sprintf("Match %d/%d", idx+1, len(m.matches))
	return m, clearStatusAfter(2 * time.Second)
}

// handlePrevMatch steps back to the last match before the cursor, wrapping
func (m Model) handlePrevMatch() (tea.Model, tea.Cmd) {
	if len(m.matches) == 0 {
		m.statusMessage = "No matches"
		return m, clearStatusAfter(2 * time.Second)
	}

	idx := sort.Search(len(m.matches), func(k int) bool { return m.matches[k] >= m.cursor }) - 1
	if idx < 0 {
		idx = len(m.matches) - 1
	}
	m.matchIdx = idx
	m.setCursor(m.matches[idx])
	m.statusMessage = fmt.Sprintf("Match %d/%d", idx+1, len(m.matches))
	return m, clearStatusAfter(2 * time.Second)
}
