package main

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/hexkit/ihex"
)

// fileKind tells the saver which serialization the image came from
type fileKind int

const (
	kindHex fileKind = iota
	kindBin
)

func (k fileKind) String() string {
	if k == kindBin {
		return "bin"
	}
	return "hex"
}

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	SearchMode
	JumpMode
	EditMode
)

// charsetMode selects the char gutter decoding
type charsetMode int

const (
	charsetASCII charsetMode = iota
	charsetCP1252
)

func (c charsetMode) String() string {
	if c == charsetCP1252 {
		return "cp1252"
	}
	return "ascii"
}

// Model is the main application model
type Model struct {
	path string
	kind fileKind
	img  *ihex.Image
	cfg  Config
	keys KeyMap

	width  int
	height int

	// Viewport: top is the address of the first visible row, always a
	// multiple of cfg.BytesPerRow
	top    uint32
	cursor uint32

	// Selection state
	selecting bool
	selStart  uint32

	// Input modes
	inputMode   InputMode
	inputBuffer string

	// Search state
	searchKind ihex.QueryKind // mode for the next query, cycled with tab
	query      string
	queryKind  ihex.QueryKind
	matches    []uint32
	matchIdx   int
	matchLen   int

	// Edit state
	editBuf   string          // first nibble while the second is pending
	originals map[uint32]byte // pre-edit values, keyed by address
	dirty     bool

	// View toggles
	bigEndian bool
	charset   charsetMode

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string

	printer *message.Printer
}

// NewModel creates a new TUI model over a loaded image
func NewModel(img *ihex.Image, path string, kind fileKind, cfg Config) Model {
	cfg.Normalize()

	m := Model{
		path:       path,
		kind:       kind,
		img:        img,
		cfg:        cfg,
		keys:       DefaultKeyMap(),
		inputMode:  NormalMode,
		searchKind: ihex.QueryText,
		originals:  make(map[uint32]byte),
		bigEndian:  cfg.Endian == "big",
		printer:    message.NewPrinter(language.English),
	}
	if cfg.Charset == "cp1252" {
		m.charset = charsetCP1252
	}

	if lo, ok := img.MinAddr(); ok {
		m.cursor = lo
		m.top = rowStart(lo, cfg.BytesPerRow)
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// rowStart aligns addr down to the containing row boundary
func rowStart(addr uint32, bytesPerRow int) uint32 {
	return addr - addr%uint32(bytesPerRow)
}

// gridRows returns how many data rows fit in the current window
func (m *Model) gridRows() int {
	rows := m.height - 8
	if rows < 4 {
		rows = 4
	}
	return rows
}

// moveCursor shifts the cursor by delta bytes, clamped to the image span
func (m *Model) moveCursor(delta int64) {
	lo, ok := m.img.MinAddr()
	if !ok {
		return
	}
	hi, _ := m.img.MaxAddr()

	pos := int64(m.cursor) + delta
	if pos < int64(lo) {
		pos = int64(lo)
	}
	if pos > int64(hi) {
		pos = int64(hi)
	}
	m.cursor = uint32(pos)
	m.ensureCursorVisible()
}

// setCursor places the cursor at addr, clamped to the image span, and
// recenters the window around it
func (m *Model) setCursor(addr uint32) {
	lo, ok := m.img.MinAddr()
	if !ok {
		return
	}
	hi, _ := m.img.MaxAddr()

	if addr < lo {
		addr = lo
	}
	if addr > hi {
		addr = hi
	}
	m.cursor = addr
	m.recenter()
}

// ensureCursorVisible scrolls just enough to keep the cursor row on screen
func (m *Model) ensureCursorVisible() {
	per := uint64(m.cfg.BytesPerRow)
	row := uint64(m.cursor) / per
	topRow := uint64(m.top) / per
	rows := uint64(m.gridRows())

	switch {
	case row < topRow:
		topRow = row
	case row >= topRow+rows:
		topRow = row - rows + 1
	}
	m.top = uint32(topRow * per)
}

// recenter puts the cursor row in the middle of the window
func (m *Model) recenter() {
	per := uint64(m.cfg.BytesPerRow)
	row := int64(uint64(m.cursor) / per)

	topRow := row - int64(m.gridRows())/2
	if topRow < 0 {
		topRow = 0
	}
	m.top = uint32(uint64(topRow) * per)
}

// selection returns the inclusive selected address range
func (m *Model) selection() (lo, hi uint32, ok bool) {
	if !m.selecting {
		return 0, 0, false
	}
	lo, hi = m.selStart, m.cursor
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// matchAt reports whether addr falls inside any search match
func (m *Model) matchAt(addr uint32) bool {
	if len(m.matches) == 0 {
		return false
	}
	i := sort.Search(len(m.matches), func(k int) bool { return m.matches[k] > addr }) - 1
	if i < 0 {
		return false
	}
	return uint64(addr) < uint64(m.matches[i])+uint64(m.matchLen)
}

// Messages

type clearStatusMsg struct{}

// clearStatusAfter schedules the status line to be wiped
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
