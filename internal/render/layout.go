package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// barMargin is the space a bar row needs besides its label: a space before
// the bar, a space after it and the six-cell "100.0%" readout.
const barMargin = 8

// bodyTop is the first screen row below the header and its spacer.
const bodyTop = 2

// Theme holds the colors per metric kind.
type Theme struct {
	CPU    tcell.Color
	Memory tcell.Color
	Disk   tcell.Color
	Header tcell.Color
}

// DefaultTheme matches the default configuration.
func DefaultTheme() Theme {
	return Theme{
		CPU:    tcell.ColorGreen,
		Memory: tcell.ColorYellow,
		Disk:   tcell.ColorBlue,
		Header: tcell.ColorDarkCyan,
	}
}

func (t Theme) band() tcell.Style {
	if t.Header == tcell.ColorDefault {
		return tcell.StyleDefault.Reverse(true)
	}
	return tcell.StyleDefault.Background(t.Header).Foreground(tcell.ColorBlack)
}

var (
	plain     = tcell.StyleDefault
	dim       = tcell.StyleDefault.Dim(true)
	bold      = tcell.StyleDefault.Bold(true)
	blankLine = Line{}
)

// Segment is a run of text drawn in one style.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Line is one screen row.
type Line []Segment

// String returns the text of the line without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Page is a full screen of lines, one per row.
type Page struct {
	Header string
	Footer string
	Lines  []Line
}

// barRow is a labelled bar before the label column is known.
type barRow struct {
	label   string
	percent float64
	color   tcell.Color
	// flexible labels (mount paths) may be shortened to fit the column
	flexible bool
}

// Layout builds the page for s at the given terminal size. s may be nil
// before the first sample has been published.
func Layout(s *snapshot.Snapshot, width, height int, theme Theme, version string) Page {
	if width <= 0 || height <= 0 {
		return Page{}
	}
	page := Page{Lines: make([]Line, height)}

	page.Header = Band(
		"RCTOP v"+version,
		fmt.Sprintf("[Width: %d, Height: %d]", width, height),
		width,
	)
	page.Lines[0] = Line{{Text: page.Header, Style: theme.band()}}
	if height == 1 {
		return page
	}

	page.Footer = Band(footerLeft(s), footerRight(s), width)
	page.Lines[height-1] = Line{{Text: page.Footer, Style: theme.band()}}

	body := bodyLines(s, width, theme)
	for i, line := range body {
		y := bodyTop + i
		if y >= height-1 {
			break
		}
		page.Lines[y] = line
	}
	return page
}

func footerLeft(s *snapshot.Snapshot) string {
	if s == nil {
		return "Waiting for first sample"
	}
	cpu, mem := "CPU n/a", "Mem n/a"
	if s.Available(snapshot.CategoryCPU) {
		cpu = fmt.Sprintf("CPU %.2f%%", s.AggregateCPU())
	}
	if s.Available(snapshot.CategoryMemory) {
		mem = fmt.Sprintf("Mem %s / %s", Bytes(s.Memory.Used), Bytes(s.Memory.Total))
	}
	return cpu + " | " + mem
}

func footerRight(s *snapshot.Snapshot) string {
	if s == nil {
		return ""
	}
	if !s.Available(snapshot.CategoryUptime) {
		return "Up n/a"
	}
	return "Up " + Uptime(s.Uptime)
}

// bodyLines renders everything between header and footer. Sections that
// were not sampled keep a placeholder row so the layout does not jump.
func bodyLines(s *snapshot.Snapshot, width int, theme Theme) []Line {
	if s == nil {
		return []Line{{{Text: Fit("Sampling...", width), Style: dim}}}
	}

	var (
		lines []Line
		bars  []barRow
		// positions of bar rows inside lines, filled in once the label
		// column is known
		slots []int
	)
	addBar := func(b barRow) {
		slots = append(slots, len(lines))
		bars = append(bars, b)
		lines = append(lines, nil)
	}
	addText := func(text string, style tcell.Style) {
		lines = append(lines, Line{{Text: Fit(text, width), Style: style}})
	}

	if s.Available(snapshot.CategoryCPU) && len(s.CPU) > 0 {
		digits := len(strconv.Itoa(len(s.CPU) - 1))
		for i, core := range s.CPU {
			addBar(barRow{
				label:   fmt.Sprintf("CPU %*d:", digits, i),
				percent: core.Busy(),
				color:   theme.CPU,
			})
		}
	} else {
		addText("CPU: unavailable", dim)
	}

	if s.Available(snapshot.CategoryMemory) {
		addBar(barRow{label: "Memory:", percent: s.Memory.Percentage(), color: theme.Memory})
	} else {
		addText("Memory: unavailable", dim)
	}

	addText(statusText(s), plain)
	lines = append(lines, blankLine)

	switch {
	case !s.Available(snapshot.CategoryDisk):
		addText("Disks: unavailable", dim)
	case len(s.Disks) == 0:
		addText("Disks: none", dim)
	default:
		for _, m := range s.Disks {
			addBar(barRow{label: m.Path + ":", percent: m.Percentage(), color: theme.Disk, flexible: true})
		}
	}
	lines = append(lines, blankLine)

	if s.Available(snapshot.CategoryNetwork) {
		addText("Network:", bold)
		for _, iface := range s.Network {
			addText(interfaceText(iface), plain)
		}
	} else {
		addText("Network: unavailable", dim)
	}

	labelWidth := labelColumn(bars, width)
	for i, b := range bars {
		lines[slots[i]] = barLine(b, labelWidth, width)
	}
	return lines
}

func statusText(s *snapshot.Snapshot) string {
	load := "Load: n/a"
	if s.Available(snapshot.CategoryLoad) {
		load = fmt.Sprintf("Load: %.2f %.2f %.2f", s.Load.One, s.Load.Five, s.Load.Fifteen)
	}
	temp := "Temp: n/a"
	if s.Available(snapshot.CategoryTemperature) && s.CPUTemp != nil {
		temp = fmt.Sprintf("Temp: %.1f°C", *s.CPUTemp)
	}
	return load + "   " + temp
}

func interfaceText(iface snapshot.Interface) string {
	text := fmt.Sprintf("  %-10s rx %-10s tx %-10s", iface.Name, Bytes(iface.RxBytes), Bytes(iface.TxBytes))
	if len(iface.Addresses) > 0 {
		text += " " + strings.Join(iface.Addresses, ", ")
	}
	return strings.TrimRight(text, " ")
}

// labelColumn is the widest bar label. Flexible labels are capped at a
// third of the screen so long mount paths cannot squeeze the bars away.
func labelColumn(bars []barRow, width int) int {
	fixed, flexible := Width("Memory:"), 0
	for _, b := range bars {
		w := Width(b.label)
		switch {
		case !b.flexible && w > fixed:
			fixed = w
		case b.flexible && w > flexible:
			flexible = w
		}
	}
	if limit := width / 3; flexible > limit {
		flexible = limit
	}
	if flexible > fixed {
		return flexible
	}
	return fixed
}

// barLine lays out "label bar pct%" across width cells.
func barLine(b barRow, labelWidth, width int) Line {
	barWidth := width - labelWidth - barMargin
	if barWidth < 0 {
		barWidth = 0
	}
	bar := NewBar(barWidth, b.percent)
	glyphs := bar.String()

	line := Line{
		{Text: Pad(b.label, labelWidth) + " ", Style: plain},
		{Text: glyphs, Style: plain.Foreground(b.color)},
	}
	if pad := barWidth - bar.Cells(); pad > 0 {
		line = append(line, Segment{Text: strings.Repeat(" ", pad), Style: plain})
	}
	line = append(line, Segment{Text: fmt.Sprintf(" %5.1f%%", b.percent), Style: plain})
	return line
}
