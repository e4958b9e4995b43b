package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/rctop/internal/snapshot"
)

func fourCoresAtQuarter() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Uptime: 90061 * time.Second,
		CPU:    []snapshot.CoreLoad{{Idle: 75}, {Idle: 75}, {Idle: 75}, {Idle: 75}},
		Memory: snapshot.NewMemory(1000, 750),
		Disks:  []snapshot.Mount{snapshot.NewMount("/", "ext4", 2000, 1000)},
		Network: []snapshot.Interface{
			{Name: "eth0", Addresses: []string{"10.0.0.2/24"}, RxBytes: 2048, TxBytes: 1024},
		},
		Missing: snapshot.CategoryLoad | snapshot.CategoryTemperature,
	}
}

func findLine(t *testing.T, page Page, prefix string) Line {
	t.Helper()
	for _, l := range page.Lines {
		if strings.HasPrefix(strings.TrimLeft(l.String(), " "), prefix) {
			return l
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, dump(page))
	return nil
}

func dump(page Page) string {
	var b strings.Builder
	for i, l := range page.Lines {
		b.WriteString(strings.TrimRight(l.String(), " "))
		if i < len(page.Lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestLayout_ScenarioA_CoreBars(t *testing.T) {
	s := fourCoresAtQuarter()
	s.Disks = nil
	// label column is "Memory:" (7 cells), so the bar gets 55-7-8 = 40 cells
	page := Layout(s, 55, 20, DefaultTheme(), "1.0.0")

	for i := 0; i < 4; i++ {
		line := page.Lines[bodyTop+i]
		require.GreaterOrEqual(t, len(line), 2)
		assert.Equal(t, strings.Repeat(string(FullGlyph), 10), line[1].Text)
		assert.Equal(t, 55, Width(line.String()))
		assert.True(t, strings.HasSuffix(line.String(), " 25.0%"))
	}
	assert.True(t, strings.HasPrefix(page.Footer, "CPU 25.00% | Mem "))
}

func TestLayout_ScenarioB_MemoryBar(t *testing.T) {
	s := &snapshot.Snapshot{Memory: snapshot.NewMemory(1000, 750), Missing: snapshot.CategoryCPU}
	page := Layout(s, 65, 20, DefaultTheme(), "1.0.0")

	line := findLine(t, page, "Memory:")
	assert.Equal(t, strings.Repeat(string(FullGlyph), 12)+"▒", line[1].Text)
	assert.Equal(t, 65, Width(line.String()))
}

func TestLayout_CoreLabelsAlign(t *testing.T) {
	s := &snapshot.Snapshot{CPU: make([]snapshot.CoreLoad, 12)}
	page := Layout(s, 60, 30, DefaultTheme(), "x")

	assert.True(t, strings.HasPrefix(page.Lines[bodyTop].String(), "CPU  0: "))
	assert.True(t, strings.HasPrefix(page.Lines[bodyTop+11].String(), "CPU 11: "))

	// every bar starts in the same column
	first := Width(page.Lines[bodyTop][0].Text)
	mem := findLine(t, page, "Memory:")
	assert.Equal(t, first, Width(mem[0].Text))
}

func TestLayout_Header(t *testing.T) {
	page := Layout(nil, 60, 10, DefaultTheme(), "1.2.3")
	assert.True(t, strings.HasPrefix(page.Header, "RCTOP v1.2.3"))
	assert.True(t, strings.HasSuffix(page.Header, "[Width: 60, Height: 10]"))
	assert.Equal(t, 60, Width(page.Header))

	narrow := Layout(nil, 20, 10, DefaultTheme(), "1.2.3")
	assert.Equal(t, "RCTOP v1.2.3        ", narrow.Header)

	tiny := Layout(nil, 8, 10, DefaultTheme(), "1.2.3")
	assert.Equal(t, "RCTOP v…", tiny.Header)
}

func TestLayout_FooterOnLastRow(t *testing.T) {
	s := fourCoresAtQuarter()
	page := Layout(s, 80, 24, DefaultTheme(), "1")

	require.Len(t, page.Lines, 24)
	assert.Equal(t, page.Footer, page.Lines[23].String())
	assert.True(t, strings.HasSuffix(page.Footer, "Up 1d 1h 1m 1s"))
	assert.Contains(t, page.Footer, "Mem 250 B / 1000 B")

	narrow := Layout(s, 20, 24, DefaultTheme(), "1")
	assert.Equal(t, "CPU 25.00% | Mem 25…", narrow.Footer)
}

func TestLayout_BodyNeverOverwritesFooter(t *testing.T) {
	s := &snapshot.Snapshot{CPU: make([]snapshot.CoreLoad, 64)}
	page := Layout(s, 80, 10, DefaultTheme(), "1")

	require.Len(t, page.Lines, 10)
	assert.Equal(t, page.Footer, page.Lines[9].String())
	assert.True(t, strings.HasPrefix(page.Lines[8].String(), "CPU  6:"))
}

func TestLayout_TinyTerminals(t *testing.T) {
	assert.Empty(t, Layout(nil, 0, 10, DefaultTheme(), "1").Lines)

	one := Layout(fourCoresAtQuarter(), 40, 1, DefaultTheme(), "1")
	require.Len(t, one.Lines, 1)
	assert.Empty(t, one.Footer)

	two := Layout(fourCoresAtQuarter(), 40, 2, DefaultTheme(), "1")
	assert.Equal(t, two.Footer, two.Lines[1].String())
}

func TestLayout_UnavailableSectionsKeepPlaceholders(t *testing.T) {
	s := fourCoresAtQuarter()
	s.Disks = nil
	s.Network = nil
	s.Missing |= snapshot.CategoryDisk | snapshot.CategoryNetwork | snapshot.CategoryUptime

	page := Layout(s, 80, 30, DefaultTheme(), "1")
	findLine(t, page, "Disks: unavailable")
	findLine(t, page, "Network: unavailable")
	findLine(t, page, "Load: n/a   Temp: n/a")
	assert.True(t, strings.HasSuffix(page.Footer, "Up n/a"))

	s.Missing = snapshot.CategoryCPU | snapshot.CategoryMemory
	page = Layout(s, 80, 30, DefaultTheme(), "1")
	findLine(t, page, "CPU: unavailable")
	findLine(t, page, "Memory: unavailable")
	assert.True(t, strings.HasPrefix(page.Footer, "CPU n/a | Mem n/a"))
}

func TestLayout_DisksAndNetwork(t *testing.T) {
	s := fourCoresAtQuarter()
	s.Disks = append(s.Disks, snapshot.NewMount("/var/lib/containers/storage/overlay", "xfs", 100, 25))
	temp := 54.0
	s.CPUTemp = &temp
	s.Load = snapshot.LoadAverage{One: 0.5, Five: 0.25, Fifteen: 1}
	s.Missing = 0

	page := Layout(s, 90, 30, DefaultTheme(), "1")

	root := findLine(t, page, "/:")
	assert.True(t, strings.HasSuffix(root.String(), " 50.0%"))

	long := findLine(t, page, "/var/lib/")
	assert.Equal(t, 30, Width(long[0].Text)-1, "long mount label is capped at a third of the width")
	assert.Contains(t, long[0].Text, "…")
	assert.Equal(t, 90, Width(long.String()))

	findLine(t, page, "Load: 0.50 0.25 1.00   Temp: 54.0°C")
	findLine(t, page, "Network:")
	eth := findLine(t, page, "eth0")
	assert.Contains(t, eth.String(), "rx 2.0 KiB")
	assert.Contains(t, eth.String(), "tx 1.0 KiB")
	assert.Contains(t, eth.String(), "10.0.0.2/24")
}

func TestLayout_BeforeFirstSample(t *testing.T) {
	page := Layout(nil, 40, 6, DefaultTheme(), "1")
	assert.Equal(t, "Sampling...", page.Lines[bodyTop].String())
	assert.True(t, strings.HasPrefix(page.Footer, "Waiting for first sample"))
}
