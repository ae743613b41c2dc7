// Package tui is the terminal front end of seqplay. The view polls the
// player ten times a second and draws the last buffer.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-seq/engine"
	"github.com/cwbudde/algo-seq/internal/debug"
	"github.com/cwbudde/algo-seq/scope"
)

// RefreshInterval is how often the display polls the player.
const RefreshInterval = 100 * time.Millisecond

const (
	defaultWidth = 64
	waveRows     = 9
	meterWidth   = 30
	spectrumDBLo = -90.0
)

var bars = []rune("▁▂▃▄▅▆▇█")

// Player is the transport the model drives. output.Guard implements it.
type Player interface {
	Play() error
	TogglePause()
	Stop() error
	LastBuffer() ([]float32, bool)
	Position() engine.Position
	Playing() bool
	Paused() bool
	Err() error
	SampleRate() float64
}

type tickMsg time.Time

type Model struct {
	player   Player
	analyzer *scope.Analyzer
	title    string

	width    int
	wave     []float32
	spectrum []float64
	level    scope.Level
	pos      engine.Position
	status   string
	quitting bool
}

// NewModel returns a model for p. analyzer may be nil to hide the spectrum.
func NewModel(p Player, analyzer *scope.Analyzer, title string) Model {
	return Model{
		player:   p,
		analyzer: analyzer,
		title:    title,
		width:    defaultWidth,
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if err := m.player.Stop(); err != nil {
				debug.Log("tui", "stop on quit: %v", err)
			}
			return m, tea.Quit

		case " ", "space", "p":
			if m.player.Playing() {
				m.player.TogglePause()
				return m.refresh(), nil
			}
			if err := m.player.Play(); err != nil {
				m.status = err.Error()
				debug.Log("tui", "play: %v", err)
			} else {
				m.status = ""
			}

		case "s":
			if err := m.player.Stop(); err != nil {
				m.status = err.Error()
				debug.Log("tui", "stop: %v", err)
			}
		}
		return m.refresh(), nil

	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.width = msg.Width - 4
		}
		return m, nil

	case tickMsg:
		return m.refresh(), tick()
	}

	return m, nil
}

// refresh pulls a new snapshot from the player.
func (m Model) refresh() Model {
	m.pos = m.player.Position()
	if err := m.player.Err(); err != nil {
		m.status = err.Error()
	}

	buf, ok := m.player.LastBuffer()
	if !ok {
		m.wave = nil
		m.spectrum = nil
		m.level = scope.Level{}
		return m
	}
	m.wave = scope.Downsample(buf, m.width)
	m.level = scope.Measure(buf)
	if m.analyzer != nil {
		db, err := m.analyzer.Analyze(buf)
		if err != nil {
			debug.LogEvery(50, "tui", "analyze: %v", err)
			m.spectrum = nil
		} else {
			m.spectrum = append(m.spectrum[:0:0], db...)
		}
	}
	return m
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	waveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	state := "STOP"
	switch {
	case m.player.Paused():
		state = "PAUSE"
	case m.player.Playing():
		state = "PLAY"
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("%s  %s  beat:%7.2f  time:%6.2fs",
		m.title, state, m.pos.Beat, m.pos.Time)))
	out.WriteString("\n\n")

	for _, ch := range m.pos.Channels {
		fmt.Fprintf(&out, "ch%d %-8s slot:%d pat:%d note:%d  %7.2f Hz  %.2f\n",
			ch.Channel, ch.Oscillator, ch.Slot, ch.Pattern, ch.Note, ch.Frequency, ch.Intensity)
	}
	out.WriteString("\n")
	out.WriteString(waveStyle.Render(renderWave(m.wave, m.width, waveRows)))
	out.WriteString("\n")

	if len(m.spectrum) > 0 {
		out.WriteString(renderSpectrum(m.spectrum, m.width))
		out.WriteString("\n")
	}
	out.WriteString(renderMeter("L", m.level.PeakL, m.level.RMSL))
	out.WriteString("\n")
	out.WriteString(renderMeter("R", m.level.PeakR, m.level.RMSR))
	out.WriteString("\n\n")

	if m.status != "" {
		out.WriteString(errStyle.Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render("space/p:play-pause  s:stop  q:quit"))
	return out.String()
}

// renderWave plots points in [-1, 1] onto a rows-high character grid.
func renderWave(points []float32, width, rows int) string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	mid := rows / 2
	for c := 0; c < width; c++ {
		grid[mid][c] = '·'
	}
	for c, v := range points {
		if c >= width {
			break
		}
		r := mid - int(float32(mid)*v+copysignHalf(v))
		r = max(0, min(rows-1, r))
		grid[r][c] = '•'
	}
	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return strings.Join(lines, "\n")
}

func copysignHalf(v float32) float32 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}

// renderSpectrum folds the bins into width columns, keeping each column's
// loudest bin.
func renderSpectrum(db []float64, width int) string {
	if width <= 0 || len(db) == 0 {
		return ""
	}
	cols := min(width, len(db))
	var b strings.Builder
	for c := 0; c < cols; c++ {
		lo := c * len(db) / cols
		hi := max(lo+1, (c+1)*len(db)/cols)
		peak := scope.FloorDB
		for _, v := range db[lo:hi] {
			peak = max(peak, v)
		}
		b.WriteRune(bars[barIndex(peak)])
	}
	return b.String()
}

func barIndex(db float64) int {
	if db <= spectrumDBLo {
		return 0
	}
	idx := int((db - spectrumDBLo) / -spectrumDBLo * float64(len(bars)-1))
	return max(0, min(len(bars)-1, idx))
}

func renderMeter(label string, peak, rms float64) string {
	fill := int(rms * meterWidth)
	fill = max(0, min(meterWidth, fill))
	return fmt.Sprintf("%s [%s%s] peak %6.1f dB  rms %6.1f dB",
		label, strings.Repeat("█", fill), strings.Repeat(" ", meterWidth-fill),
		scope.DB(peak), scope.DB(rms))
}
