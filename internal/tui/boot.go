package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/config"
)

const bootFrame = 50 * time.Millisecond

const (
	bootForeground = "#e5e7eb"
	bootAccent     = "#a78bfa"
	bootBackground = "#000000"
)

// bootTickMsg advances the boot splash.
type bootTickMsg time.Time

type bootPhase int

const (
	bootRunning bootPhase = iota
	bootFading
	bootDone
)

// bootScreen is the splash shown before the desktop: a message sequence, a
// progress bar and a short fade-out.
type bootScreen struct {
	osName   string
	messages []string
	duration time.Duration
	fadeDur  time.Duration

	start   time.Time
	elapsed time.Duration
	phase   bootPhase

	spinner  spinner.Model
	progress progress.Model
}

func newBootScreen(osName string, cfg config.BootConfig) bootScreen {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(bootAccent))

	b := bootScreen{
		osName:   osName,
		messages: cfg.Messages,
		duration: time.Duration(cfg.DurationMs) * time.Millisecond,
		fadeDur:  time.Duration(cfg.FadeMs) * time.Millisecond,
		spinner:  sp,
		progress: progress.New(
			progress.WithScaledGradient("#6d28d9", bootAccent),
			progress.WithoutPercentage(),
		),
	}
	if cfg.Skip {
		b.phase = bootDone
	}
	return b
}

func (b bootScreen) Done() bool { return b.phase == bootDone }

func bootTick() tea.Cmd {
	return tea.Tick(bootFrame, func(t time.Time) tea.Msg {
		return bootTickMsg(t)
	})
}

func (b bootScreen) Init() tea.Cmd {
	if b.Done() {
		return nil
	}
	return tea.Batch(bootTick(), b.spinner.Tick)
}

// Skip jumps straight to the fade.
func (b bootScreen) Skip() bootScreen {
	if b.phase == bootRunning {
		b.elapsed = b.duration
		b.phase = bootFading
		if b.fadeDur <= 0 {
			b.phase = bootDone
		}
		b.start = time.Time{}
	}
	return b
}

func (b bootScreen) Update(msg tea.Msg) (bootScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case bootTickMsg:
		if b.Done() {
			return b, nil
		}
		now := time.Time(msg)
		if b.start.IsZero() {
			b.start = now.Add(-b.elapsed)
		}
		b.elapsed = now.Sub(b.start)
		switch {
		case b.elapsed >= b.duration+b.fadeDur:
			b.phase = bootDone
			return b, nil
		case b.elapsed >= b.duration:
			b.phase = bootFading
		}
		return b, bootTick()

	case spinner.TickMsg:
		if b.Done() {
			return b, nil
		}
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}
	return b, nil
}

// message returns the boot message for the current progress.
func (b bootScreen) message() string {
	if len(b.messages) == 0 {
		return ""
	}
	i := int(b.percent() * float64(len(b.messages)))
	if i >= len(b.messages) {
		i = len(b.messages) - 1
	}
	return b.messages[i]
}

func (b bootScreen) percent() float64 {
	if b.duration <= 0 {
		return 1
	}
	return min(float64(b.elapsed)/float64(b.duration), 1)
}

// fadeAmount is 0 while booting and rises to 1 across the fade.
func (b bootScreen) fadeAmount() float64 {
	if b.phase != bootFading || b.fadeDur <= 0 {
		if b.phase == bootDone {
			return 1
		}
		return 0
	}
	return min(float64(b.elapsed-b.duration)/float64(b.fadeDur), 1)
}

func (b bootScreen) View(width, height int) string {
	t := b.fadeAmount()
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(fade(bootAccent, bootBackground, t)).
		Render(b.osName)
	msg := lipgloss.NewStyle().
		Foreground(fade(bootForeground, bootBackground, t)).
		Render(b.message())

	barWidth := min(max(width/2, 10), 50)
	b.progress.Width = barWidth
	bar := b.progress.ViewAs(b.percent())
	if t > 0 {
		bar = lipgloss.NewStyle().
			Foreground(fade(bootAccent, bootBackground, t)).
			Render(strings.Repeat("━", barWidth))
	}

	block := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		b.spinner.View()+" "+msg,
		"",
		bar,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(bootBackground)))
}
