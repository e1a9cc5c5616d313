package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/feedback/pkg/feedback"
)

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive playground for the feedback lifecycle",
		Long: `Run an interactive terminal playground.

Spawn toasts, banners, and progress items with single keystrokes and
watch them move through the lifecycle in real time: entering, visible,
auto-dismiss, exiting. Visibility caps and queue admission behave
exactly as they do in the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

func runDemo() error {
	cfg := feedback.DefaultConfig()
	cfg.DefaultDuration = 4 * time.Second
	cfg.MaxVisible[feedback.TypeToast] = 4
	cfg.Queue = &feedback.QueueConfig{MaxSize: 8, Strategy: feedback.StrategyPriority}

	mgr := feedback.NewManager(cfg)
	defer mgr.Close()

	m := newDemoModel(mgr)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Forward lifecycle events into the Bubble Tea loop so the view
	// refreshes without polling. The forwarder coalesces bursts and
	// keeps Send off the update goroutine: key-triggered Adds emit
	// events synchronously from inside Update, and a synchronous Send
	// there would deadlock.
	fwd := newRefreshForwarder()
	var unsubs []func()
	for _, ev := range feedback.Events {
		unsubs = append(unsubs, mgr.On(ev, fwd.notify))
	}
	go fwd.run(p.Send)
	defer func() {
		fwd.stop()
		for _, off := range unsubs {
			off()
		}
	}()

	_, err := p.Run()
	return err
}

type lifecycleMsg struct{}

// refreshForwarder squeezes any burst of bus events into at most one
// pending refresh message, delivered by a single goroutine so the program
// never sees unordered or unbounded fan-out.
type refreshForwarder struct {
	signal chan struct{}
	done   chan struct{}
}

func newRefreshForwarder() *refreshForwarder {
	return &refreshForwarder{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// notify marks a refresh as pending. Never blocks: if one is already
// pending the event coalesces into it.
func (f *refreshForwarder) notify(any) {
	select {
	case f.signal <- struct{}{}:
	default:
	}
}

// run delivers one lifecycleMsg per pending refresh until stop.
func (f *refreshForwarder) run(send func(tea.Msg)) {
	for {
		select {
		case <-f.signal:
			send(lifecycleMsg{})
		case <-f.done:
			return
		}
	}
}

func (f *refreshForwarder) stop() {
	close(f.done)
}

type progressTickMsg struct{ id string }

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	exitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)

	variantStyles = map[feedback.Variant]lipgloss.Style{
		feedback.VariantSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		feedback.VariantError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		feedback.VariantWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		feedback.VariantInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
)

type demoModel struct {
	mgr     *feedback.Manager
	bar     progress.Model
	counter int
	width   int
}

func newDemoModel(mgr *feedback.Manager) *demoModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	return &demoModel{mgr: mgr, bar: bar}
}

func (m *demoModel) Init() tea.Cmd {
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case lifecycleMsg:
		// State already changed in the manager; re-render.

	case progressTickMsg:
		return m, m.advanceProgress(msg.id)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "t":
			m.counter++
			m.mgr.Add(feedback.TypeToast, feedback.Options{
				Message: fmt.Sprintf("saved draft #%d", m.counter),
				Variant: feedback.VariantSuccess,
			})
		case "w":
			m.counter++
			m.mgr.Add(feedback.TypeToast, feedback.Options{
				Message: fmt.Sprintf("disk almost full (#%d)", m.counter),
				Variant: feedback.VariantWarning,
			})
		case "e":
			m.counter++
			m.mgr.Add(feedback.TypeToast, feedback.Options{
				Message: fmt.Sprintf("sync failed (#%d)", m.counter),
				Variant: feedback.VariantError,
			})
		case "b":
			sticky := time.Duration(0)
			m.mgr.Add(feedback.TypeBanner, feedback.Options{
				Message:  "maintenance window at 02:00 UTC",
				Variant:  feedback.VariantInfo,
				Duration: &sticky,
			})
		case "p":
			sticky := time.Duration(0)
			id := m.mgr.Add(feedback.TypeProgress, feedback.Options{
				Message:  "uploading",
				Duration: &sticky,
				Extra:    map[string]any{"percent": 0.0},
			})
			if id != "" {
				return m, tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
					return progressTickMsg{id: id}
				})
			}
		case "r":
			if items := m.items(); len(items) > 0 {
				m.mgr.Remove(items[0].ID)
			}
		case "c":
			m.mgr.RemoveAll(feedback.TypeToast)
		}
	}

	return m, nil
}

// advanceProgress bumps the percent on a progress item and reschedules
// itself until the item completes or disappears.
func (m *demoModel) advanceProgress(id string) tea.Cmd {
	item := m.mgr.Get(id)
	if item == nil {
		return nil
	}
	pct, _ := item.Options.Extra["percent"].(float64)
	pct += 4
	if pct >= 100 {
		m.mgr.Remove(id)
		return nil
	}
	m.mgr.Update(id, feedback.Options{Extra: map[string]any{"percent": pct}})
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{id: id}
	})
}

func (m *demoModel) items() []*feedback.Item {
	return m.mgr.Store().List()
}

func (m *demoModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("feedbackd playground"))
	b.WriteString("\n\n")

	items := m.items()
	if len(items) == 0 {
		b.WriteString(helpStyle.Render("nothing on screen — press a key below to spawn something"))
		b.WriteString("\n")
	}

	byType := make(map[feedback.Type][]*feedback.Item)
	for _, it := range items {
		byType[it.Type] = append(byType[it.Type], it)
	}

	for _, t := range []feedback.Type{feedback.TypeBanner, feedback.TypeToast, feedback.TypeProgress} {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		b.WriteString(sectionStyle.Render(string(t)))
		b.WriteString("\n")
		for _, it := range group {
			b.WriteString("  ")
			b.WriteString(m.renderItem(it))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(
		"t toast · w warning · e error · b banner · p progress · r remove oldest · c clear toasts · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *demoModel) renderItem(it *feedback.Item) string {
	line := fmt.Sprintf("[%s] %s", it.Status, it.Options.Message)

	if it.Type == feedback.TypeProgress {
		pct, _ := it.Options.Extra["percent"].(float64)
		line = fmt.Sprintf("%s %s", line, m.bar.ViewAs(pct/100))
	}

	switch it.Status {
	case feedback.StatusPending, feedback.StatusEntering:
		return pendingStyle.Render(line)
	case feedback.StatusExiting:
		return exitingStyle.Render(line)
	}
	if style, ok := variantStyles[it.Options.Variant]; ok {
		return style.Render(line)
	}
	return line
}
