package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/guardrail-ai/guardrail/cmd/guardrail/internal"
	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/monitor"
	"github.com/guardrail-ai/guardrail/internal/review"
)

var reviewInput string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review flagged payloads interactively",
	Long: `Evaluate payloads from a file (or stdin) and open an interactive queue
of the flagged items. Each pending item can be approved or rejected;
resolved items stay in the queue as a record.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewInput, "input", "i", "-", "File of payloads to evaluate, one per line ('-' for stdin)")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog.Load()
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to load pattern catalog", err)
	}
	m, err := monitor.New(cat, cfg.Gate, monitor.WithWeights(cfg.Weights))
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "invalid thresholds", err)
	}

	lines, err := readPayloadLines(reviewInput)
	if err != nil {
		return internal.WrapError(internal.ExitError, "failed to read payloads", err)
	}

	ctx := cmd.Context()
	for _, line := range lines {
		m.Evaluate(ctx, monitor.StagePrompt, line)
	}

	pending := m.PendingReviews()
	if len(pending) == 0 {
		cmd.Printf("Evaluated %d payload(s); nothing was flagged for review.\n", len(lines))
		return nil
	}

	model := newReviewModel(m, pending)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return internal.WrapError(internal.ExitError, "review session failed", err)
	}

	if rm, ok := final.(reviewModel); ok {
		cmd.Printf("Review session: %d approved, %d rejected, %d left pending.\n",
			rm.approved, rm.rejected, len(m.PendingReviews()))
	}
	return nil
}

func readPayloadLines(path string) ([]string, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

var (
	reviewTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	reviewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	reviewPendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	reviewApprovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reviewRejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	reviewDetailStyle   = lipgloss.NewStyle().Faint(true)
	reviewHelpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

type reviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Approve key.Binding
	Reject  key.Binding
	Quit    key.Binding
}

func defaultReviewKeys() reviewKeyMap {
	return reviewKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Approve: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		Reject:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reject")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// reviewModel is the interactive disposition screen over a monitor's review
// queue. It mutates the queue through Resolve only, so queue invariants hold
// regardless of key order.
type reviewModel struct {
	monitor *monitor.Monitor
	items   []review.Item
	keys    reviewKeyMap
	cursor  int

	approved int
	rejected int
	status   string
}

func newReviewModel(m *monitor.Monitor, pending []review.Item) reviewModel {
	return reviewModel{monitor: m, items: pending, keys: defaultReviewKeys()}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Approve):
		m.resolve(review.OutcomeApproved)
	case key.Matches(keyMsg, m.keys.Reject):
		m.resolve(review.OutcomeRejected)
	}

	if m.remainingPending() == 0 {
		return m, tea.Quit
	}
	return m, nil
}

func (m *reviewModel) resolve(outcome review.Outcome) {
	if m.cursor >= len(m.items) {
		return
	}
	item := m.items[m.cursor]
	resolved, err := m.monitor.ResolveReview(item.ID, outcome)
	if err != nil {
		m.status = err.Error()
		return
	}

	m.items[m.cursor] = resolved
	switch outcome {
	case review.OutcomeApproved:
		m.approved++
		m.status = fmt.Sprintf("approved %s", item.ID)
	case review.OutcomeRejected:
		m.rejected++
		m.status = fmt.Sprintf("rejected %s", item.ID)
	}
	m.advance()
}

// advance moves the cursor to the next still-pending item, if any.
func (m *reviewModel) advance() {
	for i := m.cursor + 1; i < len(m.items); i++ {
		if m.items[i].Status == review.StatusPending {
			m.cursor = i
			return
		}
	}
	for i := 0; i < len(m.items); i++ {
		if m.items[i].Status == review.StatusPending {
			m.cursor = i
			return
		}
	}
}

func (m reviewModel) remainingPending() int {
	n := 0
	for _, item := range m.items {
		if item.Status == review.StatusPending {
			n++
		}
	}
	return n
}

func (m reviewModel) View() string {
	var b strings.Builder

	b.WriteString(reviewTitleStyle.Render(fmt.Sprintf("Review Queue — %d pending", m.remainingPending())))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("[%3d %s] %s", item.Event.Score, item.Event.Level, item.Event.Text)

		var style lipgloss.Style
		switch item.Status {
		case review.StatusApproved:
			style = reviewApprovedStyle
			line = "✓ " + line
		case review.StatusRejected:
			style = reviewRejectedStyle
			line = "✗ " + line
		default:
			style = reviewPendingStyle
			line = "• " + line
		}
		if i == m.cursor {
			style = reviewSelectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if i == m.cursor {
			for _, t := range item.Event.Threats {
				b.WriteString(reviewDetailStyle.Render(
					fmt.Sprintf("    %s %s %s: %s", t.ID, t.Severity, t.Category, t.Description)))
				b.WriteString("\n")
			}
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(reviewDetailStyle.Render(m.status))
	}
	b.WriteString("\n")
	help := fmt.Sprintf("%s %s · %s %s · %s/%s move · %s %s",
		m.keys.Approve.Help().Key, m.keys.Approve.Help().Desc,
		m.keys.Reject.Help().Key, m.keys.Reject.Help().Desc,
		m.keys.Down.Help().Key, m.keys.Up.Help().Key,
		m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc)
	b.WriteString(reviewHelpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}
