// Package review provides the interactive TUI for browsing persisted matches.
package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobscout/jobscout/internal/model"
)

// Matches scoring at or above this land in the right-hand pane.
const topScoreCutoff = 7

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

type reviewModel struct {
	allJobs       []model.JobRecord
	topJobs       []model.JobRecord
	leftViewport  viewport.Model
	rightViewport viewport.Model
	activePane    int // 0=left, 1=right
	leftCursor    int
	rightCursor   int
	width         int
	height        int
	ready         bool

	// Detail view state
	view            viewState
	detailJob       model.JobRecord
	detailViewport  viewport.Model
	showDescription bool
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.detailJob.URL)
		return m, nil
	case "r":
		if m.detailJob.Description != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.allJobs)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.topJobs)-1, 0))
	}
}

func (m *reviewModel) ensureCursorVisible() {
	var vp *viewport.Model
	var cursor int
	if m.activePane == 0 {
		vp = &m.leftViewport
		cursor = m.leftCursor
	} else {
		vp = &m.rightViewport
		cursor = m.rightCursor
	}

	cursorTop := cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m reviewModel) openDetailView() (tea.Model, tea.Cmd) {
	jobs := m.activeJobs()
	cursor := m.activeCursor()
	if len(jobs) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailJob = jobs[cursor]
	m.showDescription = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *reviewModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	m.leftViewport.SetContent(renderJobs(m.allJobs, m.leftCursor, m.activePane == 0))
	m.rightViewport.SetContent(renderJobs(m.topJobs, m.rightCursor, m.activePane == 1))
}

func (m reviewModel) activeJobs() []model.JobRecord {
	if m.activePane == 0 {
		return m.allJobs
	}
	return m.topJobs
}

func (m reviewModel) activeCursor() int {
	if m.activePane == 0 {
		return m.leftCursor
	}
	return m.rightCursor
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m reviewModel) viewList() string {
	paneWidth := m.leftViewport.Width

	// Headers.
	leftHeader := fmt.Sprintf(" All Matches (%d)", len(m.allJobs))
	rightHeader := fmt.Sprintf(" Top Matches ≥%d (%d)", topScoreCutoff, len(m.topJobs))

	var leftHeaderRendered, rightHeaderRendered string
	var leftBorder, rightBorder lipgloss.Style

	if m.activePane == 0 {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		rightHeaderRendered = inactiveHeaderStyle.Render(rightHeader)
		leftBorder = activeBorderStyle.Width(paneWidth)
		rightBorder = inactiveBorderStyle.Width(paneWidth)
	} else {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	// Panes with borders.
	leftPane := leftBorder.Render(m.leftViewport.View())
	rightPane := rightBorder.Render(m.rightViewport.View())

	// Headers side by side.
	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)

	// Panes side by side.
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	// Status bar.
	statusText := fmt.Sprintf(" %d matches | %d top    ←/→/Tab switch  ↑/↓ cursor  Enter detail  q quit",
		len(m.allJobs), len(m.topJobs))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m reviewModel) viewDetail() string {
	title := detailTitleStyle.Render("Match Details")

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if m.detailJob.Description != "" {
		statusText = " o open URL  r desc  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m reviewModel) renderDetail() string {
	j := m.detailJob
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Salary", j.Salary)
	addField("Posted", j.DatePosted)
	addField("Source", j.Source)

	b.WriteByte('\n')
	addField("Job URL", j.URL)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return descDividerStyle.Render(label + fill)
	}

	if a := j.Annotation; a != nil {
		b.WriteByte('\n')
		b.WriteString(divider("── AI Analysis ") + "\n\n")
		addField("Overall", fmt.Sprintf("%d/10", a.OverallScore))
		addField("Experience", fmt.Sprintf("%d/10", a.ExperienceMatchScore))
		addField("Interest", fmt.Sprintf("%d/10", a.InterestMatchScore))
		addField("Interview", fmt.Sprintf("%d/10", a.InterviewProbability))
		if a.Summary != "" {
			b.WriteByte('\n')
			b.WriteString(descBodyStyle.Render(wordWrap(a.Summary, wrapWidth)) + "\n")
		}
		for _, reason := range a.MatchReasons {
			if reason != "" {
				b.WriteString(detailValueStyle.Render("  • "+reason) + "\n")
			}
		}
	} else if j.AnalysisError != "" {
		b.WriteByte('\n')
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("⚠ analysis failed: "+j.AnalysisError) + "\n")
	}

	if len(j.MatchReasons) > 0 {
		b.WriteByte('\n')
		b.WriteString(divider("── Keyword Matches ") + "\n\n")
		for _, reason := range j.MatchReasons {
			b.WriteString(detailValueStyle.Render("  • "+reason) + "\n")
		}
	}

	if j.Description != "" {
		b.WriteByte('\n')
		if m.showDescription {
			b.WriteString(divider("── Job Description ") + "\n\n")
			b.WriteString(descBodyStyle.Render(wordWrap(j.Description, wrapWidth)) + "\n")
		} else {
			b.WriteString(descHintStyle.Render("  press r to read job description") + "\n")
		}
	}

	return b.String()
}

func renderJobs(jobs []model.JobRecord, cursor int, isActive bool) string {
	if len(jobs) == 0 {
		return "  (no matches)"
	}

	var b strings.Builder
	for i, j := range jobs {
		isSelected := isActive && i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		score := "unscored"
		if j.Annotation != nil {
			score = fmt.Sprintf("%d/10", j.Annotation.OverallScore)
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", j.Company, j.Location, score)))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// sortByScore orders matches best-first, breaking score ties by title.
func sortByScore(jobs []model.JobRecord) {
	sort.SliceStable(jobs, func(i, j int) bool {
		si, sj := jobs[i].OverallScore(), jobs[j].OverallScore()
		if si != sj {
			return si > sj
		}
		return jobs[i].Title < jobs[j].Title
	})
}

func topMatches(jobs []model.JobRecord) []model.JobRecord {
	var top []model.JobRecord
	for _, j := range jobs {
		if j.OverallScore() >= topScoreCutoff {
			top = append(top, j)
		}
	}
	return top
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunReviewTUI launches the interactive split-pane match browser over the
// persisted matches. Entries are shown best-first.
func RunReviewTUI(matches []model.JobRecord) error {
	sortByScore(matches)

	m := reviewModel{
		allJobs: matches,
		topJobs: topMatches(matches),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
