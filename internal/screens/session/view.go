package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/games"
	sess "github.com/cglprep/blitz/internal/session"
	"github.com/cglprep/blitz/internal/ui/components"
	"github.com/cglprep/blitz/internal/ui/theme"
)

func difficultyLabel(p games.Profile) string {
	return fmt.Sprintf("%-9s %2ds/question  ×%g", p.Label, p.TimePerQuestion, p.ScoreMultiplier)
}

func (s *SessionScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var content string
	switch {
	case s.failed != nil:
		content = renderFailure(s.failed, cw)
	case s.state.Phase == sess.PhaseDifficultySelect:
		content = s.renderDifficulty(cw)
	case s.state.Phase == sess.PhaseExitConfirm:
		content = renderExitConfirm(s.state, cw)
	case s.state.Phase == sess.PhaseGameOver:
		content = s.renderResult(cw)
	case s.state.Phase == sess.PhasePlaying, s.state.Phase == sess.PhaseAnswered:
		content = s.renderQuestion(cw)
	}
	return components.CabinetFrame(content, components.CategoryColor(s.game.Category.Upper()), width, height)
}

func (s *SessionScreen) renderDifficulty(cw int) string {
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(s.game.Name)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Align(lipgloss.Center).
		Render(s.game.Description)
	tag := components.CategoryTag(s.game.Category.Upper())
	prompt := lipgloss.NewStyle().Foreground(theme.Text).Render("Choose your level")

	return lipgloss.JoinVertical(lipgloss.Center,
		title, tag, "", desc, "", prompt, "", s.menu.View(cw))
}

func (s *SessionScreen) renderQuestion(cw int) string {
	st := s.state

	streak := ""
	if st.Streak > 1 {
		streak = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("  ×%d streak", st.Streak))
	}
	info := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d", st.QuestionNumber, st.Total))
	score := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("%d pts", st.Score))
	gap := cw - lipgloss.Width(info) - lipgloss.Width(score) - lipgloss.Width(streak)
	top := info + strings.Repeat(" ", max(gap, 1)) + score + streak

	bar := components.NewCountdown(st.Remaining, st.Profile.TimePerQuestion, cw).View()

	prompt := lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Padding(1, 0).
		Render(st.Question.Prompt)

	mc := components.NewMultiChoice(st.Question.Options, st.Question.CorrectIndex)
	if st.Phase == sess.PhaseAnswered && st.Last != nil {
		mc = mc.Reveal(st.Last.Index)
	}

	parts := []string{top, bar, prompt, mc.View(cw - 2)}
	if st.Phase == sess.PhaseAnswered && st.Last != nil {
		parts = append(parts, "", renderFeedback(*st.Last, st.Question))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderFeedback(last sess.AnswerResult, q games.Question) string {
	switch {
	case last.Correct:
		return theme.Correct.Render(fmt.Sprintf("Correct! +%d", last.Points))
	case last.TimedOut:
		return theme.Incorrect.Render("Time's up! ") +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answer: "+q.Answer())
	default:
		return theme.Incorrect.Render("Wrong. ") +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answer: "+q.Answer())
	}
}

// streakWarning is the answer streak above which quitting gets a nudge.
const streakWarning = 2

func renderExitConfirm(st sess.State, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	warning := dim.Render("Progress in this game will be lost.")
	if st.Streak > streakWarning {
		warning = dim.Render("You're on a ") +
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d-streak", st.Streak)) +
			dim.Render("!") + "\n" + dim.Render("Walking away now breaks your rhythm.")
	}
	msg := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("Quit this game?"),
		"",
		dim.Render(fmt.Sprintf("You are on question %d of %d with %d points.", st.QuestionNumber, st.Total, st.Score)),
		warning,
		"",
		components.NewButton("Y", "Quit", false).View()+"   "+components.NewButton("N", "Keep playing", true).View(),
	)
	return components.ArcadeCard(msg, cw)
}

func (s *SessionScreen) renderResult(cw int) string {
	st := s.state

	headline := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(st.Title())
	final := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%d", st.FinalScore))
	breakdown := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d raw × %g (%s)", st.Score, st.Profile.ScoreMultiplier, st.Profile.Label))
	metrics := lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("Correct %d/%d   Accuracy %.0f%%   Time %ds",
			st.Correct, st.Total, st.Accuracy()*100, st.TimeTaken))

	var status string
	switch {
	case s.saving:
		status = theme.Hint.Render("Saving score...")
	case s.saveErr != nil:
		status = lipgloss.NewStyle().Foreground(theme.Error).Render("Score not saved: " + s.saveErr.Error())
	case s.saved != nil && s.saved.IsNewBest:
		status = theme.Correct.Render("★ New personal best!")
	case s.saved != nil:
		status = lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("Personal best: %d", s.saved.BestScore))
	}

	card := components.ArcadeCard(lipgloss.JoinVertical(lipgloss.Center,
		headline, "", final, breakdown, "", metrics, status), cw)
	buttons := components.NewButton("R", "Play again", true).View() + "   " +
		components.NewButton("Esc", "Home", false).View()
	return lipgloss.JoinVertical(lipgloss.Center, card, "", buttons)
}

func renderFailure(err error, cw int) string {
	return components.ArcadeCard(lipgloss.JoinVertical(lipgloss.Center,
		theme.Incorrect.Render("This game could not continue"),
		"",
		lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw-6).Render(err.Error()),
	), cw)
}
