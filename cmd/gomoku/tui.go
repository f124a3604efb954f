package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
	"github.com/Nagi-ovo/alphazero-gomoku/selfplay"
	"github.com/Nagi-ovo/alphazero-gomoku/train"
)

type runDoneMsg struct{ err error }

type model struct {
	gamesPlayed   int
	totalExamples int
	startTime     time.Time
	recentGames   []string
	updates       chan selfplay.EpisodeUpdate
	done          chan runDoneMsg

	finished bool
	err      error
}

func initialModel(updates chan selfplay.EpisodeUpdate, done chan runDoneMsg) model {
	return model{
		startTime: time.Now(),
		updates:   updates,
		done:      done,
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), waitForDone(m.done), tickCmd())
}

func waitForUpdate(updates chan selfplay.EpisodeUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func waitForDone(done chan runDoneMsg) tea.Cmd {
	return func() tea.Msg {
		return <-done
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		return m, tickCmd()
	case selfplay.EpisodeUpdate:
		m.gamesPlayed++
		m.totalExamples += msg.Examples
		winner := "draw"
		if msg.Result.Winner != game.Empty {
			winner = msg.Result.Winner.String()
		}
		logMsg := fmt.Sprintf("worker %d: winner %s, plies %d, ex %d",
			msg.Worker, winner, msg.Result.Plies, msg.Examples)
		m.recentGames = append([]string{logMsg}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	case runDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := float64(m.gamesPlayed) / duration.Seconds()
	if duration.Seconds() < 1 {
		gamesPerSec = 0
	}

	s := fmt.Sprintf("Games Played:   %d\n", m.gamesPlayed)
	s += fmt.Sprintf("Total Examples: %d\n", m.totalExamples)
	s += fmt.Sprintf("Duration:       %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Games/Sec:      %.2f\n\n", gamesPerSec)

	s += "Recent Games:\n"
	for _, g := range m.recentGames {
		s += g + "\n"
	}

	if m.finished {
		s += "\nTraining finished.\n"
	} else {
		s += "\nPress q to quit.\n"
	}
	return s
}

// runTrainTUI drives the pipeline in the background while bubbletea owns
// the terminal. Quitting the TUI does not stop training mid-iteration; it
// just detaches the display.
func runTrainTUI(pipeline *train.Pipeline) error {
	updates := make(chan selfplay.EpisodeUpdate, 64)
	done := make(chan runDoneMsg, 1)

	pipeline.OnEpisode = func(u selfplay.EpisodeUpdate) {
		select {
		case updates <- u:
		default:
		}
	}

	go func() {
		done <- runDoneMsg{err: pipeline.Run()}
	}()

	p := tea.NewProgram(initialModel(updates, done), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
