package ui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/abelbrown/shopper/internal/render"
)

const (
	frameRate     = 60
	settleEpsilon = 0.002
)

// scoreAnimation springs each card's score bar from 0 to its final value.
type scoreAnimation struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	target []float64
	gen    int
	active bool
}

func newScoreAnimation() scoreAnimation {
	return scoreAnimation{spring: harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 0.8)}
}

// Start resets every bar to 0 and returns the first frame command.
func (s *scoreAnimation) Start(cards []render.Card) tea.Cmd {
	s.gen++
	s.pos = make([]float64, len(cards))
	s.vel = make([]float64, len(cards))
	s.target = make([]float64, len(cards))
	for i, c := range cards {
		s.target[i] = float64(c.Score) / 100
	}
	s.active = len(cards) > 0
	if !s.active {
		return nil
	}
	return nextFrame(s.gen)
}

// Step advances one frame. It reports true once every bar has settled, at
// which point positions snap to their targets.
func (s *scoreAnimation) Step() bool {
	if !s.active {
		return true
	}
	settled := true
	for i := range s.pos {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], s.target[i])
		if math.Abs(s.pos[i]-s.target[i]) > settleEpsilon || math.Abs(s.vel[i]) > settleEpsilon {
			settled = false
		}
	}
	if settled {
		copy(s.pos, s.target)
		s.active = false
	}
	return settled
}

// Percents returns the current bar fractions, one per card.
func (s scoreAnimation) Percents() []float64 {
	return s.pos
}

func nextFrame(gen int) tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}
