package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/musicbridge/internal/domain"
	"go.uber.org/zap"
)

// Surface forwards snapshots and command output to a running program.
// It is a live surface and also presents command output.
type Surface struct {
	logger *zap.Logger

	mu      sync.Mutex
	program *tea.Program
}

// NewSurface creates a terminal surface
func NewSurface(logger *zap.Logger) *Surface {
	return &Surface{logger: logger}
}

// Attach connects the surface to the program that displays it
func (s *Surface) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

// Name implements domain.Surface
func (s *Surface) Name() string { return "terminal" }

// Render implements domain.Surface
func (s *Surface) Render(snapshot domain.PlayerSnapshot) {
	s.send(snapshotMsg(snapshot))
}

// ShowWarning implements commands.Presenter
func (s *Surface) ShowWarning(message string) {
	s.send(noticeMsg(message))
}

// ShowDocument implements commands.Presenter
func (s *Surface) ShowDocument(title, html string) {
	s.send(noticeMsg(documentText(title, html)))
}

func (s *Surface) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()

	if p == nil {
		s.logger.Debug("Terminal not attached, dropping message")
		return
	}
	p.Send(msg)
}
