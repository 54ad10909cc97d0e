package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
)

var (
	countStyle  = lipgloss.NewStyle().Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
)

// progressBar renders generation progress on a single terminal line.
// It stays silent when the writer is not a terminal.
type progressBar struct {
	out     io.Writer
	bar     progress.Model
	enabled bool
	failed  int
}

func newProgressBar(w io.Writer) *progressBar {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &progressBar{
		out:     w,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		enabled: enabled,
	}
}

// Update redraws the bar. It is used as a driving.ProgressFunc.
func (p *progressBar) Update(pr driving.Progress) {
	if pr.Last.Status == domain.IdentityFailed {
		p.failed++
	}
	if !p.enabled {
		return
	}

	line := p.bar.ViewAs(pr.Fraction()) + " " + countStyle.Render(fmt.Sprintf("%d/%d", pr.Done, pr.Total))
	if p.failed > 0 {
		line += " " + failedStyle.Render(fmt.Sprintf("(%d failed)", p.failed))
	}
	fmt.Fprintf(p.out, "\r%s", line)
}

// Done ends the progress line.
func (p *progressBar) Done() {
	if p.enabled {
		fmt.Fprintln(p.out)
	}
}
