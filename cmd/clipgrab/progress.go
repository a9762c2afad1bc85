package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/service"
)

// progressRenderer draws download progress on a single terminal line.
// When w is not a terminal only warnings are printed.
type progressRenderer struct {
	w      io.Writer
	tty    bool
	bar    progress.Model
	dir    string
	warned bool
	drawn  bool
}

func newProgressRenderer(w io.Writer, dir string) *progressRenderer {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &progressRenderer{
		w:   w,
		tty: tty,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		dir: dir,
	}
}

func (p *progressRenderer) update(job domain.DownloadJob) {
	if expected, ok := job.BytesExpected.Get(); ok && !p.warned {
		p.warned = true
		if free := p.freeSpace(); free > 0 && expected > free {
			p.clear()
			fmt.Fprintln(p.w, styleWarn.Render(fmt.Sprintf("warning: file is %s but only %s is free",
				humanize.Bytes(uint64(expected)), humanize.Bytes(uint64(free)))))
		}
	}

	if !p.tty || job.Status == domain.JobStatusFailed {
		return
	}
	fmt.Fprint(p.w, "\r"+p.line(job)+"\x1b[K")
	p.drawn = true
}

func (p *progressRenderer) finish() {
	p.clear()
}

func (p *progressRenderer) clear() {
	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
}

// line renders one progress line. Downloads of unknown size show only the
// byte count.
func (p *progressRenderer) line(job domain.DownloadJob) string {
	received := humanize.Bytes(uint64(job.BytesReceived))
	pct, ok := job.Percent.Get()
	if !ok {
		return received + " received"
	}
	if expected, ok := job.BytesExpected.Get(); ok {
		received += " / " + humanize.Bytes(uint64(expected))
	}
	return fmt.Sprintf("%s %3d%%  %s", p.bar.ViewAs(float64(pct)/100), pct, received)
}

// freeSpace checks the download directory, or the working directory
// before the download directory exists.
func (p *progressRenderer) freeSpace() int64 {
	if free := service.FreeDiskSpace(p.dir); free > 0 {
		return free
	}
	return service.FreeDiskSpace(".")
}
