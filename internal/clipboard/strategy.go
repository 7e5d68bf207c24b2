package clipboard

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// ErrUnsupported reports that a strategy cannot run in this environment.
var ErrUnsupported = errors.New("clipboard strategy unsupported")

// Strategy is one way of placing text on the clipboard.
type Strategy interface {
	Name() string
	Write(ctx context.Context, text string) error
}

// System writes through the OS clipboard utilities (pbcopy, xclip, wl-copy, ...).
type System struct{}

func (System) Name() string { return "system" }

func (System) Write(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// OSC52 asks the terminal emulator to set the clipboard with an escape sequence.
// It works over SSH and inside tmux or screen when the terminal allows it.
type OSC52 struct {
	Out io.Writer
}

func (OSC52) Name() string { return "osc52" }

func (s OSC52) Write(ctx context.Context, text string) error {
	out := s.Out
	if out == nil {
		out = os.Stderr
	}
	if f, ok := out.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return ErrUnsupported
	}

	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(out)
	return err
}
