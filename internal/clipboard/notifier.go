package clipboard

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/opencode-ai/templage/internal/tui/styles"
)

// TerminalNotifier prints styled one-line toasts.
type TerminalNotifier struct {
	Out    io.Writer
	Styles styles.Styles
}

// NewTerminalNotifier writes toasts to stderr using s.
func NewTerminalNotifier(s styles.Styles) *TerminalNotifier {
	return &TerminalNotifier{Out: os.Stderr, Styles: s}
}

func (n *TerminalNotifier) Notify(level Level, message string) {
	style := n.Styles.ToastSuccess
	switch level {
	case LevelWarning:
		style = n.Styles.ToastWarning
	case LevelError:
		style = n.Styles.ToastError
	}
	fmt.Fprintln(n.Out, style.Render(message))
}

// Notice is one notification.
type Notice struct {
	Level   Level
	Message string
}

// Copied reports whether the notice announces a successful copy.
func (n Notice) Copied() bool {
	return n.Level != "" && n.Level != LevelError
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: message})
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Notices returns every recorded notice.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
