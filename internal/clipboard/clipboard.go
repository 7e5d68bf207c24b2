// Package clipboard copies generated text with layered fallbacks and reports
// the outcome through a Notifier.
package clipboard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/templage/internal/logging"
)

// Notification messages.
const (
	MessageCopied  = "Content copied!"
	MessageFailed  = "Unable to copy."
	MessageWarning = "Copied (no field changed since last copy from this section)."
)

// Level selects the notification style.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Hint customizes the success notification.
type Hint struct {
	Message string
	Level   Level
}

// WarningHint is the hint used for a repeated generation with unchanged input.
func WarningHint() *Hint {
	return &Hint{Message: MessageWarning, Level: LevelWarning}
}

// Notifier surfaces transient messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// Clipboard tries each strategy in turn until one succeeds.
type Clipboard struct {
	strategies []Strategy
	notifier   Notifier
	logger     zerolog.Logger
}

// New creates a Clipboard. With no strategies every copy fails.
func New(notifier Notifier, strategies ...Strategy) *Clipboard {
	return &Clipboard{
		strategies: strategies,
		notifier:   notifier,
		logger:     logging.Component("clipboard"),
	}
}

// Options selects the default strategy chain.
type Options struct {
	Enabled bool
	OSC52   bool
}

// NewDefault builds the system then OSC 52 chain.
func NewDefault(notifier Notifier, opts Options) *Clipboard {
	if !opts.Enabled {
		return New(notifier)
	}
	strategies := []Strategy{System{}}
	if opts.OSC52 {
		strategies = append(strategies, OSC52{})
	}
	return New(notifier, strategies...)
}

// Copy places the plain-text form of content on the clipboard and notifies
// the user. It never fails into the caller; it returns the notice it emitted,
// whose level is LevelError when every strategy failed.
func (c *Clipboard) Copy(ctx context.Context, content string, hint *Hint) Notice {
	text := PlainText(content)

	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := strategy.Write(ctx, text); err != nil {
			c.logger.Debug().Err(err).Str("strategy", strategy.Name()).Msg("clipboard strategy failed")
			continue
		}
		c.logger.Debug().Str("strategy", strategy.Name()).Msg("copied to clipboard")
		return c.notify(successNotice(hint))
	}

	c.logger.Warn().Int("strategies", len(c.strategies)).Msg("unable to copy to clipboard")
	return c.notify(Notice{Level: LevelError, Message: MessageFailed})
}

func successNotice(hint *Hint) Notice {
	notice := Notice{Level: LevelSuccess, Message: MessageCopied}
	if hint == nil {
		return notice
	}
	if hint.Level != "" {
		notice.Level = hint.Level
	}
	if hint.Message != "" {
		notice.Message = hint.Message
	}
	return notice
}

func (c *Clipboard) notify(notice Notice) Notice {
	if c.notifier != nil {
		c.notifier.Notify(notice.Level, notice.Message)
	}
	return notice
}
