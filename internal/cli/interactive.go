package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// errPromptAborted is returned when the user interrupts a prompt.
var errPromptAborted = errors.New("prompt aborted")

// IsNonInteractive reports whether prompts should be skipped and defaults used.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("TEMPLAGE_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

// IsInteractive reports whether the session can prompt for user input.
func IsInteractive() bool {
	return !IsNonInteractive()
}

// confirm asks a yes/no question. --yes answers it; without a terminal the
// answer is no.
func confirm(message string) bool {
	if assumeYes {
		return true
	}
	if IsNonInteractive() {
		return false
	}
	var ok bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false
	}
	return ok
}

// promptInput asks for a line of text, offering def as the default.
func promptInput(message, def, help string, validate func(string) error) (string, error) {
	if IsNonInteractive() {
		return def, nil
	}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			value, _ := ans.(string)
			return validate(value)
		}))
	}
	var out string
	prompt := &survey.Input{Message: message, Default: def, Help: help}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

// promptSelect asks for one of options and returns its index.
func promptSelect(message string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("nothing to select")
	}
	if IsNonInteractive() {
		return 0, nil
	}
	var idx int
	if err := survey.AskOne(&survey.Select{Message: message, Options: options}, &idx); err != nil {
		return 0, translateSurveyErr(err)
	}
	return idx, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errPromptAborted
	}
	return err
}
