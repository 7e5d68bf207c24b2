package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/clipboard"
	"github.com/opencode-ai/templage/internal/generate"
	"github.com/opencode-ai/templage/internal/inputs"
	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/placeholder"
	"github.com/opencode-ai/templage/internal/templates"
	"github.com/opencode-ai/templage/internal/theme"
)

var (
	generateVariant string
	generateLang    string
	generateSection string
	generateSet     []string
	generatePrompt  bool
	generateNoCopy  bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateVariant, "variant", "", "variant id or name")
	generateCmd.Flags().StringVarP(&generateLang, "lang", "l", "", "language (fr, en, de, it)")
	generateCmd.Flags().StringVar(&generateSection, "section", "", "section recorded in history (the repeated-copy warning only applies inside 'templage ui')")
	generateCmd.Flags().StringArrayVarP(&generateSet, "set", "s", nil, "field value as token=value (repeatable)")
	generateCmd.Flags().BoolVarP(&generatePrompt, "prompt", "p", false, "prompt for every field of the template")
	generateCmd.Flags().BoolVar(&generateNoCopy, "no-copy", false, "print only, do not copy to the clipboard")
}

var generateCmd = &cobra.Command{
	Use:     "generate <template>",
	Aliases: []string{"gen"},
	Short:   "Fill a template and copy the result",
	Long: `Fill a template with the saved field values and copy the final text.

Values given with --set are saved for next time, as are answers to --prompt.
A blank field falls back to the token default; a field with neither a value
nor a default stops the generation, as does a value that does not fit the
token's input type (number, or a YYYY-MM-DD date).

The warning for copying unchanged values twice from the same section only
applies inside 'templage ui'. Each generate command starts afresh.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		tmpl, err := svc.templates.Find(ctx, args[0])
		if err != nil {
			return err
		}
		variantID := ""
		if generateVariant != "" {
			variant, err := templates.FindVariant(tmpl, generateVariant)
			if err != nil {
				return err
			}
			variantID = variant.ID
		}

		cfg := GetConfig()
		lang := cfg.Language()
		if generateLang != "" {
			lang = models.Language(strings.ToLower(strings.TrimSpace(generateLang)))
			if !lang.IsValid() {
				return fmt.Errorf("unknown language %q (expected fr, en, de or it)", generateLang)
			}
		}
		section := generateSection
		if section == "" {
			section = cfg.Generation.DefaultSection
		}

		form := svc.collector.NewForm(ctx)
		tracker := svc.generator.Tracker()
		form.OnEdit(func(string) { tracker.RecordEdit() })

		if err := applySetFlags(form, generateSet, svc.tokens.Lookup(ctx)); err != nil {
			return err
		}
		if generatePrompt {
			if err := promptFields(ctx, svc, form, tmpl, variantID, lang); err != nil {
				return err
			}
		}

		result, err := svc.generator.Generate(ctx, generate.Request{
			Template:  tmpl,
			VariantID: variantID,
			Language:  lang,
			Section:   section,
			Form:      form,
		})
		if err != nil {
			var missing *generate.MissingTokensError
			var invalid *generate.InvalidValueError
			if errors.As(err, &invalid) {
				return &PreflightError{
					Message:  invalid.Error(),
					Hint:     "Give a value matching the token's input type with --set",
					NextStep: fmt.Sprintf("templage generate %q --set %s=...", args[0], strings.Trim(invalid.Token, "{}")),
				}
			}
			if errors.As(err, &missing) {
				return &PreflightError{
					Message:  fmt.Sprintf("missing values for %s", strings.Join(missing.Tokens, ", ")),
					Hint:     "Give a value with --set or define a token default",
					NextStep: fmt.Sprintf("templage generate %q --set %s=...", args[0], strings.Trim(missing.Tokens[0], "{}")),
				}
			}
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			if err := WriteOutput(cmd.OutOrStdout(), result); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		}

		if generateNoCopy || !cfg.Clipboard.Enabled {
			return nil
		}
		notifier := clipboard.NewTerminalNotifier(theme.Load(ctx, svc.storage).Styles())
		notifier.Out = cmd.ErrOrStderr()
		clip := clipboard.NewDefault(notifier, clipboard.Options{Enabled: true, OSC52: cfg.Clipboard.OSC52})
		var hint *clipboard.Hint
		if result.Warned {
			hint = clipboard.WarningHint()
		}
		clip.Copy(ctx, result.Text, hint)
		return nil
	},
}

// applySetFlags applies token=value pairs as user edits. Every pair is
// checked against its token's input type before any is applied.
func applySetFlags(form *inputs.Form, pairs []string, defs map[string]models.Token) error {
	type edit struct{ token, value string }
	edits := make([]edit, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q (expected token=value)", pair)
		}
		token := tokenArg(key)
		if !placeholder.IsToken(token) {
			return fmt.Errorf("invalid token %q in --set", key)
		}
		if def, ok := defs[token]; ok {
			if err := def.InputType.CheckValue(value); err != nil {
				return fmt.Errorf("%s: %w", token, err)
			}
		}
		edits = append(edits, edit{token, value})
	}
	for _, e := range edits {
		form.Set(e.token, e.value)
	}
	return nil
}

// promptFields asks for each placeholder of the selected body, in order.
func promptFields(ctx context.Context, svc *services, form *inputs.Form, tmpl *models.Template, variantID string, lang models.Language) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "--prompt requires an interactive terminal",
			Hint:     "Use --set token=value instead",
			NextStep: "templage generate <template> --set token=value",
		}
	}
	body, err := templates.SelectBody(tmpl, variantID, lang)
	if err != nil {
		return err
	}
	defs := svc.tokens.Lookup(ctx)
	for _, token := range placeholder.Scan(body) {
		label := placeholder.Label(token)
		help := ""
		inputType := models.InputTypeText
		if def, ok := defs[token]; ok {
			label = def.DisplayLabel()
			inputType = def.InputType
			if value, ok := def.DefaultValue(); ok {
				help = "Default: " + value
			}
			if inputType == models.InputTypeDate {
				label += " (YYYY-MM-DD)"
			}
		}
		current := form.Value(token)
		value, err := promptInput(label, current, help, inputType.CheckValue)
		if err != nil {
			return err
		}
		if value != current {
			form.Set(token, value)
		}
	}
	return nil
}
