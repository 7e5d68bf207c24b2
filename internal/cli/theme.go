package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/theme"
)

func init() {
	rootCmd.AddCommand(themeCmd)
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		pref := theme.Load(ctx, svc.storage)
		if len(args) == 1 {
			if args[0] == "toggle" {
				pref = theme.Toggle(ctx, svc.storage)
			} else {
				if pref, err = theme.Parse(args[0]); err != nil {
					return err
				}
				theme.Save(ctx, svc.storage, pref)
			}
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"theme": string(pref)})
		}
		styleSet := pref.Styles()
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", styleSet.Badge.Render(string(pref)))
		return nil
	},
}
