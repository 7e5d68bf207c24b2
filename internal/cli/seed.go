package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in tokens and templates",
	Long:  "Load the built-in tokens and templates. Nothing is added when templates already exist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		step := startProgress("Seeding built-in templates")
		result, err := svc.templates.Seed(ctx)
		if err != nil {
			step.Fail(err)
			return err
		}
		step.Done()

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), result)
		}
		if result.Templates == 0 && result.Tokens == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Templates already exist; nothing seeded.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d tokens and %d templates.\n", result.Tokens, result.Templates)
		return nil
	},
}
