package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/inputs"
)

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.AddCommand(fieldsListCmd)
	fieldsCmd.AddCommand(fieldsSetCmd)
	fieldsCmd.AddCommand(fieldsResetCmd)
}

var fieldsCmd = &cobra.Command{
	Use:     "fields",
	Aliases: []string{"field", "inputs"},
	Short:   "Inspect and change saved field values",
}

// FieldValue is a saved form value.
type FieldValue struct {
	Token   string `json:"token"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Saved   bool   `json:"saved"`
	Default string `json:"default,omitempty"`
}

var fieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the value each field will start with",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		values := make([]FieldValue, 0)
		for _, tok := range svc.tokens.List(ctx) {
			stored, saved := svc.collector.Stored(ctx, tok.Token)
			def, _ := tok.DefaultValue()
			value := stored
			if !saved {
				value = def
			}
			values = append(values, FieldValue{
				Token:   tok.Token,
				Label:   tok.DisplayLabel(),
				Value:   value,
				Saved:   saved,
				Default: def,
			})
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), values)
		}
		if len(values) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No fields. Add templates or tokens first.")
			return nil
		}
		rows := make([][]string, 0, len(values))
		for _, v := range values {
			rows = append(rows, []string{v.Token, v.Label, shorten(v.Value, 40), formatYesNo(v.Saved)})
		}
		return writeTable(cmd.OutOrStdout(), []string{"TOKEN", "LABEL", "VALUE", "SAVED"}, rows)
	},
}

var fieldsSetCmd = &cobra.Command{
	Use:   "set <token=value>...",
	Short: "Save field values without generating",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		form := svc.collector.NewForm(ctx)
		if err := applySetFlags(form, args, svc.tokens.Lookup(ctx)); err != nil {
			return err
		}
		collection, err := svc.collector.Collect(ctx, form, inputs.RequireOnly())
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), collection.Values)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d field value(s).\n", len(args))
		return nil
	},
}

var fieldsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every field to its default",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		form := svc.collector.NewForm(ctx)
		svc.collector.ResetFields(ctx, form)

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]int{"reset": len(form.ListTokens())})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %d field(s).\n", len(form.ListTokens()))
		return nil
	},
}
