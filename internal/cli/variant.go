package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/templates"
)

var variantName string

func init() {
	rootCmd.AddCommand(variantCmd)
	variantCmd.AddCommand(variantAddCmd)
	variantCmd.AddCommand(variantEditCmd)
	variantCmd.AddCommand(variantDeleteCmd)

	for _, cmd := range []*cobra.Command{variantAddCmd, variantEditCmd} {
		cmd.Flags().StringVar(&variantName, "name", "", "variant name")
		addBodyFlags(cmd)
	}
}

var variantCmd = &cobra.Command{
	Use:     "variant",
	Aliases: []string{"variants"},
	Short:   "Manage alternate bodies of a template",
}

var variantAddCmd = &cobra.Command{
	Use:   "add <template>",
	Short: "Add a variant to a template",
	Args:  cobra.ExactArgs(1),
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
		variant := models.Variant{Name: variantName}
		applyBodyFlags(cmd, &variant.Bodies)

		saved, err := svc.templates.SaveVariant(ctx, tmpl.ID, variant)
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), saved)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Variant %q added to %q (ID: %s).\n", saved.Name, tmpl.Title, saved.ID)
		return nil
	},
}

var variantEditCmd = &cobra.Command{
	Use:   "edit <template> <variant>",
	Short: "Edit a variant",
	Args:  cobra.ExactArgs(2),
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
		variant, err := templates.FindVariant(tmpl, args[1])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			variant.Name = variantName
		}
		applyBodyFlags(cmd, &variant.Bodies)

		saved, err := svc.templates.SaveVariant(ctx, tmpl.ID, *variant)
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), saved)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Variant %q updated.\n", saved.Name)
		return nil
	},
}

var variantDeleteCmd = &cobra.Command{
	Use:   "delete <template> <variant>",
	Short: "Delete a variant",
	Args:  cobra.ExactArgs(2),
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
		variant, err := templates.FindVariant(tmpl, args[1])
		if err != nil {
			return err
		}
		if !confirm(fmt.Sprintf("Delete variant %q of %q?", variant.Name, tmpl.Title)) {
			return fmt.Errorf("aborted; pass --yes to delete without confirmation")
		}
		if err := svc.templates.DeleteVariant(ctx, tmpl.ID, variant.ID); err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"deleted": variant.ID})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Variant %q deleted.\n", variant.Name)
		return nil
	},
}
