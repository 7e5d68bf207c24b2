package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/bundle"
	"github.com/opencode-ai/templage/internal/theme"
)

var (
	configExportName string
	configExportDir  string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configExportCmd)
	configCmd.AddCommand(configImportCmd)
	configCmd.AddCommand(configRenameCmd)
	configCmd.AddCommand(configResetCmd)

	configExportCmd.Flags().StringVar(&configExportName, "name", "", "configuration name stored in the file")
	configExportCmd.Flags().StringVar(&configExportDir, "dir", ".", "directory for the generated file name")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Export, import and reset the whole configuration",
}

// ConfigSummary describes the current configuration.
type ConfigSummary struct {
	Name      string `json:"name"`
	Tokens    int    `json:"tokens"`
	Templates int    `json:"templates"`
	Theme     string `json:"theme"`
	Database  string `json:"database"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration name and contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		name, ok := svc.bundle.ConfigName(ctx)
		if !ok {
			name = bundle.DefaultConfigName
		}
		summary := ConfigSummary{
			Name:      name,
			Tokens:    len(svc.tokens.List(ctx)),
			Templates: len(svc.templates.List(ctx)),
			Theme:     string(theme.Load(ctx, svc.storage)),
			Database:  svc.db.Path(),
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), summary)
		}
		return writeTable(cmd.OutOrStdout(), nil, [][]string{
			{"Name:", summary.Name},
			{"Tokens:", fmt.Sprint(summary.Tokens)},
			{"Templates:", fmt.Sprint(summary.Templates)},
			{"Theme:", summary.Theme},
			{"Database:", summary.Database},
		})
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export [file|-]",
	Short: "Export tokens and templates to a file",
	Long: `Export tokens and templates to a .templageConfig file. Without a path the
file name is derived from the configuration name. Use "-" to write to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		name := configExportName
		if name == "" {
			if _, ok := svc.bundle.ConfigName(ctx); !ok && IsInteractive() {
				if name, err = promptInput("Configuration name", bundle.DefaultConfigName, "", nil); err != nil {
					return err
				}
			}
		}

		doc, err := svc.bundle.Export(ctx, name)
		if err != nil {
			return err
		}
		if len(args) == 1 && args[0] == "-" {
			return WriteOutput(cmd.OutOrStdout(), doc)
		}

		path := filepath.Join(configExportDir, bundle.FileName(doc.ConfigName))
		if len(args) == 1 {
			path = args[0]
		}
		if err := bundle.WriteFile(path, doc); err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]any{"path": path, "tokens": len(doc.Tokens), "models": len(doc.Models)})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s (%d tokens, %d templates).\n", doc.ConfigName, path, len(doc.Tokens), len(doc.Models))
		return nil
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the whole configuration with a file",
	Long: `Import a .templageConfig file. Every stored value is replaced, including
saved field values and the theme. A malformed file changes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		doc, err := bundle.ReadFile(args[0])
		if err != nil {
			return &PreflightError{
				Message:  err.Error(),
				Hint:     "The current configuration was left unchanged",
				NextStep: "templage config show",
			}
		}
		if !confirm(fmt.Sprintf("Replace the current configuration with %q?", doc.ConfigName)) {
			return fmt.Errorf("aborted; pass --yes to import without confirmation")
		}

		step := startProgress("Importing configuration")
		if err := svc.bundle.Import(ctx, doc); err != nil {
			step.Fail(err)
			return err
		}
		step.Done()

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), ConfigSummary{
				Name:      doc.ConfigName,
				Tokens:    len(doc.Tokens),
				Templates: len(doc.Models),
				Theme:     string(theme.Load(ctx, svc.storage)),
				Database:  svc.db.Path(),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%d tokens, %d templates).\n", doc.ConfigName, len(doc.Tokens), len(doc.Models))
		return nil
	},
}

var configRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Rename the configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.bundle.Rename(ctx, args[0]); err != nil {
			return err
		}
		name, _ := svc.bundle.ConfigName(ctx)
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"name": name})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration renamed to %q.\n", name)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every token, template and saved value",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		if !confirm("Delete every token, template and saved value?") {
			return fmt.Errorf("aborted; pass --yes to reset without confirmation")
		}
		if err := svc.bundle.Reset(ctx); err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]bool{"reset": true})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset.")
		return nil
	},
}
