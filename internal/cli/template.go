package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/models"
	"github.com/opencode-ai/templage/internal/templates"
)

var (
	templateFile     string
	templateDir      string
	templateTitle    string
	templateType     string
	templateCategory string
	templateOrder    int
	templateListType string
	templateShowLang string

	bodyFlags = newBodyFlags()
)

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateEditCmd)
	templateCmd.AddCommand(templateDeleteCmd)

	templateListCmd.Flags().StringVar(&templateListType, "type", "", "only list one type (email, sms, other)")
	templateShowCmd.Flags().StringVar(&templateShowLang, "lang", "", "only show one language")

	templateAddCmd.Flags().StringVarP(&templateFile, "file", "f", "", "YAML or JSON template file")
	templateAddCmd.Flags().StringVar(&templateDir, "dir", "", "directory of template files")
	for _, cmd := range []*cobra.Command{templateAddCmd, templateEditCmd} {
		cmd.Flags().StringVar(&templateTitle, "title", "", "template title")
		cmd.Flags().StringVar(&templateType, "type", "", "template type (email, sms, other)")
		cmd.Flags().StringVar(&templateCategory, "category", "", "free-form category")
	}
	templateEditCmd.Flags().IntVar(&templateOrder, "order", 0, "display position within its type")

	addBodyFlags(templateAddCmd)
	addBodyFlags(templateEditCmd)
}

func newBodyFlags() map[models.Language]*string {
	flags := make(map[models.Language]*string, len(models.Languages()))
	for _, lang := range models.Languages() {
		flags[lang] = new(string)
	}
	return flags
}

// addBodyFlags registers --fr, --en, --de and --it on cmd.
func addBodyFlags(cmd *cobra.Command) {
	for _, lang := range models.Languages() {
		cmd.Flags().StringVar(bodyFlags[lang], string(lang), "", fmt.Sprintf("%s text", strings.ToUpper(string(lang))))
	}
}

// applyBodyFlags copies the body flags that were set onto bodies.
func applyBodyFlags(cmd *cobra.Command, bodies *models.Bodies) bool {
	changed := false
	for _, lang := range models.Languages() {
		if cmd.Flags().Changed(string(lang)) {
			bodies.SetBody(lang, *bodyFlags[lang])
			changed = true
		}
	}
	return changed
}

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"templates", "tpl"},
	Short:   "Manage message templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates by type",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		var filter models.TemplateType
		if templateListType != "" {
			if filter, err = models.ParseTemplateType(templateListType); err != nil {
				return err
			}
		}

		buckets := svc.templates.Buckets(ctx)
		if filter != "" {
			for _, bucket := range buckets {
				if bucket.Type == filter {
					buckets = []templates.Bucket{bucket}
					break
				}
			}
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), buckets)
		}

		rows := [][]string{}
		for _, bucket := range buckets {
			for _, tmpl := range bucket.Templates {
				rows = append(rows, []string{
					formatTemplateType(tmpl.Type),
					strconv.Itoa(tmpl.Order),
					tmpl.Title,
					tmpl.Category,
					strconv.Itoa(len(tmpl.Variants)),
					tmpl.ID,
				})
			}
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No templates yet. Run 'templage seed' or 'templage template add'.")
			return nil
		}
		return writeTable(cmd.OutOrStdout(), []string{"TYPE", "ORDER", "TITLE", "CATEGORY", "VARIANTS", "ID"}, rows)
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id|title>",
	Short: "Show a template and its variants",
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
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), tmpl)
		}

		langs := models.Languages()
		if templateShowLang != "" {
			langs = []models.Language{models.ParseLanguage(templateShowLang)}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", tmpl.Title, tmpl.Type)
		fmt.Fprintf(out, "ID: %s\n", tmpl.ID)
		if tmpl.Category != "" {
			fmt.Fprintf(out, "Category: %s\n", tmpl.Category)
		}
		writeBodies(cmd, tmpl.Bodies, langs, "")
		for _, variant := range tmpl.Variants {
			fmt.Fprintf(out, "\nVariant %q (%s)\n", variant.Name, variant.ID)
			writeBodies(cmd, variant.Bodies, langs, "  ")
		}
		return nil
	},
}

func writeBodies(cmd *cobra.Command, bodies models.Bodies, langs []models.Language, indent string) {
	for _, lang := range langs {
		body := bodies.Body(lang)
		if body == "" {
			body = "(empty)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s[%s]\n", indent, strings.ToUpper(string(lang)))
		for _, line := range strings.Split(body, "\n") {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", indent, line)
		}
	}
}

var templateAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add templates from flags, a file or a directory",
	Long: `Add a template. Use --file for a single YAML/JSON file, --dir for every
template file in a directory, or --title/--type with --fr/--en/--de/--it.
Placeholders found in the text are registered as tokens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		var list []models.Template
		switch {
		case templateDir != "":
			if list, err = templates.LoadTemplatesFromDir(templateDir); err != nil {
				return err
			}
		case templateFile != "":
			tmpl, err := templates.LoadTemplate(templateFile)
			if err != nil {
				return err
			}
			list = []models.Template{*tmpl}
		default:
			tmpl := models.Template{
				Title:    templateTitle,
				Type:     models.TemplateType(templateType),
				Category: templateCategory,
			}
			if tmpl.Type == "" {
				tmpl.Type = models.TemplateTypeOther
			}
			applyBodyFlags(cmd, &tmpl.Bodies)
			list = []models.Template{tmpl}
		}

		saved := make([]*models.Template, 0, len(list))
		for _, tmpl := range list {
			tmpl.ID = ""
			tmpl.Order = 0
			result, err := svc.templates.Save(ctx, tmpl)
			if err != nil {
				return fmt.Errorf("template %q: %w", tmpl.Title, err)
			}
			saved = append(saved, result)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), saved)
		}
		for _, tmpl := range saved {
			fmt.Fprintf(cmd.OutOrStdout(), "Template %q added (%s, ID: %s).\n", tmpl.Title, tmpl.Type, tmpl.ID)
		}
		return nil
	},
}

var templateEditCmd = &cobra.Command{
	Use:   "edit <id|title>",
	Short: "Edit a template",
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

		flags := cmd.Flags()
		if flags.Changed("title") {
			tmpl.Title = templateTitle
		}
		if flags.Changed("type") {
			tmpl.Type = models.TemplateType(templateType)
		}
		if flags.Changed("category") {
			tmpl.Category = templateCategory
		}
		if flags.Changed("order") {
			tmpl.Order = templateOrder
		}
		applyBodyFlags(cmd, &tmpl.Bodies)

		saved, err := svc.templates.Save(ctx, *tmpl)
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), saved)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template %q updated.\n", saved.Title)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id|title>",
	Short: "Delete a template and its variants",
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
		if !confirm(fmt.Sprintf("Delete template %q?", tmpl.Title)) {
			return fmt.Errorf("aborted; pass --yes to delete without confirmation")
		}
		if err := svc.templates.Delete(ctx, tmpl.ID); err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"deleted": tmpl.ID})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template %q deleted.\n", tmpl.Title)
		return nil
	},
}
