package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/models"
)

var (
	tokenLabel        string
	tokenType         string
	tokenDefault      string
	tokenRename       string
	tokenClearDefault bool
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenListCmd)
	tokenCmd.AddCommand(tokenAddCmd)
	tokenCmd.AddCommand(tokenEditCmd)
	tokenCmd.AddCommand(tokenDeleteCmd)

	for _, cmd := range []*cobra.Command{tokenAddCmd, tokenEditCmd} {
		cmd.Flags().StringVar(&tokenLabel, "label", "", "field label shown in forms")
		cmd.Flags().StringVar(&tokenType, "type", "", "input type (text, number, date)")
		cmd.Flags().StringVar(&tokenDefault, "default", "", "value used when the field is left blank")
	}
	tokenEditCmd.Flags().StringVar(&tokenRename, "token", "", "new placeholder key")
	tokenEditCmd.Flags().BoolVar(&tokenClearDefault, "clear-default", false, "remove the default value")
}

var tokenCmd = &cobra.Command{
	Use:     "token",
	Aliases: []string{"tokens"},
	Short:   "Manage placeholder definitions",
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List token definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		list := svc.tokens.List(ctx)
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tokens defined. Tokens are added when templates use them, or with 'templage token add'.")
			return nil
		}

		table := make([][]string, 0, len(list))
		for _, tok := range list {
			def, ok := tok.DefaultValue()
			table = append(table, []string{tok.Token, tok.DisplayLabel(), string(tok.InputType), formatOptional(def, ok)})
		}
		return writeTable(cmd.OutOrStdout(), []string{"TOKEN", "LABEL", "TYPE", "DEFAULT"}, table)
	},
}

var tokenAddCmd = &cobra.Command{
	Use:   "add <token>",
	Short: "Add a token definition",
	Long:  "Add a token definition. The braces are optional: 'name' becomes '{name}'.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		tok := models.Token{
			Token:     tokenArg(args[0]),
			Label:     tokenLabel,
			InputType: models.InputType(tokenType),
		}
		if cmd.Flags().Changed("default") {
			tok.SetDefault(tokenDefault)
		}
		created, err := svc.tokens.Create(ctx, tok)
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), created)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token %s added.\n", created.Token)
		return nil
	},
}

var tokenEditCmd = &cobra.Command{
	Use:   "edit <token|id>",
	Short: "Edit a token definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		tok, err := resolveToken(ctx, svc, args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("token") {
			tok.Token = tokenArg(tokenRename)
		}
		if flags.Changed("label") {
			tok.Label = tokenLabel
		}
		if flags.Changed("type") {
			tok.InputType = models.InputType(tokenType)
		}
		if flags.Changed("default") {
			tok.SetDefault(tokenDefault)
		}
		if tokenClearDefault {
			tok.Default = nil
		}

		updated, err := svc.tokens.Update(ctx, *tok)
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), updated)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token %s updated.\n", updated.Token)
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete <token|id>",
	Short: "Delete a token definition",
	Long:  "Delete a token definition. Templates that use the placeholder keep it in their text.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		tok, err := resolveToken(ctx, svc, args[0])
		if err != nil {
			return err
		}
		if !confirm(fmt.Sprintf("Delete token %s?", tok.Token)) {
			return fmt.Errorf("aborted; pass --yes to delete without confirmation")
		}
		if err := svc.tokens.Delete(ctx, tok.ID); err != nil {
			return err
		}
		svc.recorder.Record(ctx, models.EventTypeTokenDeleted, models.EntityTypeToken, tok.ID, map[string]string{"token": tok.Token})

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"deleted": tok.Token})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token %s deleted.\n", tok.Token)
		return nil
	},
}

// tokenArg wraps a bare name in braces.
func tokenArg(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "{") {
		return value
	}
	return "{" + value + "}"
}

// resolveToken accepts an id, a token or a bare token name.
func resolveToken(ctx context.Context, svc *services, ref string) (*models.Token, error) {
	if tok, ok := svc.tokens.Find(ctx, tokenArg(ref)); ok {
		return tok, nil
	}
	return svc.tokens.Resolve(ctx, ref)
}
