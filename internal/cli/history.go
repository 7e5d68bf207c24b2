package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/templage/internal/db"
	"github.com/opencode-ai/templage/internal/models"
)

var (
	historyLimit    int
	historyType     string
	historyTemplate string
	historySince    string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of events")
	historyCmd.Flags().StringVar(&historyType, "type", "", "only show one event type (e.g. generation.completed)")
	historyCmd.Flags().StringVar(&historyTemplate, "template", "", "only show events of one template (id or title)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "only show events newer than a duration (e.g. 24h)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generations and configuration changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		query := db.EventQuery{Limit: historyLimit}
		if historyType != "" {
			eventType := models.EventType(historyType)
			query.Type = &eventType
		}
		if historyTemplate != "" {
			tmpl, err := svc.templates.Find(ctx, historyTemplate)
			if err != nil {
				return err
			}
			query.EntityID = &tmpl.ID
		}
		if historySince != "" {
			window, err := time.ParseDuration(historySince)
			if err != nil {
				return fmt.Errorf("invalid --since %q: %w", historySince, err)
			}
			since := time.Now().Add(-window)
			query.Since = &since
		}

		list, err := svc.events.List(ctx, query)
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			if list == nil {
				list = []*models.Event{}
			}
			return WriteOutput(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
			return nil
		}

		rows := make([][]string, 0, len(list))
		for _, event := range list {
			rows = append(rows, []string{
				event.Timestamp.Local().Format("2006-01-02 15:04:05"),
				formatEventType(event.Type),
				string(event.EntityType),
				describeEvent(event),
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"TIME", "EVENT", "ENTITY", "DETAILS"}, rows)
	},
}

// describeEvent summarizes an event payload on one line.
func describeEvent(event *models.Event) string {
	switch event.Type {
	case models.EventTypeGenerationCompleted, models.EventTypeGenerationBlocked:
		var payload models.GenerationPayload
		if json.Unmarshal(event.Payload, &payload) != nil {
			return event.EntityID
		}
		parts := []string{string(payload.Language)}
		if payload.VariantID != "" {
			parts = append(parts, "variant "+payload.VariantID)
		}
		if payload.Warned {
			parts = append(parts, "warned")
		}
		if len(payload.MissingTokens) > 0 {
			parts = append(parts, "missing "+strings.Join(payload.MissingTokens, ","))
		}
		return strings.Join(parts, " ")
	case models.EventTypeTokensDiscovered:
		var payload models.TokensDiscoveredPayload
		if json.Unmarshal(event.Payload, &payload) != nil {
			return event.EntityID
		}
		return strings.Join(payload.Tokens, ", ")
	case models.EventTypeConfigImported, models.EventTypeConfigExported:
		var payload models.ConfigImportedPayload
		if json.Unmarshal(event.Payload, &payload) != nil {
			return event.EntityID
		}
		return fmt.Sprintf("%s (%d tokens, %d templates)", payload.ConfigName, payload.Tokens, payload.Models)
	default:
		return shorten(event.EntityID, 40)
	}
}
