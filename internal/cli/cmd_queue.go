package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kmapi/internal/model"
)

func newQueueCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Dispatch queue operations",
	}
	cmd.AddCommand(
		newQueueSendCommand(deps, "summarize", "Request a summary for a document", func(ctx context.Context, svcs *services, msg string) (*model.QueueReceipt, error) {
			return svcs.queues.SendSummaryRequest(ctx, msg)
		}),
		newQueueSendCommand(deps, "traits", "Request trait extraction for a document", func(ctx context.Context, svcs *services, msg string) (*model.QueueReceipt, error) {
			return svcs.queues.SendTraitsRequest(ctx, msg)
		}),
		newQueueStatsCommand(deps),
	)
	return cmd
}

type sendFunc func(ctx context.Context, svcs *services, message string) (*model.QueueReceipt, error)

func newQueueSendCommand(deps commandDeps, use, short string, send sendFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " MESSAGE",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			return withServices(cmd.Context(), deps, false, true, func(ctx context.Context, svcs *services) error {
				receipt, err := send(ctx, svcs, message)
				if err != nil {
					return err
				}
				if wantJSON(deps) {
					return printJSON(deps.out, receipt)
				}
				_, err = fmt.Fprintf(deps.out, "message_id=%s expires_at=%s\n", receipt.MessageID, receipt.ExpiresAt.Format(time.RFC3339))
				return err
			})
		},
	}
}

func newQueueStatsCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show approximate queue depths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), deps, false, true, func(ctx context.Context, svcs *services) error {
				stats, err := svcs.queues.Stats(ctx)
				if err != nil {
					return err
				}
				if wantJSON(deps) {
					return printJSON(deps.out, stats)
				}
				for _, s := range stats {
					if _, err := fmt.Fprintf(deps.out, "%s\t%d\n", s.Name, s.ApproximateMessageCount); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
