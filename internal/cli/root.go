// Package cli implements kmctl, the operator command line for the document store and dispatch queues.
package cli

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	JSON    bool
	Timeout time.Duration
}

type commandDeps struct {
	out     io.Writer
	globals *globalOptions
}

func NewRootCommand(out io.Writer) *cobra.Command {
	globals := &globalOptions{}
	deps := commandDeps{out: out, globals: globals}

	cmd := &cobra.Command{
		Use:           "kmctl",
		Short:         "Knowledge mining document and queue administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.PersistentFlags().BoolVar(&globals.JSON, "json", false, "Print output as JSON")
	cmd.PersistentFlags().DurationVar(&globals.Timeout, "timeout", 5*time.Minute, "Overall command timeout")

	cmd.AddCommand(
		newMigrateCommand(deps),
		newDocumentsCommand(deps),
		newQueueCommand(deps),
	)
	return cmd
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseKeyValuePairs turns repeated key=value flags into a map. Entries without "=" or with an
// empty key are skipped; an empty value is kept so callers can clear a trait.
func parseKeyValuePairs(values []string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := map[string]string{}
	for _, raw := range values {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(parts[1])
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
