package main

import (
	"fmt"
	"os"

	"github.com/shapiromatron/hawc-sub006/internal/client"
	"github.com/shapiromatron/hawc-sub006/internal/execution"
	"github.com/shapiromatron/hawc-sub006/internal/logic"
	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/session"
	"github.com/spf13/cobra"
)

var (
	recommendCSRFToken string
	recommendSave      bool
)

func newRecommendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <session-url>",
		Short: "Evaluate recommendation logic over a finished session",
		Long: `Evaluate the remote recommendation rule set over a session that has
already executed.

The session is loaded from the remote service, every enabled rule is applied
to each model's outputs, and the per-model failure bins are printed along
with the recommended model (lowest AIC among models outside the failure
bin).`,
		Args: cobra.ExactArgs(1),
		RunE: recommendCommandE,
	}

	cmd.Flags().StringVar(&recommendCSRFToken, "csrf-token", os.Getenv("BMDS_CSRF_TOKEN"), "CSRF token for write requests (default: $BMDS_CSRF_TOKEN)")
	cmd.Flags().BoolVar(&recommendSave, "save-selection", false, "Persist the recommended model as the session's selected model")

	return cmd
}

func recommendCommandE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	api := client.New(args[0], recommendCSRFToken)
	sess := session.New()
	ctrl := execution.New(api, sess)

	if err := ctrl.LoadSession(ctx); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !sess.HasExecuted() {
		return fmt.Errorf("session has no finished execution to evaluate")
	}

	rules, err := logic.DecodeRules(sess.LogicRules())
	if err != nil {
		return fmt.Errorf("failed to decode recommendation rules: %w", err)
	}
	logic.NewEvaluator(rules).Apply(sess)

	printBins(sess)

	if recommendSave {
		return saveRecommended(ctx, api, sess)
	}
	return nil
}

func printBins(sess *session.Session) {
	for _, m := range sess.Models() {
		marker := " "
		if m.Recommended {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s (bmr %d)  bin=%s", marker, m.Name, m.BMRID, binLabel(m.Bin))
		if m.Output != nil && m.Output.AIC != nil {
			line += fmt.Sprintf("  AIC=%.4g", *m.Output.AIC)
		}
		fmt.Println(line)

		for _, r := range m.Logic {
			if r.Passed {
				continue
			}
			fmt.Printf("    failed: %s", r.RuleName)
			if r.Notes != "" {
				fmt.Printf(" (%s)", r.Notes)
			}
			fmt.Println()
		}
	}
}

func binLabel(bin models.FailureBin) string {
	switch bin {
	case models.BinNoWarning:
		return "viable"
	case models.BinQuestionable:
		return "questionable"
	case models.BinFailure:
		return "failure"
	default:
		return fmt.Sprintf("bin %d", bin)
	}
}
