package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shapiromatron/hawc-sub006/internal/client"
	"github.com/shapiromatron/hawc-sub006/internal/execution"
	"github.com/shapiromatron/hawc-sub006/internal/logic"
	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/reporting"
	"github.com/shapiromatron/hawc-sub006/internal/session"
	"github.com/shapiromatron/hawc-sub006/internal/validation"
	"github.com/spf13/cobra"
)

var (
	csrfToken     string
	outputPath    string
	pollInterval  time.Duration
	runTimeout    time.Duration
	saveSelection bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Run a BMD session plan against a remote modeling service",
		Long: `Run a BMD session plan end to end.

The plan file declares the dose-unit scale, BMR definitions, and model
selections with their setting overrides. The session is loaded from the
remote service, configured from the plan, executed, polled to completion,
and evaluated against the remote recommendation rule set.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&csrfToken, "csrf-token", os.Getenv("BMDS_CSRF_TOKEN"), "CSRF token for write requests (default: $BMDS_CSRF_TOKEN)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file for the session report")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", execution.DefaultPollInterval, "Interval between execution status requests")
	cmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Overall run deadline (0 = none)")
	cmd.Flags().BoolVar(&saveSelection, "save-selection", false, "Persist the recommended model as the session's selected model")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	planPath := args[0]

	if errs, err := validation.ValidatePlanFile(planPath); err != nil {
		return err
	} else if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Plan file is invalid:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return &RejectedError{Message: "plan failed schema validation"}
	}

	plan, err := models.LoadSessionPlan(planPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	ctx := cmd.Context()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	api := client.New(plan.URL, csrfToken)
	sess := session.New()
	ctrl := execution.New(api, sess, execution.WithPollInterval(pollInterval))

	if err := ctrl.LoadSession(ctx); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if err := applyPlan(sess, plan); err != nil {
		return err
	}

	state, err := ctrl.Execute(ctx)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if state == execution.StateRejected {
		fmt.Fprintln(os.Stderr, "Session configuration is not executable:")
		for _, e := range sess.ValidationErrors() {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return &RejectedError{Message: "session failed validation"}
	}

	rules, err := logic.DecodeRules(sess.LogicRules())
	if err != nil {
		return fmt.Errorf("failed to decode recommendation rules: %w", err)
	}
	logic.NewEvaluator(rules).Apply(sess)

	if saveSelection {
		if err := saveRecommended(ctx, api, sess); err != nil {
			return err
		}
	}

	report, err := reporting.Build(sess, plan.URL)
	if err != nil {
		return err
	}
	if outputPath != "" {
		if err := reporting.Write(outputPath, report); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", outputPath)
	}

	printRunSummary(report)
	return nil
}

// applyPlan configures a loaded session from the plan: dose units, BMRs, and
// model selections with overrides.
func applyPlan(sess *session.Session, plan *models.SessionPlan) error {
	if plan.DoseUnitsID != 0 {
		sess.ChangeUnits(plan.DoseUnitsID)
	}

	for _, b := range plan.BMRs {
		sess.AddBMR(b.BMR())
	}

	for _, pm := range plan.Models {
		idx, err := schemaIndex(sess, pm.Name)
		if err != nil {
			return err
		}
		if err := sess.CreateModel(idx); err != nil {
			return err
		}
		if len(pm.Overrides) > 0 {
			if _, err := sess.SelectModel(len(sess.ModelSettings()) - 1); err != nil {
				return err
			}
			if err := sess.UpdateModel(pm.Overrides); err != nil {
				return err
			}
		}
	}
	return nil
}

func schemaIndex(sess *session.Session, name string) (int, error) {
	options := sess.ModelOptions()
	for i, schema := range options {
		if schema.Name == name {
			return i, nil
		}
	}

	known := make([]string, 0, len(options))
	for _, schema := range options {
		known = append(known, schema.Name)
	}
	return 0, fmt.Errorf("no model option named %q (available: %s)", name, strings.Join(known, ", "))
}

// saveRecommended persists the recommended model, when one exists with a
// remote ID.
func saveRecommended(ctx context.Context, api client.API, sess *session.Session) error {
	for _, m := range sess.Models() {
		if m.Recommended && m.ID != 0 {
			id := m.ID
			notes := fmt.Sprintf("Selected automatically: %s", m.Name)
			if err := logic.SaveSelected(ctx, api, sess, &id, notes); err != nil {
				return err
			}
			fmt.Printf("Selected model saved: %s (id %d)\n", m.Name, id)
			return nil
		}
	}
	fmt.Println("No recommended model to save.")
	return nil
}

func printRunSummary(report *models.SessionReport) {
	fmt.Printf("Executed %d model(s) across %d BMR(s)\n", len(report.Models), len(report.BMRs))
	for _, m := range report.Models {
		marker := " "
		if m.Recommended {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s (bmr %d)", marker, m.Name, m.BMRID)
		if m.Output != nil && m.Output.BMD != nil {
			line += fmt.Sprintf("  BMD=%.4g", *m.Output.BMD)
		}
		if m.Output != nil && m.Output.BMDL != nil {
			line += fmt.Sprintf("  BMDL=%.4g", *m.Output.BMDL)
		}
		fmt.Println(line)
	}
}
