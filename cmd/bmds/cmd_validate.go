package main

import (
	"fmt"
	"os"

	"github.com/shapiromatron/hawc-sub006/internal/models"
	"github.com/shapiromatron/hawc-sub006/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan.yaml>",
		Short: "Validate a session plan without running it",
		Long: `Validate a session plan file against the plan schema and the execution
gate. The command succeeds only when the plan would be accepted for
execution.`,
		Args: cobra.ExactArgs(1),
		RunE: validateCommandE,
	}
}

func validateCommandE(cmd *cobra.Command, args []string) error {
	planPath := args[0]

	schemaErrs, err := validation.ValidatePlanFile(planPath)
	if err != nil {
		return err
	}
	if len(schemaErrs) > 0 {
		fmt.Fprintln(os.Stderr, "Plan file is invalid:")
		for _, e := range schemaErrs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return &RejectedError{Message: "plan failed schema validation"}
	}

	plan, err := models.LoadSessionPlan(planPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	// Run the execution gate over the declared configuration.
	bmrs := make([]models.BMR, 0, len(plan.BMRs))
	for _, b := range plan.BMRs {
		bmrs = append(bmrs, b.BMR())
	}
	modelSettings := make([]*models.ModelSettings, 0, len(plan.Models))
	for _, m := range plan.Models {
		modelSettings = append(modelSettings, &models.ModelSettings{
			Name:      m.Name,
			Overrides: m.Overrides,
		})
	}

	if gateErrs := validation.Validate(bmrs, modelSettings); len(gateErrs) > 0 {
		fmt.Fprintln(os.Stderr, "Plan is not executable:")
		for _, e := range gateErrs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return &RejectedError{Message: "plan failed the execution gate"}
	}

	fmt.Printf("%s is valid: %d BMR(s), %d model(s)\n", planPath, len(plan.BMRs), len(plan.Models))
	return nil
}
