package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rigor/internal/wizard"
)

var newCaseID string

func newNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <cases.json>",
		Short: "Add a case to a case-set file interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  newCommandE,
	}

	cmd.Flags().StringVar(&newCaseID, "id", "", "Pre-fill the case id")

	return cmd
}

func newCommandE(cmd *cobra.Command, args []string) error {
	path := args[0]

	c, err := wizard.RunCaseWizard(os.Stdin, os.Stdout, newCaseID)
	if err != nil {
		return err
	}

	if err := wizard.AppendCase(path, c); err != nil {
		return err
	}

	fmt.Printf("Added case %q to %s\n", c.ID, path)
	return nil
}
