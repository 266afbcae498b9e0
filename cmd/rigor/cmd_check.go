package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rigor/internal/cases"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <cases.json>",
		Short: "Validate a case-set file",
		Long: `Validate a case-set file against the schema and list every problem
found. Nothing is executed.`,
		Args: cobra.ExactArgs(1),
		RunE: checkCommandE,
	}

	return cmd
}

func checkCommandE(cmd *cobra.Command, args []string) error {
	path := args[0]

	set, err := cases.LoadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s: OK\n\n", path)
	fmt.Printf("Version:     %s\n", set.Meta.Version)
	fmt.Printf("Description: %s\n", set.Meta.Description)
	fmt.Printf("Cases:       %d\n", len(set.Cases))
	fmt.Println()

	fmt.Printf("%s %s %s %s\n",
		padRight("Case", colCaseID),
		padRight("Domain", colDomain),
		padRight("Diff", colDifficulty),
		"Must/Should/Kw")

	for _, c := range set.Cases {
		fmt.Printf("%s %s %s %d/%d/%d\n",
			padRight(truncateName(c.ID, colCaseID-1), colCaseID),
			padRight(c.Domain, colDomain),
			padRight(string(c.Difficulty), colDifficulty),
			len(c.ExpectedFindings.MustDiscover),
			len(c.ExpectedFindings.ShouldDiscover),
			len(c.ExpectedFindings.Keywords))
	}

	if set.Meta.TotalCases != 0 && set.Meta.TotalCases != len(set.Cases) {
		fmt.Printf("\nwarning: meta.total_cases is %d but the file has %d cases\n",
			set.Meta.TotalCases, len(set.Cases))
	}

	return nil
}
