package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-audit/internal/taxonomy"
)

var taxonomyCommand = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect and validate criteria reference documents",
}

var taxonomyValidateCommand = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a criteria reference document against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read reference file: %w", err)
		}
		if err := taxonomy.ValidateDocument(data); err != nil {
			return err
		}
		ref, err := taxonomy.Load(data)
		if err != nil {
			return err
		}
		fmt.Printf("Valid: %d topics, %d criteria (%d auto-testable).\n",
			len(ref.TopicNumbers()), len(ref.Criteria()), len(ref.AutoTestableCriteria()))
		return nil
	},
}

var taxonomyShowCommand = &cobra.Command{
	Use:   "show",
	Short: "List the topics of the embedded criteria reference",
	RunE: func(_ *cobra.Command, _ []string) error {
		ref, err := taxonomy.LoadDefault()
		if err != nil {
			return err
		}
		for _, number := range ref.TopicNumbers() {
			count := 0
			for _, criterion := range ref.Criteria() {
				if criterion.TopicNumber == number {
					count++
				}
			}
			fmt.Printf("%2d. %-20s %d criteria\n", number, ref.TopicName(number), count)
		}
		return nil
	},
}

func init() {
	taxonomyCommand.AddCommand(taxonomyValidateCommand)
	taxonomyCommand.AddCommand(taxonomyShowCommand)
	rootCmd.AddCommand(taxonomyCommand)
}
