package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/investor-portal/internal/intent"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect intent keyword tables",
}

var lexiconShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective lexicon as TOML",
	Long: `Prints the compiled-in keyword tables, merged with --lexicon when given.
The output is a valid override file and a starting point for tuning.`,
	RunE: runLexiconShow,
}

var lexiconCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a lexicon override file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLexiconCheck,
}

func runLexiconShow(cmd *cobra.Command, _ []string) error {
	lex, err := intent.LoadLexicon(lexicon)
	if err != nil {
		return err
	}
	data, err := lex.Encode()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runLexiconCheck(cmd *cobra.Command, args []string) error {
	lex, err := intent.LoadLexicon(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (version %s)\n", args[0], lex.Version)
	return nil
}
