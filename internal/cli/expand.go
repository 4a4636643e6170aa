package cli

import (
	"fmt"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/batch"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/config"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/flow"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/scheduler"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/validator"
	"github.com/spf13/cobra"
)

func newExpandCmd() *cobra.Command {
	var (
		file string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "expand [words...]",
		Short: "Expand Latin words into detailed Markdown breakdowns",
		Long: `Expands one or more Latin words. Words may be given as arguments, as a
comma-separated list, or read from a file with one word per line.

With --save every expansion is written to the expanded_words table in input
order. Nothing is saved if any expansion fails.`,
		Example: `  fabulae expand amicitia, rex
  fabulae expand --file data/priority_words.txt --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			words := validator.ParseWordList(strings.Join(args, ","))
			if file != "" {
				fromFile, err := scheduler.LoadWordList(file)
				if err != nil {
					return fmt.Errorf("load word list: %w", err)
				}
				words = append(words, fromFile...)
			}
			if len(words) == 0 {
				return flow.ErrNoWords
			}

			cfg := config.Load()
			flows, closeFlows, err := newFlows(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFlows()
			out := cmd.OutOrStdout()

			if !save {
				expansions, err := flows.ExpandWords(cmd.Context(), strings.Join(words, ","))
				if err != nil {
					return err
				}
				for _, exp := range expansions {
					fmt.Fprintf(out, "# %s\n\n%s\n\n", exp.Word, exp.Expansion)
				}
				return nil
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			runner := batch.NewRunner(flows, store.NewExpansions(db))
			saved, err := runner.Run(cmd.Context(), words, func(done, total int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %d/%d (%.0f%%)\n", done, total, float64(done)/float64(total)*100)
			})
			if err != nil {
				return fmt.Errorf("saved %d of %d words: %w", len(saved), len(words), err)
			}
			for _, row := range saved {
				fmt.Fprintf(out, "%d\t%s\n", row.ID, row.Word)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read words from a file, one per line")
	cmd.Flags().BoolVar(&save, "save", false, "Save expansions to the database")

	return cmd
}

func newGlossCmd() *cobra.Command {
	var sentence string

	cmd := &cobra.Command{
		Use:   "gloss WORD",
		Short: "Gloss a single Latin word, optionally in its sentence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flows, closeFlows, err := newFlows(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer closeFlows()
			gloss, err := flows.GetWordGloss(cmd.Context(), args[0], sentence)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Gloss:      %s\n", gloss.Gloss)
			fmt.Fprintf(out, "Morphology: %s\n", gloss.Morphology)
			fmt.Fprintf(out, "Syntax:     %s\n", gloss.Syntax)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sentence, "sentence", "s", "", "Sentence the word appears in")

	return cmd
}
