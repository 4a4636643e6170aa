package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/config"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/story"
	"github.com/spf13/cobra"
)

func newStoryCmd() *cobra.Command {
	var (
		req    model.StoryRequest
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "story",
		Short: "Generate an illustrated Latin story",
		Long: `Generates a Latin story with one illustration per sentence and writes it
to a file named after its first sentence.`,
		Example: `  fabulae story --level Beginner --topic "a lost dog" --length 6
  fabulae story --topic "the Trojan horse" --scope "perfect tense" --format md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flows, closeFlows, err := newFlows(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer closeFlows()

			fmt.Fprintf(cmd.ErrOrStderr(), "Generating %d sentences about %q...\n", req.StoryLength, req.Topic)
			st, err := flows.GenerateStory(cmd.Context(), req)
			if err != nil {
				return err
			}

			path, err := writeStory(st, format, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Level, "level", "l", model.LevelBeginner, "Beginner, Intermediate or Advanced")
	cmd.Flags().StringVarP(&req.Topic, "topic", "t", "", "Story topic")
	cmd.Flags().StringVar(&req.GrammarScope, "scope", "", "Grammar to focus on")
	cmd.Flags().IntVarP(&req.StoryLength, "length", "n", model.DefaultStoryLength, "Number of sentences (6-12)")
	cmd.Flags().StringVar(&format, "format", story.FormatJSON, "Output format: json, md or yaml")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func writeStory(st *model.LatinStory, format, dir string) (string, error) {
	body, _, err := story.Render(st, format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, story.FileName(st, story.Extension(format)))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func newImportCmd() *cobra.Command {
	var (
		format   string
		favorite bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a story file and convert it to another format",
		Long: `Reads a story document ({"story": [{"sentence", "imageUrl"}]}), checks it
and prints it in the requested format. Use "-" to read from stdin. With
--favorite the story is also stored in the favorites table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			st, err := story.Import(r)
			if err != nil {
				return err
			}

			if favorite {
				db, err := openDB(config.Load())
				if err != nil {
					return err
				}
				fav, err := store.NewGormFavorites(db).Put(cmd.Context(), *st)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved favorite %s (%s)\n", fav.ID, fav.Title)
			}

			body, _, err := story.Render(st, strings.ToLower(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", story.FormatMarkdown, "Output format: json, md or yaml")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Also save the story as a favorite")

	return cmd
}
