package cli

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/codec/jpz"
	"github.com/matzehuels/crosswire/pkg/codec/native"
	pkgio "github.com/matzehuels/crosswire/pkg/io"
	"github.com/matzehuels/crosswire/pkg/pipeline"
)

type infoOpts struct {
	input inputFlags
	json  bool
	quick bool
}

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var opts infoOpts

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show puzzle metadata, grid size and clue lists",
		Long: `Show puzzle metadata, grid size and clue lists.

--quick reads only the metadata of JPZ documents, or the version header of
native files, without building the puzzle. This also works for files that
fail full validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd, args[0], &opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&opts.quick, "quick", false, "peek at JPZ metadata or the native version without a full parse")

	return cmd
}

func (c *CLI) runInfo(cmd *cobra.Command, path string, opts *infoOpts) error {
	ctx := cmd.Context()
	data, err := pkgio.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	po := opts.input.options(path)

	if opts.quick {
		fc, err := pipeline.DefaultRegistry().Resolve(po.From, po.Filename, data)
		if err != nil {
			return err
		}
		switch fc.Format() {
		case codec.FormatJPZ:
			s, err := jpz.Peek(bytes.NewReader(data))
			if err != nil {
				return err
			}
			if opts.json {
				return pkgio.WriteJSON(cmd.OutOrStdout(), s)
			}
			printPeek(path, s)
			return nil
		case codec.FormatNative:
			v, err := native.Version(bytes.NewReader(data))
			if err != nil {
				return err
			}
			h := nativeHeader{Format: codec.FormatNative, Version: v, Latest: native.LatestVersion}
			if opts.json {
				return pkgio.WriteJSON(cmd.OutOrStdout(), h)
			}
			printKeyValue("Format", string(h.Format))
			printKeyValue("Version", fmt.Sprintf("%d (latest %d)", h.Version, h.Latest))
			return nil
		}
		if !opts.json {
			printWarning("--quick only applies to jpz and native; reading %s in full", fc.Format())
		}
	}

	runner, err := c.newRunner(ctx, opts.input.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p, info, err := runner.Parse(ctx, data, po)
	if err != nil {
		return err
	}
	s := pkgio.Summarize(p, info.Format)
	if opts.json {
		return pkgio.WriteJSON(cmd.OutOrStdout(), s)
	}
	printSummary(path, s, info.CacheHit)
	return nil
}

// nativeHeader is what --quick reports for native files.
type nativeHeader struct {
	Format  codec.Format `json:"format"`
	Version int          `json:"version"`
	Latest  int          `json:"latest_version"`
}

func printSummary(path string, s pkgio.Summary, cached bool) {
	fmt.Println(StyleTitle.Render(titleOr(s.Title, path)))
	fmt.Println()
	printKeyValue("Format", string(s.Format))
	printKeyValue("Kind", s.Kind)
	printOptional("Author", s.Author)
	printOptional("Copyright", s.Copyright)
	printOptional("Source", s.Source)
	printOptional("Date", s.Date)
	printKeyValue("Grid", fmt.Sprintf("%s (%d cells, %d blocks)", s.Size(), s.Cells, s.Blocks))
	printKeyValue("Solution", yesNo(s.HasSolution))
	printKeyValue("Progress", fmt.Sprintf("%d%% filled, %d%% correct", s.PercentFilled, s.PercentComplete))
	printKeyValue("Hash", s.Hash)

	if len(s.Lists) > 0 {
		rows := make([][]string, len(s.Lists))
		for i, l := range s.Lists {
			rows[i] = []string{l.Name, StyleNumber.Render(strconv.Itoa(l.Clues))}
		}
		fmt.Println()
		fmt.Println(renderTable([]string{"List", "Clues"}, rows))
	}
	if cached {
		printDetail("parsed from cache")
	}
}

func printPeek(path string, s *jpz.Summary) {
	fmt.Println(StyleTitle.Render(titleOr(s.Title, path)))
	fmt.Println()
	printKeyValue("Format", string(codec.FormatJPZ))
	kind := "crossword"
	if s.Acrostic {
		kind = "acrostic"
	}
	printKeyValue("Kind", kind)
	printOptional("Creator", s.Creator)
	printOptional("Copyright", s.Copyright)
	printKeyValue("Grid", fmt.Sprintf("%dx%d", s.Width, s.Height))
	printKeyValue("Clues", strconv.Itoa(s.Clues))
	if len(s.Lists) > 0 {
		printKeyValue("Lists", strings.Join(s.Lists, ", "))
	}
}

func printOptional(key, value string) {
	if value != "" {
		printKeyValue(key, value)
	}
}

func titleOr(title, path string) string {
	if title != "" {
		return title
	}
	return path
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
