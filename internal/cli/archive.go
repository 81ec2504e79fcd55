package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosswire/pkg/archive"
	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	pkgio "github.com/matzehuels/crosswire/pkg/io"
)

// archiveCommand creates the archive command. Records live in the local
// data directory, or in MongoDB when archive.mongo_uri is set.
func (c *CLI) archiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve puzzles",
	}

	cmd.AddCommand(c.archiveAddCommand())
	cmd.AddCommand(c.archiveListCommand())
	cmd.AddCommand(c.archiveGetCommand())
	cmd.AddCommand(c.archiveRemoveCommand())

	return cmd
}

func (c *CLI) archiveAddCommand() *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Archive puzzles; identical puzzles are stored once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			arc, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer arc.Close()
			runner, err := c.newRunner(ctx, input.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinner(ctx, "Archiving...")
			spin.Start()
			var added, existing []*archive.Record
			for i, path := range args {
				spin.Update(fmt.Sprintf("Archiving %d/%d...", i+1, len(args)))
				data, err := pkgio.ReadInput(path, cmd.InOrStdin())
				if err != nil {
					spin.Stop()
					return err
				}
				p, info, err := runner.Parse(ctx, data, input.options(path))
				if err != nil {
					spin.Stop()
					return fmt.Errorf("%s: %w", path, err)
				}
				rec, existed, err := arc.Add(ctx, p, info.Format)
				if err != nil {
					spin.Stop()
					return err
				}
				if existed {
					existing = append(existing, rec)
				} else {
					added = append(added, rec)
				}
			}
			spin.Stop()

			for _, rec := range added {
				printSuccess("Archived %s", titleOr(rec.Title, rec.ID))
				printDetail("%s", rec.ID)
			}
			for _, rec := range existing {
				printInfo("Already archived: %s", titleOr(rec.Title, rec.ID))
				printDetail("%s", rec.ID)
			}
			if len(added) == 1 {
				printNextStep("Export it", "crosswire archive get "+added[0].ID+" -t jpz")
			}
			return nil
		},
	}

	input.register(cmd)
	return cmd
}

func (c *CLI) archiveListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List archived puzzles, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			arc, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer arc.Close()

			recs, err := arc.List(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				if recs == nil {
					recs = []archive.Record{}
				}
				return pkgio.WriteJSON(cmd.OutOrStdout(), recs)
			}
			if len(recs) == 0 {
				printInfo("Archive is empty")
				return nil
			}
			rows := make([][]string, len(recs))
			for i, r := range recs {
				rows[i] = []string{
					shortID(r.ID), r.Title, r.Author, r.Kind,
					strconv.Itoa(r.Width) + "x" + strconv.Itoa(r.Height),
					string(r.Source), r.CreatedAt.Local().Format("2006-01-02 15:04"),
				}
			}
			fmt.Println(renderTable([]string{"ID", "Title", "Author", "Kind", "Size", "From", "Added"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *CLI) archiveGetCommand() *cobra.Command {
	var (
		to     formatValue
		output string
		omit   bool
	)

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Write an archived puzzle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			arc, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer arc.Close()

			id, err := resolveID(ctx, arc, args[0])
			if err != nil {
				return err
			}
			p, rec, err := arc.Load(ctx, id)
			if err != nil {
				return err
			}
			format := to.format
			if format == "" {
				format = c.Config.OutputFormat
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			out, err := runner.Write(ctx, p, format, codec.Options{OmitPlayState: omit || c.Config.OmitPlayState})
			if err != nil {
				return err
			}
			if err := pkgio.WriteOutput(output, out, cmd.OutOrStdout()); err != nil {
				return err
			}
			if output != "" && output != pkgio.Stdio {
				printSuccess("Wrote %s", titleOr(rec.Title, rec.ID))
				printFile(output)
			}
			return nil
		},
	}

	formatFlag(cmd, cmd.Flags(), &to, "to", "t", "output format, default from config")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&omit, "omit-play-state", false, "drop responses, notes and other play state")
	return cmd
}

func (c *CLI) archiveRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an archived puzzle",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			arc, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer arc.Close()

			id, err := resolveID(ctx, arc, args[0])
			if err != nil {
				return err
			}
			if err := arc.Remove(ctx, id); err != nil {
				return err
			}
			printSuccess("Removed %s", id)
			return nil
		},
	}
}

// resolveID expands the short IDs printed by `archive list`.
func resolveID(ctx context.Context, arc *archive.Archive, id string) (string, error) {
	if cwerrors.ValidateRecordID(id) == nil {
		return id, nil
	}
	if id == "" {
		return "", cwerrors.New(cwerrors.ErrCodeInvalidInput, "record id cannot be empty")
	}
	recs, err := arc.List(ctx)
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range recs {
		if strings.HasPrefix(r.ID, id) {
			if match != "" {
				return "", cwerrors.New(cwerrors.ErrCodeInvalidInput, "id prefix %q is ambiguous", id)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", cwerrors.New(cwerrors.ErrCodeNotFound, "no archived puzzle %q", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
