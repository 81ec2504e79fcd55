package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/pipeline"
)

// formatValue is a pflag.Value holding a codec format name. An empty value
// means "not set" so callers can fall back to detection or config.
type formatValue struct {
	format codec.Format
}

var _ pflag.Value = (*formatValue)(nil)

func (f *formatValue) String() string { return string(f.format) }

func (f *formatValue) Set(s string) error {
	if err := pipeline.ValidateFormat(s); err != nil {
		return err
	}
	f.format = codec.Format(strings.ToLower(s))
	return nil
}

func (f *formatValue) Type() string { return "format" }

// formatFlag registers a format flag on fs with shell completion of the
// known format names.
func formatFlag(cmd *cobra.Command, fs *pflag.FlagSet, v *formatValue, name, shorthand, usage string) {
	fs.VarP(v, name, shorthand, usage+" ("+strings.Join(pipeline.DefaultRegistry().FormatNames(), ", ")+")")
	_ = cmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.DefaultRegistry().FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// inputFlags are the flags shared by every command that reads puzzles.
type inputFlags struct {
	from    formatValue
	noCache bool
	refresh bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	formatFlag(cmd, cmd.Flags(), &f.from, "from", "", "input format, detected when empty")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the conversion cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cache reads")
}

// options returns pipeline options for reading path.
func (f *inputFlags) options(path string) pipeline.Options {
	opts := pipeline.Options{From: string(f.from.format), Refresh: f.refresh}
	if path != "" && path != "-" {
		opts.Filename = path
	}
	return opts
}
