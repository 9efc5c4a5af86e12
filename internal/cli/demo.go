package cli

import (
	"github.com/spf13/cobra"

	"github.com/LFalch/broytari/internal/ir"
	"github.com/LFalch/broytari/internal/phonology"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print the built-in demo phonology",
		Long: `Print the report of a small built-in Norwegian consonant phonology.

Running broytari without a subcommand does the same.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, cmd)
		},
	}
}

func runDemo(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	report := DemoPhonology().Report()
	if formatter.JSON() {
		return formatter.Success(report)
	}
	return report.WriteText(formatter.Writer)
}

// DemoPhonology builds the demo dataset: Norwegian consonants by manner and
// place, with voicing.
func DemoPhonology() *phonology.Phonology {
	ph := phonology.New()
	categories := []struct {
		name   string
		phones []ir.Phone
	}{
		{"plosive", []ir.Phone{"p", "t", "k", "b", "d", "g"}},
		{"nasal", []ir.Phone{"m", "n", "ng"}},
		{"fricative", []ir.Phone{"f", "v", "s", "sj", "kj", "h"}},
		{"approximant", []ir.Phone{"l", "j"}},
		{"rhotic", []ir.Phone{"r"}},
		{"labial", []ir.Phone{"p", "b", "m", "v"}},
		{"alveolar", []ir.Phone{"t", "d", "n", "r", "l"}},
		{"palatal", []ir.Phone{"sj", "kj", "j"}},
		{"velar", []ir.Phone{"ng", "k", "g"}},
		{"glottal", []ir.Phone{"h"}},
	}
	for _, c := range categories {
		cat := ph.AddCategory(c.name)
		for _, p := range c.phones {
			cat.Add(p)
		}
	}

	voiced := ph.AddFeature("voiced")
	for _, p := range []ir.Phone{"b", "d", "g", "v", "r", "l", "j", "m", "n", "ng"} {
		voiced.Plus(p)
	}
	for _, p := range []ir.Phone{"p", "t", "k", "f", "s", "h", "sj", "kj"} {
		voiced.Minus(p)
	}
	return ph
}
