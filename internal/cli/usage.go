// internal/cli/usage.go
package cli

import (
	"flag"
	"fmt"

	"meshwidth/internal/config"
	"meshwidth/internal/version"
)

// NewFlagSet returns a ContinueOnError FlagSet that stays silent until
// ParseArgs installs the grouped usage.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {}
	return fs
}

// UsageCommon installs the grouped Usage() handler on fs.
func UsageCommon(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – cell width profiles and threshold statistics from mesh CSVs\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintf(out, "Usage:\n  %s [flags] cells.csv [more.csv ...]\n", name)
		fmt.Fprintf(out, "  %s --output json --seed 7 'data/*.csv'\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -i, --inputs file           Mesh CSV file(s) (repeatable, .gz ok) or '-' for STDIN")
		fmt.Fprintln(out, "      --env-file file         Read MESHWIDTH_* defaults from file [.env if present]")

		fmt.Fprintln(out, "\nAnalysis:")
		fmt.Fprintf(out, "      --scale float           Mesh units per micrometer [%s]\n", def("scale"))
		fmt.Fprintf(out, "  -n, --sample-size int       Max cells analyzed per dataset [%s]\n", def("sample-size"))
		fmt.Fprintf(out, "      --thresholds list       Comma-separated width thresholds in µm [%s]\n", def("thresholds"))
		fmt.Fprintf(out, "      --seed uint             Sampling seed (0=random) [%s]\n", def("seed"))
		fmt.Fprintf(out, "      --sample-order string   parsed | raw [%s]\n", def("sample-order"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int           Cell workers per dataset (0=all CPUs) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --dataset-threads int   Datasets processed at once (0=all CPUs) [%s]\n", def("dataset-threads"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         Output: text | json | jsonl | xlsx [%s]\n", def("output"))
		fmt.Fprintf(out, "      --profiles              Include per-cell width profiles [%s]\n", def("profiles"))
		fmt.Fprintf(out, "      --pretty                Pretty ASCII summary block (text) [%s]\n", def("pretty"))
		fmt.Fprintf(out, "      --sort                  Sort datasets by label [%s]\n", def("sort"))
		fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))
		fmt.Fprintln(out, "      --plot file             Write the profile figure (.png, .jpg, ...)")
		fmt.Fprintf(out, "      --empty-exit-code int   Exit code when no dataset produced statistics [%s]\n", def("empty-exit-code"))

		fmt.Fprintln(out, "\nEnvironment:")
		fmt.Fprintf(out, "  %s %s %s\n  %s %s %s\n",
			config.EnvScale, config.EnvSampleSize, config.EnvThresholds,
			config.EnvSeed, config.EnvThreads, config.EnvSampleOrder)

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress non-essential warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
