package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// NewRootCmd builds the scout command bound to v.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scout [words...]",
		Short: "Find unregistered domain names over RDAP",
		Long: `scout checks whether <word>.<suffix> is registered by querying the
registry's RDAP service. Words come from the arguments or, when none are
given, from a dictionary filtered to a fixed length. Available names are
printed as they are found and saved to a file at the end of the run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, v, args)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (default is ./scout.yaml or ./config/scout.yaml)")
	flags.String("env", "local", "environment: local, dev or prod")

	flags.IntP("length", "l", 6, "word length to take from the dictionary")
	flags.String("dictionary", "/usr/share/dict/words", "newline-delimited dictionary file")
	flags.StringSlice("prefix", nil, "also check <prefix><word> for each prefix")
	flags.Bool("shuffle", true, "check candidates in random order")

	flags.StringP("suffix", "s", "com", "domain suffix to check")
	flags.String("endpoint", "", "RDAP endpoint; {} is replaced by the domain")

	flags.IntP("concurrency", "c", 20, "number of concurrent checks")
	flags.Int("max-attempts", 3, "attempts per candidate, including the first")
	flags.Duration("timeout", 10*time.Second, "per-request timeout")
	flags.Float64("rate", 0, "global request rate limit per second (0 disables)")
	flags.Bool("dns-prefilter", false, "treat names with NS records as taken without asking RDAP")

	flags.StringP("output", "o", "available_domains.txt", "file to write available domains to")
	flags.Bool("append", false, "append to the output file instead of replacing it")
	flags.String("status-addr", "", "serve the status API on this address, e.g. :8081")

	bindings := map[string]string{
		"config":                 "config",
		"env":                    "env",
		"words.length":           "length",
		"words.dictionary":       "dictionary",
		"words.prefixes":         "prefix",
		"words.shuffle":          "shuffle",
		"registry.suffix":        "suffix",
		"registry.endpoint":      "endpoint",
		"checks.concurrency":     "concurrency",
		"checks.max_attempts":    "max-attempts",
		"checks.timeout":         "timeout",
		"checks.rate_per_second": "rate",
		"checks.dns_prefilter":   "dns-prefilter",
		"output.path":            "output",
		"output.append":          "append",
		"server.status_addr":     "status-addr",
	}
	for key, name := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

// Execute runs the root command against the global viper instance.
func Execute() error {
	return NewRootCmd(viper.GetViper()).Execute()
}
