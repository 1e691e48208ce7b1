/*
Command prep-wiktextract turns a streaming wiktextract JSON dump into a
.fldic dictionary.

	prep-wiktextract --src dump.jsonl --dst en.fldic [--config config.json] [--filter root] [--stats stats.json]

Only --src and --dst are required; --config defaults to a permissive
configuration with no project-specific words and no named filters, in
which every grammatically valid word is kept as normal.

Exits 0 on success. Exits 1 if a required path is missing or empty, if the
source or a given config path does not exist, or a flag value is malformed.
Unknown flags are ignored with a warning.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/florisboard/nlp/pkg/wiktextract"

	"github.com/charmbracelet/log"
)

const defaultFilterName = "root"

type cliFlags struct {
	src    string
	dst    string
	config string
	filter string
	stats  string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v. Aborting.\n", err)
		return 1
	}

	if flags.src == "" {
		fmt.Fprintln(os.Stderr, "Fatal: No source path specified! Aborting.")
		return 1
	}
	if _, err := os.Stat(flags.src); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Given source path %q does not exist! Aborting.\n", flags.src)
		return 1
	}
	if flags.dst == "" {
		fmt.Fprintln(os.Stderr, "Fatal: No destination path specified! Aborting.")
		return 1
	}
	if flags.filter == "" {
		fmt.Fprintln(os.Stderr, "Fatal: No filter name specified! Aborting.")
		return 1
	}

	cfg := wiktextract.DefaultConfig()
	if flags.config != "" {
		if _, err := os.Stat(flags.config); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal: Given config path %q does not exist! Aborting.\n", flags.config)
			return 1
		}
		loaded, err := wiktextract.LoadConfig(flags.config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal: %v. Aborting.\n", err)
			return 1
		}
		cfg = loaded
	} else {
		log.Debug("no --config given, running with the default (permissive, no project-specific words) configuration")
	}

	preprocessor := wiktextract.New(cfg, flags.dst)
	if err := preprocessor.Run(flags.src, flags.filter); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v. Aborting.\n", err)
		return 1
	}
	if err := preprocessor.Dict.Persist(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v. Aborting.\n", err)
		return 1
	}
	if flags.stats != "" {
		if err := preprocessor.Stats.WriteJSON(flags.stats); err != nil {
			log.Errorf("writing stats file: %v", err)
		}
	}

	return 0
}

// parseFlags implements the exact `--flag value` surface required by the
// spec, independent of the standard flag package so unknown flags can be
// warned about and skipped rather than aborting the run.
func parseFlags(args []string) (cliFlags, error) {
	flags := cliFlags{filter: defaultFilterName}

	i := 0
	for i < len(args) {
		arg := args[i]
		switch arg {
		case "--src":
			v, n, err := takeValue(args, i, "source path")
			if err != nil {
				return flags, err
			}
			flags.src = v
			i = n
		case "--dst":
			v, n, err := takeValue(args, i, "destination path")
			if err != nil {
				return flags, err
			}
			flags.dst = v
			i = n
		case "--config":
			v, n, err := takeValue(args, i, "config path")
			if err != nil {
				return flags, err
			}
			flags.config = v
			i = n
		case "--filter":
			v, n, err := takeValue(args, i, "filter name")
			if err != nil {
				return flags, err
			}
			flags.filter = v
			i = n
		case "--stats":
			v, n, err := takeValue(args, i, "statistics path")
			if err != nil {
				return flags, err
			}
			flags.stats = v
			i = n
		default:
			fmt.Fprintf(os.Stderr, "Warning: Unknown flag %q. Ignoring.\n", arg)
			i++
		}
	}

	flags.src = strings.TrimSpace(flags.src)
	flags.dst = strings.TrimSpace(flags.dst)
	flags.config = strings.TrimSpace(flags.config)
	flags.filter = strings.TrimSpace(flags.filter)
	flags.stats = strings.TrimSpace(flags.stats)
	return flags, nil
}

func takeValue(args []string, i int, name string) (string, int, error) {
	if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
		return args[i+1], i + 2, nil
	}
	return "", 0, fmt.Errorf("using %s flag without a corresponding value", name)
}
