package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/matchck/internal/baseline"
	"github.com/funvibe/matchck/internal/config"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/fixture"
)

const usage = `matchck - match exhaustiveness and reachability checker

Usage:
  matchck [flags] <fixture.yaml | dir>...

Flags:
  -baseline <file>   sqlite verdict history; only new findings fail the run
  -color <mode>      auto, always or never (default auto)
  -q                 only print failing matches
`

// isFixtureFile checks if a file has a recognized fixture extension
func isFixtureFile(path string) bool {
	for _, ext := range config.FixtureFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func collectFixtures(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && isFixtureFile(path) && filepath.Base(path) != config.ConfigFileName {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

type printer struct {
	color bool
	quiet bool
}

func (p *printer) colored(code, text string) string {
	if !p.color {
		return text
	}
	return code + text + "\x1b[0m"
}

func (p *printer) red(s string) string    { return p.colored("\x1b[31m", s) }
func (p *printer) yellow(s string) string { return p.colored("\x1b[33m", s) }
func (p *printer) green(s string) string  { return p.colored("\x1b[32m", s) }

func (p *printer) printResult(file string, r fixture.MatchResult) {
	if len(r.Diags) == 0 {
		if !p.quiet {
			fmt.Printf("%s %s: %s\n", p.green("ok"), file, r.Name)
		}
		return
	}
	for _, d := range r.Diags {
		label := p.red(string(d.Code))
		if d.Code == diagnostics.ErrM004 {
			label = p.yellow(string(d.Code))
		}
		fmt.Printf("%s %s: %s: %s\n", label, file, r.Name, d.Message)
	}
}

func run() int {
	fs := flag.NewFlagSet("matchck", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	baselinePath := fs.String("baseline", "", "sqlite verdict history")
	colorMode := fs.String("color", "", "auto, always or never")
	quiet := fs.Bool("q", false, "only print failing matches")
	fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "matchck:", err)
		return 2
	}
	if cfg.MaxDepth > 0 {
		config.MaxCheckDepth = cfg.MaxDepth
	}
	if cfg.MaxWitnesses > 0 {
		config.MaxWitnesses = cfg.MaxWitnesses
	}
	if *baselinePath == "" {
		*baselinePath = cfg.Baseline
	}
	if *colorMode == "" {
		*colorMode = cfg.Color
	}

	p := &printer{quiet: *quiet}
	switch *colorMode {
	case "always":
		p.color = true
	case "never":
		p.color = false
	default:
		p.color = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	files, err := collectFixtures(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "matchck:", err)
		return 2
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "matchck: no fixture files found")
		return 2
	}

	var verdicts []baseline.Verdict
	broken := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, "matchck:", err)
			broken = true
			continue
		}
		f, err := fixture.Load(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "matchck: %s: %v\n", file, err)
			broken = true
			continue
		}
		if cfg.Module != "" && f.Module == config.LocalModule {
			f.Module = cfg.Module
		}
		results, err := f.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "matchck: %s: %v\n", file, err)
			broken = true
			continue
		}
		for _, r := range results {
			p.printResult(file, r)
			for _, d := range r.Diags {
				verdicts = append(verdicts, baseline.Verdict{
					Fixture: file,
					Match:   r.Name,
					Code:    string(d.Code),
					Detail:  d.Message,
				})
			}
		}
	}
	if broken {
		return 2
	}

	if *baselinePath != "" {
		store, err := baseline.Open(*baselinePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "matchck:", err)
			return 2
		}
		defer store.Close()
		fresh, err := store.NewFindings(verdicts)
		if err != nil {
			fmt.Fprintln(os.Stderr, "matchck:", err)
			return 2
		}
		if _, err := store.RecordRun(verdicts); err != nil {
			fmt.Fprintln(os.Stderr, "matchck:", err)
			return 2
		}
		if len(fresh) == 0 {
			if !p.quiet {
				fmt.Printf("%s %d finding(s), none new against baseline\n", p.green("ok"), len(verdicts))
			}
			return 0
		}
		fmt.Printf("%s %d new finding(s) against baseline\n", p.red("fail"), len(fresh))
		return 1
	}

	if len(verdicts) > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
