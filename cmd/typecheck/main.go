// Command typecheck is the checker's demonstration front door: it runs
// the library's six end-to-end scenarios (or one, named, at a time) and
// prints each binding's generalized type and any diagnostic raised,
// colorized the way the teacher's REPL colorizes its own output. A
// "repl" subcommand offers the same six scenarios interactively.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/glyphlang/glyph/internal/checker"
	"github.com/glyphlang/glyph/internal/config"
	"github.com/glyphlang/glyph/internal/diagnostics"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "typecheck",
		Short: "Run the constraint-based checker's demonstration scenarios",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a solver config YAML file (defaults to config.Default())")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Check one named scenario, or all of them if none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				runAll(cfg)
				return nil
			}
			return runNamed(cfg, args[0])
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively pick a scenario to check",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runREPL(cfg)
		},
	}

	root.AddCommand(runCmd, replCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runAll(cfg *config.Config) {
	fmt.Println(bold("Constraint-based checker — demonstration scenarios"))
	fmt.Println("===================================================")
	for _, sc := range scenarios() {
		runOne(cfg, sc)
	}
}

func runNamed(cfg *config.Config, name string) error {
	for _, sc := range scenarios() {
		if sc.Name == name {
			runOne(cfg, sc)
			return nil
		}
	}
	return fmt.Errorf("unknown scenario %q (try one of: %s)", name, scenarioNames())
}

func scenarioNames() string {
	var names []string
	for _, sc := range scenarios() {
		names = append(names, sc.Name)
	}
	sort.Strings(names)
	return namesJoined(names)
}

func runOne(cfg *config.Config, sc scenario) {
	fmt.Printf("\n%s %s\n", cyan("scenario:"), bold(sc.Name))

	result := checker.CheckProgram(sc.Prog, sc.Kind, cfg)

	for _, group := range result.Program.Groups {
		for _, binding := range group {
			fmt.Printf("  %s : %s\n", binding.Name, binding.Type)
		}
	}
	for _, inst := range result.Program.Instances {
		var names []string
		for name := range inst.Methods {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("  %s %s %s instance methods: %s\n", dim("dfun"), inst.Class, inst.DFunName, namesJoined(names))
	}

	if len(result.Diagnostics) == 0 {
		fmt.Printf("  %s\n", green("no diagnostics"))
		return
	}
	for _, d := range result.Diagnostics {
		fmt.Print(indent(diagnostics.Render(d)))
	}
}

func namesJoined(names []string) string {
	return strings.Join(names, ", ")
}

func indent(s string) string {
	var out strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		out.WriteString("  ")
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func runREPL(cfg *config.Config) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(os.TempDir(), ".typecheck_history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	line.SetCompleter(func(prefix string) []string {
		var matches []string
		for _, sc := range scenarios() {
			if strings.HasPrefix(sc.Name, prefix) {
				matches = append(matches, sc.Name)
			}
		}
		return matches
	})

	fmt.Println(bold("checker repl") + dim(" — type a scenario name, 'list', or 'quit'"))
	started := time.Now()
	for {
		input, err := line.Prompt("> ")
		if err != nil {
			fmt.Println()
			break
		}
		line.AppendHistory(input)
		switch input {
		case "quit", "exit":
			fmt.Printf("%s session lasted %s\n", dim("bye —"), time.Since(started).Round(time.Millisecond))
			return nil
		case "list":
			fmt.Println(scenarioNames())
		case "":
		default:
			if err := runNamed(cfg, input); err != nil {
				fmt.Println(red(err.Error()))
			}
		}
	}
	return nil
}
