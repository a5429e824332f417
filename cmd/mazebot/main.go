package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/lhaig/mazebot/internal/ast"
	"github.com/lhaig/mazebot/internal/formatter"
	"github.com/lhaig/mazebot/internal/maze"
	"github.com/lhaig/mazebot/internal/parser"
	"github.com/lhaig/mazebot/internal/runner"
)

const usage = `mazebot - run maze robot programs

Usage:
  mazebot run [options] <file.robot>     Run a program against a level
  mazebot step [options] <file.robot>    Step through a program interactively
  mazebot check <file.robot>             Parse and lint only
  mazebot lint <file.robot>              Run lint checks
  mazebot fmt [-w] <file.robot>          Print canonical source (or rewrite with -w)
  mazebot ast <file.robot>               Print the parsed syntax tree
  mazebot levels [--level-dir <dir>]     List available levels

Options:
  --level <id>          Built-in level to use (default 1)
  --level-file <path>   Load the level from a YAML file
  --level-dir <dir>     Load levels from a directory instead of the built-ins
  --max-steps <n>       Stop a run after n commands (default 10000)
  --render              Print the maze after the run
  --trace               Log execution details to stderr

Examples:
  mazebot run --level 3 solve.robot
  mazebot step --level-file mazes/spiral.yaml solve.robot
  mazebot fmt -w solve.robot
`

const historyFile = ".mazebot_history"

type options struct {
	file      string
	levelID   int
	levelFile string
	levelDir  string
	maxSteps  int
	render    bool
	trace     bool
	write     bool
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		handleRun(parseArgs(os.Args[2:]))
	case "step":
		handleStep(parseArgs(os.Args[2:]))
	case "check":
		handleCheck(parseArgs(os.Args[2:]))
	case "lint":
		handleLint(parseArgs(os.Args[2:]))
	case "fmt":
		handleFmt(parseArgs(os.Args[2:]))
	case "ast":
		handleAST(parseArgs(os.Args[2:]))
	case "levels":
		handleLevels(parseArgs(os.Args[2:]))
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func parseArgs(args []string) options {
	opts := options{levelID: 1}

	value := func(i int) string {
		if i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "Error: %s requires a value\n", args[i])
			os.Exit(1)
		}
		return args[i+1]
	}
	number := func(i int) int {
		n, err := strconv.Atoi(value(i))
		if err != nil || n < 0 {
			fmt.Fprintf(os.Stderr, "Error: %s expects a non-negative number\n", args[i])
			os.Exit(1)
		}
		return n
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--level":
			opts.levelID = number(i)
			i++
		case "--level-file":
			opts.levelFile = value(i)
			i++
		case "--level-dir":
			opts.levelDir = value(i)
			i++
		case "--max-steps":
			opts.maxSteps = number(i)
			i++
		case "--render":
			opts.render = true
		case "--trace":
			opts.trace = true
		case "-w":
			opts.write = true
		default:
			if strings.HasPrefix(args[i], "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
				os.Exit(1)
			}
			opts.file = args[i]
		}
	}

	setupLogging(opts.trace)
	return opts
}

func setupLogging(trace bool) {
	level := slog.LevelWarn
	if trace {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func readSource(opts options) string {
	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	source, err := os.ReadFile(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	return string(source)
}

func loadLevels(opts options) ([]*maze.Level, error) {
	if opts.levelDir != "" {
		return maze.LoadLevels(opts.levelDir)
	}
	return maze.BuiltinLevels()
}

func resolveLevel(opts options) *maze.Level {
	if opts.levelFile != "" {
		lvl, err := maze.LoadLevel(opts.levelFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		return lvl
	}

	levels, err := loadLevels(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	lvl, ok := maze.FindLevel(levels, opts.levelID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no level with id %d (see 'mazebot levels')\n", opts.levelID)
		os.Exit(1)
	}
	return lvl
}

func handleRun(opts options) {
	source := readSource(opts)
	lvl := resolveLevel(opts)

	sess, err := runner.NewSession(source, lvl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", opts.file, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := sess.Run(ctx, opts.maxSteps)

	fmt.Printf("Level %d: %s\n", lvl.ID, lvl.Name)
	fmt.Printf("Result: %s after %d command(s)\n", rep.Outcome, rep.Steps)
	if rep.Failure != "" {
		fmt.Printf("Error: %s\n", rep.Failure)
	}
	if err != nil {
		fmt.Printf("Stopped: %s\n", err)
	}
	if opts.render {
		fmt.Println(sess.Simulator().Render(lvl.FogOfWar))
	}

	if rep.Outcome != runner.Completed {
		os.Exit(2)
	}
}

const stepHelp = `Commands:
  <enter>, s, step    issue the next command
  p, play             run to the end (Ctrl-C pauses)
  r, reset            start the level again
  m, map              show the maze
  q, quit             leave
`

func handleStep(opts options) {
	source := readSource(opts)
	lvl := resolveLevel(opts)

	sess, err := runner.NewSession(source, lvl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", opts.file, err)
		os.Exit(1)
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("Level %d: %s\n", lvl.ID, lvl.Name)
	if lvl.Description != "" {
		fmt.Println(lvl.Description)
	}
	fmt.Println(sess.Simulator().Render(lvl.FogOfWar))
	fmt.Print(stepHelp)

	for {
		line, err := ln.Prompt(fmt.Sprintf("[%s] > ", sess.Outcome()))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			fmt.Println()
			return
		}
		cmd := strings.ToLower(strings.TrimSpace(line))
		if cmd != "" {
			ln.AppendHistory(cmd)
		}

		switch cmd {
		case "", "s", "step":
			printStep(sess.Step())
			fmt.Println(sess.Simulator().Render(lvl.FogOfWar))
		case "p", "play":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			_, err := sess.Play(ctx, 150*time.Millisecond, func(r runner.StepReport) {
				printStep(r)
			})
			stop()
			if errors.Is(err, context.Canceled) {
				fmt.Println("paused")
			}
			fmt.Println(sess.Simulator().Render(lvl.FogOfWar))
		case "r", "reset":
			sess.Reset()
			fmt.Println(sess.Simulator().Render(lvl.FogOfWar))
		case "m", "map":
			fmt.Println(sess.Simulator().Render(lvl.FogOfWar))
		case "q", "quit", "exit":
			return
		case "h", "help", "?":
			fmt.Print(stepHelp)
		default:
			fmt.Printf("unknown command %q. Type help for a list.\n", cmd)
		}
	}
}

func printStep(r runner.StepReport) {
	switch {
	case r.Command != "":
		fmt.Printf("line %d: %s -> %s facing %s\n", r.Line, r.Command, r.Position, r.Heading)
	case r.Outcome == runner.OutOfProgram:
		fmt.Println("program finished")
	}
	switch r.Outcome {
	case runner.Completed:
		fmt.Println("Goal reached!")
	case runner.Failed:
		fmt.Printf("Error: %s\n", r.Failure)
	}
}

func handleCheck(opts options) {
	source := readSource(opts)

	res := runner.Check(source)
	if res.Diagnostics.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", res.Diagnostics.Format(opts.file))
		os.Exit(1)
	}
	for _, d := range res.Diagnostics.All() {
		fmt.Printf("%s:%d: warning: %s\n", opts.file, d.Line, d.Message)
	}

	fmt.Println("No errors found.")
}

func handleLint(opts options) {
	source := readSource(opts)

	res := runner.Check(source)
	if res.Diagnostics.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", res.Diagnostics.Format(opts.file))
		os.Exit(1)
	}

	if res.Diagnostics.Count() == 0 {
		fmt.Println("No lint warnings.")
		return
	}

	fmt.Print(res.Diagnostics.Format(opts.file))
	fmt.Println()
	fmt.Printf("%d warning(s) found.\n", res.Diagnostics.Count())
}

func handleFmt(opts options) {
	source := readSource(opts)

	res := runner.Check(source)
	if res.Program == nil {
		fmt.Fprintf(os.Stderr, "%s\n", res.Diagnostics.Format(opts.file))
		os.Exit(1)
	}

	out := formatter.Format(res.Program)
	if !opts.write {
		fmt.Print(out)
		return
	}
	if out == source {
		return
	}
	if err := os.WriteFile(opts.file, []byte(out), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Formatted %s\n", opts.file)
}

func handleAST(opts options) {
	source := readSource(opts)

	prog, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", opts.file, err)
		os.Exit(1)
	}
	fmt.Print(ast.Print(prog))
}

func handleLevels(opts options) {
	levels, err := loadLevels(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	for _, lvl := range levels {
		fog := ""
		if lvl.FogOfWar {
			fog = " (fog of war)"
		}
		fmt.Printf("%3d  %-20s %dx%d, %d steps to the goal%s\n",
			lvl.ID, lvl.Name, lvl.Grid.Width(), lvl.Grid.Height(),
			lvl.NewSimulator().DistanceToGoal(), fog)
	}
}
