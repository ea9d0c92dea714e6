package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"

	wisp "github.com/EternoSeeker/wisp"
)

const (
	appName = "wisp"

	historyFile = ".wisp_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var (
	banner   = fmt.Sprintf("Wisp %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", wisp.Version)
	helpText = `
REPL commands:
  :quit        Exit the REPL
  :help        Show this help
  :env         Dump the persistent global bindings
  :ast <expr>  Parse an expression and dump its syntax tree
`
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "test":
		os.Exit(cmdTest(os.Args[2:]))
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "version":
		fmt.Println(wisp.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Wisp %s (built %s)

Usage:
  %s run <file.wisp>          Run a program.
  %s repl                     Start the REPL.
  %s test [suite.yaml ...]    Run conformance suites (default testdata/*.yaml).
  %s ast <file.wisp>          Parse a program and dump its syntax tree.
  %s version                  Print the version.

`, wisp.Version, wisp.BuildDate, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.wisp>\n", appName)
		return 2
	}
	file := args[0]

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := wisp.NewInterpreter()
	if _, err := ip.EvalNamedSource(file, string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func historyPath() string {
	if p := os.Getenv("WISP_HISTFILE"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, historyFile)
}

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	histPath := historyPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := wisp.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if strings.HasPrefix(trimmed, ":") {
			if quit := replCommand(ip, trimmed); quit {
				return 0
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(blue(wisp.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// replCommand handles one ":" command and reports whether to quit.
func replCommand(ip *wisp.Interpreter, cmd string) bool {
	switch {
	case cmd == ":quit":
		return true
	case cmd == ":help":
		fmt.Print(helpText)
	case cmd == ":env":
		spew.Dump(ip.Global.Bindings())
	case strings.HasPrefix(cmd, ":ast"):
		src := strings.TrimSpace(strings.TrimPrefix(cmd, ":ast"))
		if src == "" {
			fmt.Println("usage: :ast <expr>")
			return false
		}
		root, err := wisp.Parse(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return false
		}
		spew.Dump(root)
	default:
		fmt.Printf("unknown command. Type :help for commands.\n")
	}
	return false
}

// readByParseProbe reads lines until the buffer parses as a complete
// program. An incomplete parse (open argument list, unterminated string)
// switches to the continuation prompt; any other parse error returns the
// text as-is so evaluation can report it.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := wisp.ParseInteractive(src)
		if perr == nil {
			return src, true
		}
		if wisp.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// -----------------------------------------------------------------------------
// test
// -----------------------------------------------------------------------------

func cmdTest(args []string) int {
	files := args
	if len(files) == 0 {
		if matches, err := filepath.Glob(filepath.Join("testdata", "*.yaml")); err == nil {
			files = matches
		}
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no suite files given and none under testdata/\n", appName)
		return 1
	}

	pass, fail := 0, 0
	for _, path := range files {
		s, err := wisp.LoadSuite(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			fail++
			continue
		}
		fmt.Printf("%s (%s)\n", s.Name, path)
		for i := range s.Cases {
			c := &s.Cases[i]
			if err := c.Run(); err != nil {
				fmt.Printf("  %s %s: %s\n", red("FAIL"), c.Name, err)
				fail++
				continue
			}
			fmt.Printf("  %s %s\n", green("PASS"), c.Name)
			pass++
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", pass, fail)
	if fail > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// ast
// -----------------------------------------------------------------------------

func cmdAst(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ast <file.wisp>\n", appName)
		return 2
	}
	file := args[0]

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	root, perr := wisp.Parse(string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, red(perr.Error()))
		return 1
	}
	spew.Dump(root)
	return 0
}
