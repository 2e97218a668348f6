// Package cli implements the linepatch command line front end.
package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/linepatch/linepatch"
	"github.com/linepatch/linepatch/internal/simplelogger"
)

// Version is the linepatch version. It is a var (not a const) so build tooling
// can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.1.0"

// RunOptions override standard I/O. If nil, defaults are used. Overriding is
// useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

const usage = `usage: linepatch <command> [flags]

Commands:
  gen OLD NEW        compute an anchored diff between two files (JSON)
  apply ORIG DIFF    apply a JSON diff to a file
  show DIFF          render a JSON diff for humans
  version            print the version

File arguments accept "-" for stdin. Run "linepatch <command> -h" for flags.
`

// usageError marks a user-facing misuse of arguments or flags.
type usageError string

func (e usageError) Error() string { return string(e) }

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound
//   - 2 -> err != nil, args parse error or misuse of flags
//
// In cases of errors, Run has already written a message to opts.Err (or
// stderr). Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	c := &context{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if opts != nil {
		if opts.In != nil {
			c.in = opts.In
		}
		if opts.Out != nil {
			c.out = opts.Out
		}
		if opts.Err != nil {
			c.err = opts.Err
		}
	}

	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}
	if len(argv) == 0 {
		fmt.Fprint(c.err, usage)
		return 2, errors.New("missing command")
	}

	cmd, rest := argv[0], argv[1:]
	var err error
	switch cmd {
	case "gen":
		err = c.runGen(rest)
	case "apply":
		err = c.runApply(rest)
	case "show":
		err = c.runShow(rest)
	case "version":
		fmt.Fprintln(c.out, "linepatch "+Version)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
	default:
		fmt.Fprintf(c.err, "linepatch: unknown command %q\n", cmd)
		fmt.Fprint(c.err, usage)
		return 2, fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintf(c.err, "linepatch %s: %v\n", cmd, err)
		var ue usageError
		if errors.As(err, &ue) {
			return 2, err
		}
		return 1, err
	}
	return 0, nil
}

// context carries one invocation's I/O.
type context struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func (c *context) runGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(c.err)
	outPath := fs.String("o", "", "write the diff to `file` instead of stdout")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if fs.NArg() != 2 {
		return usageError("gen requires exactly two file arguments")
	}

	oldText, err := c.readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	newText, err := c.readInput(fs.Arg(1))
	if err != nil {
		return err
	}

	d := linepatch.Generate(string(oldText), string(newText))
	simplelogger.Log("linepatch: gen %s %s -> %d blocks", fs.Arg(0), fs.Arg(1), len(d.Blocks))

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return c.writeOutput(*outPath, append(data, '\n'))
}

func (c *context) runApply(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(c.err)
	strict := fs.Bool("strict", cfg.Mode == "strict", "require references at their predicted positions")
	outPath := fs.String("o", "", "write the result to `file` instead of stdout")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if fs.NArg() != 2 {
		return usageError("apply requires exactly two file arguments")
	}

	original, err := c.readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	d, err := c.readDiff(fs.Arg(1))
	if err != nil {
		return err
	}

	mode := linepatch.SlightDeviance
	if *strict {
		mode = linepatch.Strict
	}
	text, err := linepatch.Apply(string(original), d, mode)
	switch {
	case linepatch.IsMalformedDiff(err):
		return fmt.Errorf("diff is malformed: %w", err)
	case linepatch.IsNonMatchingDiff(err):
		if mode == linepatch.Strict {
			return fmt.Errorf("diff does not match (consider retrying without -strict): %w", err)
		}
		return fmt.Errorf("diff does not match: %w", err)
	case err != nil:
		return err
	}
	simplelogger.Log("linepatch: applied %d blocks in %s mode", len(d.Blocks), mode)
	return c.writeOutput(*outPath, []byte(text))
}

func (c *context) runShow(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(c.err)
	colorMode := fs.String("color", cfg.Color, "when to colorize: auto, always, or never")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if fs.NArg() != 1 {
		return usageError("show requires exactly one file argument")
	}

	d, err := c.readDiff(fs.Arg(0))
	if err != nil {
		return err
	}
	if len(d.Blocks) == 0 {
		fmt.Fprintln(c.out, "no changes")
		return nil
	}

	color, err := c.colorEnabled(*colorMode)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, d.Render(color))
	return nil
}

func (c *context) colorEnabled(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		if f, ok := c.out.(*os.File); ok {
			return term.IsTerminal(int(f.Fd())), nil
		}
		return false, nil
	}
	return false, usageError(fmt.Sprintf("invalid color mode %q (want auto, always, or never)", mode))
}

func (c *context) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.in)
	}
	return os.ReadFile(path)
}

func (c *context) readDiff(path string) (linepatch.Diff, error) {
	data, err := c.readInput(path)
	if err != nil {
		return linepatch.Diff{}, err
	}
	var d linepatch.Diff
	if err := json.Unmarshal(data, &d); err != nil {
		return linepatch.Diff{}, fmt.Errorf("parse diff %s: %w", path, err)
	}
	return d, nil
}

func (c *context) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := c.out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
