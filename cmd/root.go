package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/tvx/internal/ui"
	"github.com/oakwood-commons/tvx/pkg/loader"
	"github.com/oakwood-commons/tvx/pkg/logger"
	"github.com/oakwood-commons/tvx/pkg/settings"
)

var (
	expression     string
	themeName      string
	keyModeName    string
	sortKeys       bool
	showUnits      bool
	noColor        bool
	debug          bool
	renderSnapshot bool
	snapshotWidth  int
	snapshotHeight int
	configFile     string

	rootCtx context.Context
)

var (
	stdinIsPiped  = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	stdoutIsPiped = func() bool { stat, _ := os.Stdout.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	reExecSelf    = reExecWithFile
)

var rootCmd = &cobra.Command{
	Use:   "tvx [file] [subitem]",
	Short: "Terminal viewer for tabular and structured data files",
	Long: "tvx loads CSV, TSV, Excel, SQLite, JSON, YAML, and TOML files into a\n" +
		"spreadsheet-like terminal view with row filtering. Nested data renders as\n" +
		"an expandable tree. With no file argument tvx reads piped stdin as CSV,\n" +
		"or opens a file picker on a terminal.",
	Example: "\n  tvx data.csv\n  tvx book.xlsx Sheet2\n  tvx app.db users\n  tvx data.csv -e 'age > 30'\n  cat data.csv | tvx --snapshot\n",
	Args:    cobra.MaximumNArgs(2),
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Map the debug flag to the zap level: debug => -1, else info (0).
		var level int8 = 0
		if debug {
			level = -1
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
	},
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print tvx version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

func runRoot(cmd *cobra.Command, args []string) error {
	lgr := logger.FromContext(rootCtx)

	cfg, err := loadConfig(resolveConfigPath(configFile))
	if err != nil {
		return err
	}
	opts, err := resolveOptions(cmd, cfg)
	if err != nil {
		return err
	}

	params := settings.NewCliParams()
	if debug {
		params.MinLogLevel = -1
	}
	params.NoColor = opts.Theme.NoColor

	var snap *loader.Snapshot
	switch {
	case len(args) > 0:
		subitem := ""
		if len(args) > 1 {
			subitem = args[1]
		}
		snap, err = loader.Load(args[0], subitem)
		params.Input = settings.InputSettings{Path: args[0], Subitem: subitem}
	case stdinIsPiped():
		var tmpPath string
		snap, tmpPath, err = loader.LoadStdin(os.Stdin)
		if tmpPath != "" {
			defer os.Remove(tmpPath)
		}
		params.Input = settings.InputSettings{Path: tmpPath, FromStdin: true}
	default:
		if stdoutIsPiped() {
			return errors.New("no input: pass a file argument or pipe data on stdin")
		}
		chosen, pickErr := ui.PickFile(".", opts.Theme)
		if pickErr != nil {
			return pickErr
		}
		if chosen == "" {
			return nil
		}
		return reExecSelf(chosen)
	}
	if err != nil {
		return err
	}
	rootCtx = settings.IntoContext(rootCtx, params)
	lgr.V(1).Info("input loaded",
		"source", snap.Source, "datasets", len(snap.Datasets), "from_stdin", params.Input.FromStdin)

	width, height := detectTerminalSize()
	if snapshotWidth > 0 {
		width = snapshotWidth
	}
	if snapshotHeight > 0 {
		height = snapshotHeight
	}

	if renderSnapshot || stdoutIsPiped() {
		out, renderErr := ui.RenderSnapshot(snap, ui.SnapshotOptions{
			Expr:      opts.InitialExpr,
			Width:     width,
			SortKeys:  opts.SortKeys,
			ShowUnits: opts.ShowUnits,
			Logger:    opts.Logger,
		})
		if renderErr != nil {
			return renderErr
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	}

	var progOpts []tea.ProgramOption
	if params.Input.FromStdin {
		// Stdin is the data stream, so the TUI reads keys from the terminal
		// device instead.
		tty, ttyErr := openTerminalInput()
		if ttyErr != nil {
			return fmt.Errorf("stdin is piped and no terminal is available for interactive mode: %w", ttyErr)
		}
		defer tty.Close()
		progOpts = append(progOpts, tea.WithInput(tty))
	}
	return ui.Run(snap, opts, width, height, progOpts...)
}

// resolveOptions merges defaults, the config file, and flags, in that order.
// A flag only overrides config when it was set on the command line.
func resolveOptions(cmd *cobra.Command, cfg fileConfig) (ui.Options, error) {
	opts := ui.DefaultOptions()

	if cfg.Theme != "" {
		th, err := ui.ThemeByName(cfg.Theme)
		if err != nil {
			return opts, err
		}
		opts.Theme = th
	}
	if cfg.KeyMode != "" {
		km, err := keyModeByName(cfg.KeyMode)
		if err != nil {
			return opts, err
		}
		opts.KeyMode = km
	}
	if cfg.SortKeys != nil {
		opts.SortKeys = *cfg.SortKeys
	}
	if cfg.ShowUnits != nil {
		opts.ShowUnits = *cfg.ShowUnits
	}
	if cfg.NoColor != nil {
		opts.Theme.NoColor = *cfg.NoColor
	}

	if cmd.Flags().Changed("theme") {
		th, err := ui.ThemeByName(themeName)
		if err != nil {
			return opts, err
		}
		nc := opts.Theme.NoColor
		opts.Theme = th
		opts.Theme.NoColor = nc
	}
	if cmd.Flags().Changed("keymap") {
		km, err := keyModeByName(keyModeName)
		if err != nil {
			return opts, err
		}
		opts.KeyMode = km
	}
	if cmd.Flags().Changed("sort-keys") {
		opts.SortKeys = sortKeys
	}
	if cmd.Flags().Changed("show-units") {
		opts.ShowUnits = showUnits
	}
	if cmd.Flags().Changed("no-color") {
		opts.Theme.NoColor = noColor
	}
	opts.InitialExpr = expression
	opts.Logger = *logger.FromContext(rootCtx)
	return opts, nil
}

func keyModeByName(name string) (ui.KeyMode, error) {
	mode := ui.KeyMode(strings.ToLower(strings.TrimSpace(name)))
	for _, valid := range ui.ValidKeyModes {
		if mode == valid {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown key mode %q (available: vim, function)", name)
}

// reExecWithFile runs tvx again as a child process with the picked file. The
// parent exits 0 regardless of the child's status; the child reports its own
// errors.
func reExecWithFile(path string) error {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	child := exec.Command(exe, path)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return err
	}
	return nil
}

func openTerminalInput() (*os.File, error) {
	name := "/dev/tty"
	if runtime.GOOS == "windows" {
		name = "CONIN$"
	}
	return os.OpenFile(name, os.O_RDWR, 0)
}

// detectTerminalSize returns the best-effort terminal width/height by probing
// stdout, stderr, and stdin, then falling back to $COLUMNS.
func detectTerminalSize() (int, int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return 0, 0
}

func cliVersionString() string {
	info := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, info.BuildVersion, info.Commit, info.BuildTime, runtime.Version())
}

func init() { //nolint:gochecknoinits
	rootCmd.Flags().StringVarP(&expression, "expression", "e", "", "filter expression applied before the first frame, e.g. 'age > 30'")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "theme name: dark or light (default from config)")
	rootCmd.Flags().StringVar(&keyModeName, "keymap", "", "keybinding mode: vim (default) or function")
	rootCmd.Flags().BoolVar(&sortKeys, "sort-keys", true, "sort map keys in tree view")
	rootCmd.Flags().BoolVar(&showUnits, "show-units", false, "verbose tree labels with [dict]/[list] markers and counts")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging on stderr")
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render once to stdout and exit; honors --width/--height")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "output width in columns (0 = detect)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "output height in rows (0 = detect)")
	rootCmd.Flags().StringVar(&configFile, "config-file", "", "path to a YAML config file")
	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
