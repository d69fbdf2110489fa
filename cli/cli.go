package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"apper/cli/prompt"
	"apper/config"
)

// Streams 是命令使用的标准输入输出。
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ExitError 携带命令希望进程返回的退出码。Err 为空表示无需额外输出错误信息。
type ExitError struct {
	Code ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Run 是 apper 的 CLI 入口：加载配置，解析命令行并以命令的返回值退出进程。
func Run() {
	os.Exit(run(context.Background(), os.Args[1:], Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}))
}

func run(ctx context.Context, args []string, streams Streams) int {
	return runWithConfig(ctx, config.Get(), args, streams)
}

func runWithConfig(ctx context.Context, cfg *config.Config, args []string, streams Streams) int {
	closer, err := config.InitLogger(cfg)
	if err != nil {
		fmt.Fprintf(streams.Err, "apper: %v\n", err)
	}
	defer closer.Close()
	config.Debugf("[config] %s", cfg.Summary())

	dir := cfg.SettingsDir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			fmt.Fprintf(streams.Err, "apper: 获取当前工作目录失败: %v\n", err)
			return int(ExitFail)
		}
	}
	settings, err := config.LoadSettings(dir, os.Environ())
	if err != nil {
		fmt.Fprintf(streams.Err, "apper: %v\n", err)
		return int(ExitFail)
	}
	config.Debugf("[config] %s", settings.Summary())

	app := NewApp(globalRegistry, streams, settings, prompt.ForInput(streams.In, streams.Out))
	return int(app.Execute(ctx, args))
}

// App 将 Registry 中的命令树交给 cobra 解析，并把匹配到的命令分发给对应的 CLICommand。
type App struct {
	registry  *Registry
	streams   Streams
	settings  config.Settings
	confirmer prompt.Confirmer
}

func NewApp(registry *Registry, streams Streams, settings config.Settings, confirmer prompt.Confirmer) *App {
	return &App{
		registry:  registry,
		streams:   streams,
		settings:  settings,
		confirmer: confirmer,
	}
}

// Execute 解析 args 并执行匹配到的命令，返回进程退出码。
// 用法错误（缺少必填参数、未知命令或选项）在命令执行前返回 ExitFail。
func (a *App) Execute(ctx context.Context, args []string) ExitCode {
	root := a.buildCommand(&rootCommand{registry: a.registry})
	root.SetArgs(args)
	root.SetIn(a.streams.In)
	root.SetOut(a.streams.Out)
	root.SetErr(a.streams.Err)
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.CompletionOptions.DisableDefaultCmd = true

	st := newStyles(a.streams.Err)
	cmd, err := root.ExecuteContextC(ctx)
	if cmd == nil {
		cmd = root
	}
	if err == nil {
		log.Printf("[cli] command=%q exit=%d", cmd.CommandPath(), ExitSuccess)
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(a.streams.Err, st.err.Render("Error: "+exitErr.Err.Error()))
		}
		log.Printf("[cli] command=%q exit=%d err=%v", cmd.CommandPath(), exitErr.Code, exitErr.Err)
		return exitErr.Code
	}

	// 其余错误均来自 cobra 的参数解析。
	log.Printf("[cli] usage error command=%q err=%v", cmd.CommandPath(), err)
	fmt.Fprintln(a.streams.Err, st.err.Render("Error: "+err.Error()))
	fmt.Fprintln(a.streams.Err, st.dim.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
	return ExitFail
}

// buildCommand 递归地把 CLICommand 转换为 cobra.Command。
func (a *App) buildCommand(c CLICommand) *cobra.Command {
	specs := c.Arguments()
	children := c.Subcommands()

	cc := &cobra.Command{
		Use:   useLine(c.Name(), specs),
		Short: c.Description(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, c, args)
		},
	}
	if len(children) > 0 {
		cc.Args = cobra.NoArgs
	} else {
		cc.Args = requireArgs(specs)
	}
	addOptions(cc.Flags(), c.Options())

	seen := make(map[string]bool, len(children))
	for _, child := range children {
		if seen[child.Name()] {
			panic(fmt.Sprintf("command %s already registered under %s", child.Name(), c.Name()))
		}
		seen[child.Name()] = true
		cc.AddCommand(a.buildCommand(child))
	}
	return cc
}

func addOptions(fs *pflag.FlagSet, opts []OptionSpec) {
	for _, o := range opts {
		fs.Bool(o.Name, false, o.Description)
	}
}

func useLine(name string, specs []ArgSpec) string {
	parts := []string{name}
	for _, s := range specs {
		if s.Required {
			parts = append(parts, "<"+s.Name+">")
		} else {
			parts = append(parts, "["+s.Name+"]")
		}
	}
	return strings.Join(parts, " ")
}

// requireArgs 校验位置参数：必填参数必须出现，且不能多于声明的数量。
func requireArgs(specs []ArgSpec) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		for i, s := range specs {
			if s.Required && i >= len(args) {
				return fmt.Errorf("the argument '%s' is required", s.Name)
			}
		}
		if len(args) > len(specs) {
			return fmt.Errorf("unrecognized command or argument '%s'", args[len(specs)])
		}
		return nil
	}
}

func (a *App) dispatch(cmd *cobra.Command, c CLICommand, args []string) error {
	options := make(map[string]bool)
	for _, o := range c.Options() {
		v, err := cmd.Flags().GetBool(o.Name)
		if err != nil {
			return err
		}
		options[o.Name] = v
	}

	ctx := &CommandContext{
		Context:   cmd.Context(),
		Args:      args,
		Stdout:    cmd.OutOrStdout(),
		Settings:  a.settings,
		confirmer: a.confirmer,
		argSpecs:  c.Arguments(),
		options:   options,
		showHelp:  cmd.Help,
	}

	log.Printf("[cli] dispatch command=%q args=%d", cmd.CommandPath(), len(args))
	res := c.Execute(ctx)
	for _, line := range res.Lines {
		fmt.Fprintln(ctx.Stdout, line)
	}

	if res.Error != nil {
		code := res.ExitCode
		if code == ExitSuccess {
			code = ExitFail
		}
		return &ExitError{Code: code, Err: res.Error}
	}
	if res.ExitCode != ExitSuccess {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}
