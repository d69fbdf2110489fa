package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"apper/cli/prompt"
	"apper/config"
)

// ExitCode 是命令返回给进程的退出码。
type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitFail    ExitCode = 1
)

// ArgSpec 描述一个位置参数。
type ArgSpec struct {
	Name        string
	Description string
	Required    bool
}

// OptionSpec 描述一个布尔开关（只关心是否出现，不带值）。
type OptionSpec struct {
	Name        string
	Description string
}

// CommandContext 包含执行命令所需的上下文信息。
type CommandContext struct {
	Context  context.Context
	Args     []string
	Stdout   io.Writer
	Settings config.Settings

	confirmer prompt.Confirmer
	argSpecs  []ArgSpec
	options   map[string]bool
	showHelp  func() error
}

// Arg 返回名为 name 的位置参数，未提供时返回空串。
func (c *CommandContext) Arg(name string) string {
	for i, spec := range c.argSpecs {
		if spec.Name == name && i < len(c.Args) {
			return c.Args[i]
		}
	}
	return ""
}

// HasOption 报告开关 name 是否出现在命令行中。
func (c *CommandContext) HasOption(name string) bool {
	return c.options[name]
}

func (c *CommandContext) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout, format, args...)
}

// Confirm 向用户发起 yes/no 确认。
func (c *CommandContext) Confirm(question string, def bool) (bool, error) {
	return c.confirmer.Confirm(c.Context, question, def)
}

// ShowHelp 打印当前命令的帮助信息。
func (c *CommandContext) ShowHelp() error {
	if c.showHelp == nil {
		return nil
	}
	return c.showHelp()
}

// CommandResult 包含命令执行的结果，Lines 在命令返回后依次输出到 stdout。
type CommandResult struct {
	Lines    []string
	ExitCode ExitCode
	Error    error
}

// CLICommand 定义了所有命令必须实现的接口。
// 带子命令的命令在没有匹配到子命令时执行自身的 Execute。
type CLICommand interface {
	Name() string
	Description() string
	Arguments() []ArgSpec
	Options() []OptionSpec
	Subcommands() []CLICommand
	Execute(ctx *CommandContext) CommandResult
}

// Registry 负责管理顶层命令。
type Registry struct {
	commands map[string]CLICommand
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CLICommand),
	}
}

// Register 注册顶层命令，同名命令重复注册会 panic。
func (r *Registry) Register(cmd CLICommand) {
	if _, exists := r.commands[cmd.Name()]; exists {
		panic(fmt.Sprintf("command %s already registered", cmd.Name()))
	}
	r.commands[cmd.Name()] = cmd
}

func (r *Registry) Get(name string) CLICommand {
	return r.commands[name]
}

// List 按名称排序返回全部顶层命令。
func (r *Registry) List() []CLICommand {
	cmds := make([]CLICommand, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}

	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})

	return cmds
}

var globalRegistry = NewRegistry()

func Register(cmd CLICommand) {
	globalRegistry.Register(cmd)
}

func ListCommands() []CLICommand {
	return globalRegistry.List()
}
