package cli

import (
	"fmt"
)

const appDescription = "This is a sample Cli that showcases the possibilities of a Cli tool and various ways to interact with it."

// rootCommand 是 apper 本身，子命令来自 Registry。
type rootCommand struct {
	registry *Registry
}

func (c *rootCommand) Name() string              { return "apper" }
func (c *rootCommand) Description() string       { return appDescription }
func (c *rootCommand) Arguments() []ArgSpec      { return nil }
func (c *rootCommand) Options() []OptionSpec     { return nil }
func (c *rootCommand) Subcommands() []CLICommand { return c.registry.List() }

// Execute 在没有给出任何子命令时打印帮助并返回成功。
func (c *rootCommand) Execute(ctx *CommandContext) CommandResult {
	return CommandResult{Error: ctx.ShowHelp()}
}

// DoCommand 实现 do 命令，本身只是 this/that 的分组。
type DoCommand struct{}

func (c *DoCommand) Name() string          { return "do" }
func (c *DoCommand) Description() string   { return "" }
func (c *DoCommand) Arguments() []ArgSpec  { return nil }
func (c *DoCommand) Options() []OptionSpec { return nil }
func (c *DoCommand) Subcommands() []CLICommand {
	return []CLICommand{&DoThisCommand{}, &DoThatCommand{}}
}

// Execute 在没有匹配到子命令时打印帮助，并以失败退出。
// 与根命令（返回成功）不一致，保留原有约定。
func (c *DoCommand) Execute(ctx *CommandContext) CommandResult {
	if err := ctx.ShowHelp(); err != nil {
		return CommandResult{Error: err, ExitCode: ExitFail}
	}
	return CommandResult{ExitCode: ExitFail}
}

// DoThisCommand 实现 do this <arg1> <arg2>。
type DoThisCommand struct{}

func (c *DoThisCommand) Name() string        { return "this" }
func (c *DoThisCommand) Description() string { return "Do this." }
func (c *DoThisCommand) Arguments() []ArgSpec {
	return []ArgSpec{
		{Name: "arg1", Description: "First argument", Required: true},
		{Name: "arg2", Description: "Second argument", Required: true},
	}
}
func (c *DoThisCommand) Options() []OptionSpec     { return nil }
func (c *DoThisCommand) Subcommands() []CLICommand { return nil }

func (c *DoThisCommand) Execute(ctx *CommandContext) CommandResult {
	ctx.Printf("Doing this with arguments: %s & %s\n", ctx.Arg("arg1"), ctx.Arg("arg2"))

	ok, err := ctx.Confirm("Do you want to proceed?", false)
	if err != nil {
		return CommandResult{Error: fmt.Errorf("确认失败: %w", err), ExitCode: ExitFail}
	}
	if !ok {
		return CommandResult{Lines: []string{"Command cancelled."}, ExitCode: ExitFail}
	}
	return CommandResult{Lines: doThis()}
}

// doThis 是 do this 确认之后的实际工作，同步执行。
func doThis() []string {
	return []string{"Doing this..."}
}

// DoThatCommand 实现 do that [--json]。
type DoThatCommand struct{}

func (c *DoThatCommand) Name() string         { return "that" }
func (c *DoThatCommand) Description() string  { return "" }
func (c *DoThatCommand) Arguments() []ArgSpec { return nil }
func (c *DoThatCommand) Options() []OptionSpec {
	return []OptionSpec{{Name: "json", Description: "Json output format"}}
}
func (c *DoThatCommand) Subcommands() []CLICommand { return nil }

// Execute 按 --json 选择输出格式。
// 注意：JSON 输出使用单引号，并不是合法 JSON，这是已知问题，保持原样输出。
func (c *DoThatCommand) Execute(ctx *CommandContext) CommandResult {
	lines := []string{"Doing that..."}
	if ctx.HasOption("json") {
		lines = append(lines, "{'output':'Output in JSON'}")
	} else {
		lines = append(lines, "Output in text")
	}
	return CommandResult{Lines: lines}
}

// ListCommand 实现 list 命令。
// 输出的命令名是写死的，不从 Registry 生成；新增命令时需要同步修改这里。
type ListCommand struct{}

func (c *ListCommand) Name() string              { return "list" }
func (c *ListCommand) Description() string       { return "" }
func (c *ListCommand) Arguments() []ArgSpec      { return nil }
func (c *ListCommand) Options() []OptionSpec     { return nil }
func (c *ListCommand) Subcommands() []CLICommand { return nil }

func (c *ListCommand) Execute(ctx *CommandContext) CommandResult {
	return CommandResult{Lines: []string{
		"",
		"These are the available commands:",
		"this",
		"that",
		"",
	}}
}

func init() {
	Register(&DoCommand{})
	Register(&ListCommand{})
}
