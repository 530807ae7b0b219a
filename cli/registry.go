// Package cli implements the one-shot command line: "craftcalc <command> [args...]".
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// Command is one subcommand.
type Command interface {
	Name() string
	Usage() string
	Description() string
	Run(ctx context.Context, args []string) error
}

// Registry manages the available commands
type Registry struct {
	out      io.Writer
	commands map[string]Command
}

// NewRegistry creates an empty registry printing help to out.
func NewRegistry(out io.Writer) *Registry {
	return &Registry{
		out:      out,
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns a sorted list of all registered commands
func (r *Registry) List() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})
	return cmds
}

// PrintHelp prints the usage information
func (r *Registry) PrintHelp() {
	fmt.Fprintln(r.out, "usage: craftcalc <command> [args...]")
	fmt.Fprintln(r.out, "\nAvailable Commands:")

	cmds := r.List()
	maxLen := 0
	for _, cmd := range cmds {
		if len(cmd.Usage()) > maxLen {
			maxLen = len(cmd.Usage())
		}
	}

	for _, cmd := range cmds {
		padding := maxLen - len(cmd.Usage()) + 2
		fmt.Fprintf(r.out, "  %s%*s%s\n", cmd.Usage(), padding, "", cmd.Description())
	}
}

// Dispatch runs the command named by args[0]. No arguments prints help.
func (r *Registry) Dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		r.PrintHelp()
		return nil
	}
	cmd, ok := r.Get(args[0])
	if !ok {
		r.PrintHelp()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.Run(ctx, args[1:])
}
