package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/raffle"
)

// Projector reads the public views of the raffle
type Projector interface {
	Leaderboard(ctx context.Context) (domain.Leaderboard, error)
	Status(ctx context.Context) (domain.StatusSnapshot, error)
}

// Env is what a command runs against
type Env struct {
	Service   raffle.Service
	Projector Projector
	Backend   string
	Out       io.Writer
}

// Command interface that all admin commands must implement
type Command interface {
	Name() string
	Usage() string
	Description() string
	Run(ctx context.Context, env *Env, args []string) error
}

// Registry manages the available commands
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
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
func (r *Registry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: admin <command> [args...]")
	fmt.Fprintln(w, "\nAvailable Commands:")

	cmds := r.List()
	maxLen := 0
	for _, cmd := range cmds {
		if len(cmd.Usage()) > maxLen {
			maxLen = len(cmd.Usage())
		}
	}

	for _, cmd := range cmds {
		padding := maxLen - len(cmd.Usage()) + 2
		fmt.Fprintf(w, "  %s%*s%s\n", cmd.Usage(), padding, "", cmd.Description())
	}
}

// defaultRegistry holds every admin command
func defaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&MigrateCommand{})
	r.Register(&InitCommand{})
	r.Register(&RegisterCommand{})
	r.Register(&ListCommand{})
	r.Register(&StartCommand{})
	r.Register(&ResetCommand{})
	r.Register(&DeleteCommand{})
	r.Register(&StatusCommand{})
	r.Register(&LeaderboardCommand{})
	r.Register(&SetSecretCommand{})
	return r
}
