package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

var errUsage = errors.New("invalid arguments")

func usageError(cmd Command) error {
	return fmt.Errorf("%w, usage: %s", errUsage, cmd.Usage())
}

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string  { return "migrate" }
func (c *MigrateCommand) Usage() string { return "migrate" }
func (c *MigrateCommand) Description() string {
	return "Apply pending schema migrations to the configured store"
}

// Run reports the outcome; migrations are applied while the store is opened
func (c *MigrateCommand) Run(_ context.Context, env *Env, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	PrintSuccess(env.Out, "Schema is up to date (%s)", env.Backend)
	return nil
}

type InitCommand struct{}

func (c *InitCommand) Name() string        { return "init" }
func (c *InitCommand) Usage() string       { return "init <secret>" }
func (c *InitCommand) Description() string { return "Create the raffle pool if it does not exist" }

func (c *InitCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return usageError(c)
	}
	created, err := env.Service.Initialize(ctx, args[0])
	if err != nil {
		return err
	}
	if created {
		PrintSuccess(env.Out, "Raffle pool created")
	} else {
		PrintWarning(env.Out, "Raffle pool already exists; admin secret unchanged")
	}
	return nil
}

type RegisterCommand struct{}

func (c *RegisterCommand) Name() string        { return "register" }
func (c *RegisterCommand) Usage() string       { return "register <name>" }
func (c *RegisterCommand) Description() string { return "Register a participant and print their access token" }

func (c *RegisterCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return usageError(c)
	}
	reg, err := env.Service.RegisterParticipant(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	PrintSuccess(env.Out, "Registered %s", reg.Participant.DisplayName)
	fmt.Fprintf(env.Out, "  id:    %s\n  token: %s\n", reg.Participant.ID, reg.Token)
	return nil
}

type ListCommand struct{}

func (c *ListCommand) Name() string        { return "list" }
func (c *ListCommand) Usage() string       { return "list" }
func (c *ListCommand) Description() string { return "List participants, newest first" }

func (c *ListCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	participants, err := env.Service.ListParticipants(ctx)
	if err != nil {
		return err
	}
	if len(participants) == 0 {
		PrintInfo(env.Out, "No participants registered")
		return nil
	}

	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRANK\tJOINED\tREGISTERED")
	for _, p := range participants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			p.ID, p.DisplayName, formatRank(p.AssignedRank), p.HasJoined, p.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

type StartCommand struct{}

func (c *StartCommand) Name() string        { return "start" }
func (c *StartCommand) Usage() string       { return "start" }
func (c *StartCommand) Description() string { return "Shuffle ranks for all participants and open draws" }

func (c *StartCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	result, err := env.Service.Start(ctx)
	if err != nil {
		return err
	}
	PrintSuccess(env.Out, "Raffle started with %d ranks", result.PoolSize)
	return nil
}

type ResetCommand struct{}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Usage() string       { return "reset" }
func (c *ResetCommand) Description() string { return "Clear all assignments and return to waiting" }

func (c *ResetCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	result, err := env.Service.Reset(ctx)
	if err != nil {
		return err
	}
	PrintSuccess(env.Out, "Raffle reset: %d participants cleared in %d batches", result.ParticipantsCleared, result.Batches)
	return nil
}

type DeleteCommand struct{}

func (c *DeleteCommand) Name() string        { return "delete" }
func (c *DeleteCommand) Usage() string       { return "delete <id>" }
func (c *DeleteCommand) Description() string { return "Remove a participant while the raffle is not active" }

func (c *DeleteCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return usageError(c)
	}
	if err := env.Service.DeleteParticipant(ctx, args[0]); err != nil {
		return err
	}
	PrintSuccess(env.Out, "Participant %s deleted", args[0])
	return nil
}

type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Usage() string       { return "status" }
func (c *StatusCommand) Description() string { return "Show the raffle status and draw progress" }

func (c *StatusCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	status, err := env.Projector.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "status:       %s\n", status.Status)
	fmt.Fprintf(env.Out, "participants: %d\n", status.ParticipantCount)
	fmt.Fprintf(env.Out, "drawn:        %d/%d\n", status.AssignedCount, status.PoolSize)
	return nil
}

type LeaderboardCommand struct{}

func (c *LeaderboardCommand) Name() string        { return "leaderboard" }
func (c *LeaderboardCommand) Usage() string       { return "leaderboard [limit]" }
func (c *LeaderboardCommand) Description() string { return "Print ranked participants, then the rest by name" }

func (c *LeaderboardCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) > 1 {
		return usageError(c)
	}
	limit := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return usageError(c)
		}
		limit = n
	}

	board, err := env.Projector.Leaderboard(ctx)
	if err != nil {
		return err
	}
	entries := board.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		PrintInfo(env.Out, "Leaderboard is empty")
		return nil
	}

	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tJOINED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", formatRank(e.Rank), e.DisplayName, e.HasJoined)
	}
	return tw.Flush()
}

type SetSecretCommand struct{}

func (c *SetSecretCommand) Name() string        { return "set-secret" }
func (c *SetSecretCommand) Usage() string       { return "set-secret <secret>" }
func (c *SetSecretCommand) Description() string { return "Rotate the admin secret" }

func (c *SetSecretCommand) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return usageError(c)
	}
	if err := env.Service.SetAdminSecret(ctx, args[0]); err != nil {
		return err
	}
	PrintSuccess(env.Out, "Admin secret updated")
	return nil
}

func formatRank(rank *int) string {
	if rank == nil {
		return "-"
	}
	return strconv.Itoa(*rank)
}

