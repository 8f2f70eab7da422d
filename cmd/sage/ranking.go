package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okaimono/sage/internal/cli"
	"github.com/okaimono/sage/internal/ranking"
	"github.com/okaimono/sage/internal/service"
	"github.com/okaimono/sage/internal/tui"
)

func rankingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show the net-savings leaderboard",
		Long: `Aggregate every user's savings records into a leaderboard ordered by
net savings (saved minus overpaid) and show your own standing, even when
you fall outside the visible window.`,
		RunE: runRanking,
	}

	cmd.Flags().Int("limit", 10, "number of leaderboard entries to show")
	cmd.Flags().Bool("interactive", false, "browse the full leaderboard interactively")
	return cmd
}

func runRanking(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	interactive, _ := cmd.Flags().GetBool("interactive")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	result, err := computeRanking(ctx, store, userID, limit, interactive)
	if err != nil {
		return err
	}

	if interactive {
		return tui.Run(tui.Config{Result: result, Requester: userID})
	}
	cmd.Println(cli.RenderRanking(result, userID))
	return nil
}

// computeRanking loads the full savings snapshot and nickname table and
// aggregates them. The interactive viewer gets the whole leaderboard; the
// plain view keeps the requested window.
func computeRanking(ctx context.Context, store service.Storage, userID string, limit int, full bool) (*ranking.Result, error) {
	records, err := store.GetAllSavingsRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings records: %w", err)
	}

	profiles, err := store.GetAllProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	nicknames := make(map[string]*string, len(profiles))
	for i := range profiles {
		nicknames[profiles[i].ID] = profiles[i].Nickname
	}

	if full {
		limit = len(records)
	}
	result := ranking.Rank(records, nicknames, userID, limit)
	return &result, nil
}
