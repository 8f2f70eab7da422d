package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your ranking profile",
	}
	cmd.AddCommand(profileGetCmd())
	cmd.AddCommand(profileSetCmd())
	return cmd
}

func profileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			profile, err := store.GetProfile(ctx, userID)
			if errors.Is(err, common.ErrNotFound) {
				// First access creates an empty profile, matching the
				// read-through behavior of the ranking path.
				profile = &model.Profile{ID: userID}
				if upsertErr := store.UpsertProfile(ctx, profile); upsertErr != nil {
					return fmt.Errorf("failed to create profile: %w", upsertErr)
				}
			} else if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			cmd.Printf("User: %s\n", profile.ID)
			if profile.Nickname != nil {
				cmd.Printf("Nickname: %s\n", *profile.Nickname)
			} else {
				cmd.Println("Nickname: (not set)")
			}
			return nil
		},
	}
}

func profileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update your nickname",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}
			nickname, _ := cmd.Flags().GetString("nickname")
			clear, _ := cmd.Flags().GetBool("clear")
			if nickname == "" && !clear {
				return fmt.Errorf("pass --nickname or --clear")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			profile := &model.Profile{ID: userID}
			if !clear {
				profile.Nickname = &nickname
			}
			if err := store.UpsertProfile(ctx, profile); err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}

			if clear {
				cmd.Println("Nickname cleared")
			} else {
				cmd.Printf("Nickname set to %s\n", nickname)
			}
			return nil
		},
	}
	cmd.Flags().String("nickname", "", "display name shown on the leaderboard")
	cmd.Flags().Bool("clear", false, "remove the nickname")
	return cmd
}
