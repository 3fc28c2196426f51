package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voidmm/voidmm/internal/config"
	"github.com/voidmm/voidmm/internal/presentation"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List configured games as JSON",
	Long: `List every registered game with its required mod provider and whether it
is the active game.

Examples:
  voidmm games
  voidmm games | jq '.[] | select(.active) | .id'`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApp(cfg, "")
		if err != nil {
			return err
		}
		defer a.Close()
		return presentation.NewFormatter(os.Stdout).FormatGames(a.games.ListGames())
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List mod providers as JSON",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApp(cfg, "")
		if err != nil {
			return err
		}
		defer a.Close()
		return presentation.NewFormatter(os.Stdout).FormatProviders(a.games.ListProviders())
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate <game>",
	Short: "Set the active game",
	Long: `Set the active game and save it to the config file. The game must be
registered; its id is normalized the same way as at registration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, "")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.games.ActivateGame(args[0]); err != nil {
			return err
		}
		id, _ := a.games.ActiveGame()

		if cfgPath == "" {
			return fmt.Errorf("no config file to save the active game to")
		}
		if err := config.SaveActiveGame(cfgPath, id); err != nil {
			return fmt.Errorf("saving active game: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Active game: %s\n", id)
		return nil
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active game as JSON",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApp(cfg, "")
		if err != nil {
			return err
		}
		defer a.Close()
		id, ok := a.games.ActiveGame()
		return presentation.NewFormatter(os.Stdout).FormatActiveGame(id, ok)
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd, providersCmd, activateCmd, activeCmd)
}
