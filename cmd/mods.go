package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/presentation"
)

var (
	modsGame     string
	discoverPage int
	discoverSize int
	discoverText string
)

var infoCmd = &cobra.Command{
	Use:   "info <mod-id>",
	Short: "Show details about a mod as JSON",
	Long: `Ask the active game's mod provider for details about one mod. Results
are cached for cache.extended_info_ttl.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, "")
		if err != nil {
			return err
		}
		defer a.Close()

		if modsGame != "" {
			if err := a.games.ActivateGame(modsGame); err != nil {
				return err
			}
		}
		info, err := a.games.ExtendedInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return presentation.NewFormatter(os.Stdout).FormatExtendedInfo(info)
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Browse mods for the active game as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cfg, "")
		if err != nil {
			return err
		}
		defer a.Close()

		if modsGame != "" {
			if err := a.games.ActivateGame(modsGame); err != nil {
				return err
			}
		}
		result, err := a.games.Discover(cmd.Context(), mods.DiscoveryQuery{
			Page:     discoverPage,
			PageSize: discoverSize,
			Search:   discoverText,
		})
		if err != nil {
			return err
		}
		return presentation.NewFormatter(os.Stdout).FormatDiscovery(result)
	},
}

func init() {
	infoCmd.Flags().StringVarP(&modsGame, "game", "g", "", "game to query (default: active game)")
	discoverCmd.Flags().StringVarP(&modsGame, "game", "g", "", "game to query (default: active game)")
	discoverCmd.Flags().IntVarP(&discoverPage, "page", "p", 1, "page number, starting at 1")
	discoverCmd.Flags().IntVar(&discoverSize, "page-size", 0, "mods per page (provider default when 0)")
	discoverCmd.Flags().StringVarP(&discoverText, "search", "s", "", "search text")
	rootCmd.AddCommand(infoCmd, discoverCmd)
}
