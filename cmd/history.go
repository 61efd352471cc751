package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anisan-cli/playcore/color"
	"github.com/anisan-cli/playcore/history"
	"github.com/anisan-cli/playcore/icon"
	"github.com/anisan-cli/playcore/style"
	"github.com/anisan-cli/playcore/util"
	"github.com/anisan-cli/playcore/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.SetOut(os.Stdout)

	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyReplayCmd)
}

// historyCmd lists saved playback checkpoints, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved playback positions",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.Default().All()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.Ternary(entries == nil, []history.Entry{}, entries)))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No saved positions"))
			return
		}

		for _, e := range entries {
			cmd.Printf("%s %s\n  %s %s %s\n",
				style.Bold(lo.Ternary(e.Title != "", e.Title, e.EpisodeID)),
				style.Faint(e.SavedAt.Format("2006-01-02 15:04")),
				style.Fg(color.Purple)(util.FormatSeconds(e.CurrentTime)+" / "+util.FormatSeconds(e.Duration)),
				style.Fg(color.Yellow)(fmt.Sprintf("%.0f%%", e.Percentage())),
				style.Faint(e.EpisodeID),
			)
		}
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <episode-id>...",
	Short: "Forget the saved position of episodes",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		entries, _ := history.Default().All()
		return lo.Map(entries, func(e history.Entry, _ int) string {
			return e.EpisodeID + "\t" + e.Title
		}), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		store := history.Default()
		for _, id := range args {
			handleErr(store.Remove(id))
			cmd.Printf("%s Removed %s\n", icon.Get(icon.Success), id)
		}
	},
}

var historyReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Store progress writes that failed during earlier sessions",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := history.Replay(history.Default(), where.FailedWrites())
		handleErr(err)
		cmd.Printf("%s Replayed %s\n", icon.Get(icon.Success), util.Quantify(n, "write", "writes"))
	},
}
