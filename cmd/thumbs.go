package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/anisan-cli/playcore/icon"
	"github.com/anisan-cli/playcore/open"
	"github.com/anisan-cli/playcore/style"
	"github.com/anisan-cli/playcore/thumbnail"
	"github.com/anisan-cli/playcore/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(thumbsCmd)

	thumbsCmd.Flags().StringArray("header", nil, "Extra request header, as \"Name: value\"")
	thumbsCmd.Flags().String("at", "", "Only print the cue shown at this position, in seconds or [h:]mm:ss")
	thumbsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	thumbsCmd.Flags().BoolP("open", "o", false, "Open the sprite of the cue selected with --at")
	thumbsCmd.SetOut(os.Stdout)
}

// thumbsCmd loads a WebVTT thumbnail track and prints its cues.
var thumbsCmd = &cobra.Command{
	Use:   "thumbs <url>",
	Short: "Load a thumbnail track and print its preview cues",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		headers, err := parseHeaders(lo.Must(cmd.Flags().GetStringArray("header")))
		handleErr(err)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cues := thumbnail.Load(ctx, args[0], headers)

		if raw := lo.Must(cmd.Flags().GetString("at")); raw != "" {
			at, err := parseTimestamp(raw)
			handleErr(err)
			cue, ok := thumbnail.Nearest(cues, at).Get()
			cues = nil
			if ok {
				cues = []thumbnail.Cue{cue}
				if lo.Must(cmd.Flags().GetBool("open")) {
					handleErr(open.Start(cue.SpriteURL))
				}
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.Ternary(cues == nil, []thumbnail.Cue{}, cues)))
			return
		}

		if len(cues) == 0 {
			cmd.Println(icon.Get(icon.Fail) + " No cues")
			return
		}

		for _, c := range cues {
			cmd.Printf("%s %s %s\n",
				style.Bold(util.FormatSeconds(c.Start)+"-"+util.FormatSeconds(c.End)),
				c.SpriteURL,
				style.Faint(lo.Ternary(c.Width > 0, fmt.Sprintf("#xywh=%d,%d,%d,%d", c.X, c.Y, c.Width, c.Height), "")),
			)
		}
		cmd.Println(style.Faint(util.Quantify(len(cues), "cue", "cues")))
	},
}
