package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anisan-cli/playcore/color"
	"github.com/anisan-cli/playcore/icon"
	"github.com/anisan-cli/playcore/network"
	"github.com/anisan-cli/playcore/stream"
	"github.com/anisan-cli/playcore/style"
	"github.com/anisan-cli/playcore/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringArray("header", nil, "Extra request header, as \"Name: value\"")
	probeCmd.Flags().Duration("timeout", 15*time.Second, "Give up after this long")
	probeCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	probeCmd.SetOut(os.Stdout)
}

type probeResult struct {
	Source   stream.Source    `json:"source"`
	Manifest *stream.Manifest `json:"manifest,omitempty"`
}

// probeCmd classifies a source and parses its manifest without playing it.
var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Classify a source and list the variants of its manifest",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		headers, err := parseHeaders(lo.Must(cmd.Flags().GetStringArray("header")))
		handleErr(err)

		result, err := probe(args[0], headers, lo.Must(cmd.Flags().GetDuration("timeout")))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(result))
			return
		}

		src := result.Source
		cmd.Printf("%s %s%s\n",
			style.Bold(src.Kind.String()),
			src.URL,
			lo.Ternary(src.Proxied, style.Faint(" (proxied)"), ""),
		)

		m := result.Manifest
		if m == nil {
			return
		}

		cmd.Printf("%s %s%s\n",
			icon.Get(icon.Success),
			util.Quantify(len(m.Variants), "variant", "variants"),
			lo.Ternary(m.Live, ", live", fmt.Sprintf(", %s", util.FormatSeconds(m.Duration))),
		)
		for _, v := range m.Variants {
			cmd.Printf("  %s %s %s\n",
				style.Fg(color.Yellow)(fmt.Sprintf("%8d", v.Bandwidth)),
				lo.Ternary(v.Resolution != "", v.Resolution, "-"),
				style.Faint(v.URI),
			)
		}
	},
}

func probe(rawURL string, headers map[string]string, timeout time.Duration) (probeResult, error) {
	src := stream.Classify(rawURL)
	result := probeResult{Source: src}
	if !src.Kind.Adaptive() {
		return result, nil
	}

	ready := make(chan stream.Manifest, 1)
	failed := make(chan error, 1)

	loader := stream.Open(src, stream.Events{
		OnReady: func(m stream.Manifest) { ready <- m },
		OnError: func(err error, fatal bool) {
			if fatal {
				failed <- err
			}
		},
	}, &stream.Options{Client: network.Stream(), Hook: stream.Headers(headers)})
	defer loader.Destroy()

	select {
	case m := <-ready:
		result.Manifest = &m
		return result, nil
	case err := <-failed:
		return result, err
	case <-time.After(timeout):
		return result, errors.New("timed out waiting for the manifest")
	}
}
