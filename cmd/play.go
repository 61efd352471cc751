package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/anisan-cli/playcore/auth"
	"github.com/anisan-cli/playcore/history"
	"github.com/anisan-cli/playcore/intent"
	"github.com/anisan-cli/playcore/key"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/metrics"
	"github.com/anisan-cli/playcore/network"
	"github.com/anisan-cli/playcore/player"
	"github.com/anisan-cli/playcore/progress"
	"github.com/anisan-cli/playcore/recent"
	"github.com/anisan-cli/playcore/screen"
	"github.com/anisan-cli/playcore/session"
	"github.com/anisan-cli/playcore/skip"
	"github.com/anisan-cli/playcore/stream"
	"github.com/anisan-cli/playcore/track"
	"github.com/anisan-cli/playcore/tui"
	"github.com/anisan-cli/playcore/util"
	"github.com/anisan-cli/playcore/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const aniskipTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("request", "r", "", "Read the playback request from a JSON file, - for stdin")
	playCmd.Flags().StringP("title", "t", "", "Display title, defaults to the source URL")
	playCmd.Flags().StringP("episode-id", "e", "", "Stable episode identifier progress is stored under")
	playCmd.Flags().StringArray("header", nil, "Extra stream request header, as \"Name: value\"")
	playCmd.Flags().StringArray("subs", nil, "Subtitle track, as URL or LABEL[,LANG]=URL")
	playCmd.Flags().String("thumbnails", "", "WebVTT thumbnail track URL")
	playCmd.Flags().String("intro", "", "Intro window, as START-END")
	playCmd.Flags().String("outro", "", "Outro window, as START-END")
	playCmd.Flags().String("resume", "", "Start position, in seconds or [h:]mm:ss")
	playCmd.Flags().BoolP("continue", "c", false, "Resume from the watch history even when history.resume_on_start is off")
	playCmd.Flags().Int("mal-id", 0, "MyAnimeList id used to look up skip windows")
	playCmd.Flags().Int("episode", 0, "Episode number used to look up skip windows")

	playCmd.Flags().StringP("subtitle", "s", "", "Preferred subtitle label, matched fuzzily")
	lo.Must0(viper.BindPFlag(key.SubtitlesPreferred, playCmd.Flags().Lookup("subtitle")))
	playCmd.Flags().Bool("pick-subtitle", false, "Choose the subtitle track interactively before playing")

	playCmd.Flags().BoolP("auto-skip", "a", false, "Seek past intro and outro windows automatically")
	lo.Must0(viper.BindPFlag(key.SkipAuto, playCmd.Flags().Lookup("auto-skip")))

	playCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	lo.Must0(viper.BindPFlag(key.MetricsAddr, playCmd.Flags().Lookup("metrics-addr")))

	lo.Must0(playCmd.RegisterFlagCompletionFunc("subtitle", cobra.NoFileCompletions))
	playCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return lo.Map(recent.Suggest(toComplete), func(s recent.Source, _ int) string {
			return s.URL + "\t" + s.Title
		}), cobra.ShellCompDirectiveNoFileComp
	}
}

// playCmd plays one source in mpv, driven from the terminal.
var playCmd = &cobra.Command{
	Use:   "play [url]",
	Short: "Play a stream or file with skip windows, subtitles and resumable progress",
	Example: `  playcore play https://cdn.example.com/ep1/master.m3u8 -t "Episode 1" --intro 85-175
  playcore play --request episode.json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		req, err := buildRequest(cmd, args)
		handleErr(err)

		cfg := session.ConfigFromViper()
		if lo.Must(cmd.Flags().GetBool("pick-subtitle")) && util.IsInteractive() {
			label, err := pickSubtitle(req.Tracks)
			handleErr(err)
			cfg.PreferredSubtitle = label
		} else {
			cfg.PreferredSubtitle = matchSubtitle(cfg.PreferredSubtitle, req.Tracks)
		}

		fillSkipWindows(&req)

		if req.ResumeFrom == 0 && (viper.GetBool(key.HistoryResumeOnStart) || lo.Must(cmd.Flags().GetBool("continue"))) {
			episode := lo.Ternary(req.EpisodeID != "", req.EpisodeID, req.SourceURL)
			req.ResumeFrom = history.Default().Resume(episode).OrElse(0)
		}

		handleErr(play(req, cfg))
	},
}

func buildRequest(cmd *cobra.Command, args []string) (session.Request, error) {
	var file requestFile

	if path := lo.Must(cmd.Flags().GetString("request")); path != "" {
		f, err := readRequest(path)
		if err != nil {
			return session.Request{}, err
		}
		file = f
	}

	if len(args) > 0 {
		file.SourceURL = args[0]
	}
	if file.SourceURL == "" {
		return session.Request{}, errors.New("a source URL or --request is required")
	}

	if title := lo.Must(cmd.Flags().GetString("title")); title != "" {
		file.Title = title
	}
	if file.Title == "" {
		file.Title = file.SourceURL
	}
	if id := lo.Must(cmd.Flags().GetString("episode-id")); id != "" {
		file.EpisodeID = id
	}

	headers, err := parseHeaders(lo.Must(cmd.Flags().GetStringArray("header")))
	if err != nil {
		return session.Request{}, err
	}
	if len(headers) > 0 {
		file.Headers = lo.Assign(file.Headers, headers)
	}

	for _, s := range lo.Must(cmd.Flags().GetStringArray("subs")) {
		file.Tracks = append(file.Tracks, parseTrack(s, track.Subtitles))
	}
	if thumbs := lo.Must(cmd.Flags().GetString("thumbnails")); thumbs != "" {
		file.Tracks = append(file.Tracks, track.Descriptor{File: thumbs, Kind: track.Thumbnails})
	}

	for flag, target := range map[string]**skip.Window{"intro": &file.Intro, "outro": &file.Outro} {
		raw := lo.Must(cmd.Flags().GetString(flag))
		if raw == "" {
			continue
		}
		w, err := parseWindow(raw)
		if err != nil {
			return session.Request{}, fmt.Errorf("--%s: %w", flag, err)
		}
		*target = &w
	}

	if raw := lo.Must(cmd.Flags().GetString("resume")); raw != "" {
		at, err := parseTimestamp(raw)
		if err != nil {
			return session.Request{}, fmt.Errorf("--resume: %w", err)
		}
		file.ResumeFrom = at
	}

	if id := lo.Must(cmd.Flags().GetInt("mal-id")); id > 0 {
		file.MalID = id
	}
	if n := lo.Must(cmd.Flags().GetInt("episode")); n > 0 {
		file.EpisodeNumber = n
	}

	file.Headers = auth.Decorate(file.SourceURL, file.Headers)
	return file.toRequest(), nil
}

// matchSubtitle resolves a loosely typed preference to the label of the
// closest subtitle track. Unmatched preferences are kept as typed.
func matchSubtitle(preferred string, tracks []track.Descriptor) string {
	if preferred == "" {
		return ""
	}

	labels := lo.FilterMap(track.SubtitleDescriptors(tracks), func(d track.Descriptor, _ int) (string, bool) {
		return d.Label, d.Label != ""
	})
	ranks := fuzzy.RankFindNormalizedFold(preferred, labels)
	if len(ranks) == 0 {
		return preferred
	}

	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool { return a.Distance < b.Distance })
	return best.Target
}

func pickSubtitle(tracks []track.Descriptor) (string, error) {
	subs := track.SubtitleDescriptors(tracks)
	if len(subs) < 2 {
		return "", nil
	}

	options := lo.FilterMap(subs, func(d track.Descriptor, _ int) (string, bool) {
		return d.Label, d.Label != ""
	})
	if len(options) < 2 {
		return "", nil
	}

	var choice string
	prompt := &survey.Select{
		Message: "Subtitles:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

// fillSkipWindows looks up missing windows on AniSkip.
func fillSkipWindows(req *session.Request) {
	if !viper.GetBool(key.Aniskip) || req.MalID <= 0 || req.EpisodeNumber <= 0 {
		return
	}
	if req.Intro.IsPresent() && req.Outro.IsPresent() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), aniskipTimeout)
	defer cancel()

	erase := util.PrintErasable("Fetching skip windows...")
	intro, outro, err := skip.Fetch(ctx, req.MalID, req.EpisodeNumber)
	erase()
	if err != nil {
		log.Warnf("aniskip: %v", err)
		return
	}

	if !req.Intro.IsPresent() {
		req.Intro = intro
	}
	if !req.Outro.IsPresent() {
		req.Outro = outro
	}
}

func play(req session.Request, cfg session.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if addr := viper.GetString(key.MetricsAddr); addr != "" {
		m = metrics.New()
		go func() {
			if err := metrics.Serve(ctx, addr, m); err != nil {
				log.Errorf("metrics: %v", err)
			}
		}()
	}

	var sink progress.Sink
	if viper.GetBool(key.HistorySaveProgress) {
		sink = history.NewRecorder(history.Default(), req.Title, where.FailedWrites())
	}

	var lock screen.WakeLock
	if viper.GetBool(key.ScreenWakeLock) {
		lock = screen.System()
	}

	mpv := player.NewMPV()
	defer util.Ignore(mpv.Close)

	ctrl := session.New(mpv, &session.Options{
		Config:   cfg,
		Sink:     sink,
		WakeLock: lock,
		Metrics:  m,
		Stream:   &stream.Options{Client: network.Stream()},
	})

	h, err := ctrl.Start(req)
	if err != nil {
		return err
	}

	if err := recent.Remember(req.SourceURL, req.Title); err != nil {
		log.Warnf("remember source: %v", err)
	}

	// Closing the mpv window ends the session.
	go func() {
		select {
		case <-mpv.Wait():
			_ = ctrl.Dispatch(intent.Of(intent.Quit))
		case <-ctx.Done():
		}
	}()

	runErr := tui.Run(ctrl)
	final := ctrl.State()
	closeErr := ctrl.Close(h)
	if err := ctrl.Shutdown(); err != nil {
		closeErr = errors.Join(closeErr, err)
	}
	ctrl.Drain()

	return errors.Join(runErr, final.Err, closeErr)
}
