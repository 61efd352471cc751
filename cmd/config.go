// Package cmd implements the playcore command-line interface.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anisan-cli/playcore/color"
	"github.com/anisan-cli/playcore/config"
	"github.com/anisan-cli/playcore/constant"
	"github.com/anisan-cli/playcore/filesystem"
	"github.com/anisan-cli/playcore/icon"
	"github.com/anisan-cli/playcore/style"
	"github.com/anisan-cli/playcore/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func configFile() string {
	return filepath.Join(where.Config(), constant.Playcore+".toml")
}

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)
}

func lookupField(key string) config.Field {
	f, ok := config.Default[key]
	if !ok {
		handleErr(errUnknownKey(key))
	}
	return f
}

// keyArg takes the key from the first argument or, failing that, --key.
func keyArg(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if k, _ := cmd.Flags().GetString("key"); k != "" {
		return k
	}
	handleErr(errors.New("key is required as an argument or --key flag"))
	return ""
}

// persist writes the in-memory configuration, creating the file on first use.
func persist() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.MapToSlice(config.Default, func(k string, f config.Field) string {
		return k + "\t" + f.Description
	}), cobra.ShellCompDirectiveNoFileComp
}

func completionSections(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	names, _ := config.Sections()
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.SetOut(os.Stdout)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change playback settings",
	Long: `Inspect and change playback settings.

Settings live in ` + constant.Playcore + `.toml under the config directory and can be
overridden with ` + "PLAYCORE_*" + ` environment variables. They are grouped in sections:
player, skip, subtitles, chrome, gesture, screen, history, thumbnails, network,
core, metrics, icons, logs and cli.`,
	Example: `  playcore config info --section gesture
  playcore config set gesture.double_tap_ms 250
  playcore config set skip.auto true
  playcore config get player.volume
  playcore config reset --key chrome.hide_delay_ms`,
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only describe these keys")
	configInfoCmd.Flags().StringP("section", "s", "", "Only describe the keys of one section")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	configInfoCmd.MarkFlagsMutuallyExclusive("key", "section")
	lo.Must0(configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
	lo.Must0(configInfoCmd.RegisterFlagCompletionFunc("section", completionSections))
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys    = lo.Must(cmd.Flags().GetStringSlice("key"))
			section = lo.Must(cmd.Flags().GetString("section"))
			asJson  = lo.Must(cmd.Flags().GetBool("json"))
		)

		names, groups := config.Sections()
		switch {
		case len(keys) > 0:
			groups = lo.GroupBy(lo.Map(keys, func(k string, _ int) config.Field {
				return lookupField(k)
			}), func(f config.Field) string { return f.Section() })
			names = lo.Filter(names, func(n string, _ int) bool { return len(groups[n]) > 0 })
		case section != "":
			if _, ok := groups[section]; !ok {
				handleErr(fmt.Errorf("unknown section %s, expected one of %v", style.Fg(color.Red)(section), names))
			}
			names = []string{section}
		}

		if asJson {
			fields := lo.FlatMap(names, func(n string, _ int) []config.Field { return groups[n] })
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			lo.Must0(encoder.Encode(lo.Map(fields, func(f config.Field, _ int) *config.Field { return &f })))
			return
		}

		for i, name := range names {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(style.Title(name))
			for _, field := range groups[name] {
				cmd.Println()
				cmd.Println(field.Pretty())
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "The key to change")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "The new value; list settings take several")
	lo.Must0(configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value...]",
	Short: "Change a setting",
	Long: `Change a setting. The value is checked against the type of the default
and, for thresholds such as gesture.double_tap_ms or player.volume, against the
accepted range.`,
	Example: `  playcore config set skip.auto true
  playcore config set player.rate 1.25
  playcore config set --key icons.variant --value nerd`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return completionConfigKeys(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(keyArg(cmd, args))

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		v, err := field.Parse(raw)
		handleErr(err)

		viper.Set(field.Key, v)
		persist()

		cmd.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprint(v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The key to read")
	lo.Must0(configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a setting",
	Example:           "  playcore config get gesture.double_tap_radius",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(keyArg(cmd, args))
		cmd.Println(viper.Get(field.Key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()
		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists, _ := filesystem.API().Exists(path); exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		cmd.Printf("%s wrote config to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file, keeping built-in defaults",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		cmd.Printf("%s deleted config\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "The key to restore")
	configResetCmd.Flags().StringP("section", "s", "", "Restore every key of one section")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "section", "all")
	lo.Must0(configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
	lo.Must0(configResetCmd.RegisterFlagCompletionFunc("section", completionSections))
}

var configResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Restore settings to their defaults",
	Example: "  playcore config reset --section gesture",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("section") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("one of --key, --section or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var fields []config.Field

		_, groups := config.Sections()
		switch {
		case lo.Must(cmd.Flags().GetBool("all")):
			fields = lo.Values(config.Default)
		case cmd.Flags().Changed("section"):
			section := lo.Must(cmd.Flags().GetString("section"))
			group, ok := groups[section]
			if !ok {
				handleErr(fmt.Errorf("unknown section %s", style.Fg(color.Red)(section)))
			}
			fields = group
		default:
			fields = []config.Field{lookupField(lo.Must(cmd.Flags().GetString("key")))}
		}

		for _, f := range fields {
			viper.Set(f.Key, f.Value)
		}
		persist()

		if len(fields) == 1 {
			cmd.Printf(
				"%s reset %s to %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Fg(color.Purple)(fields[0].Key),
				style.Fg(color.Yellow)(fmt.Sprint(fields[0].Value)),
			)
			return
		}
		cmd.Printf("%s reset %d keys\n", style.Fg(color.Green)(icon.Get(icon.Success)), len(fields))
	},
}
