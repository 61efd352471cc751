package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/anisan-cli/playcore/auth"
	"github.com/anisan-cli/playcore/icon"
	"github.com/anisan-cli/playcore/style"
	"github.com/anisan-cli/playcore/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authRemoveCmd)
	authSetCmd.SetOut(os.Stdout)
	authRemoveCmd.SetOut(os.Stdout)
}

// authCmd manages bearer tokens sent to stream hosts.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stream host credentials kept in the system keyring",
}

var authSetCmd = &cobra.Command{
	Use:   "set <host> [token]",
	Short: "Store the bearer token sent to a stream host",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var token string
		if len(args) == 2 {
			token = args[1]
		} else {
			if !util.IsInteractive() {
				handleErr(errors.New("token is required when not running in a terminal"))
			}
			handleErr(survey.AskOne(&survey.Password{Message: "Token:"}, &token))
		}

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(errors.New("empty token"))
		}

		handleErr(auth.SetToken(args[0], token))
		cmd.Printf("%s Token stored for %s\n", icon.Get(icon.Success), style.Bold(args[0]))
	},
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <host>",
	Short: "Forget the token of a stream host",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken(args[0]))
		cmd.Printf("%s Token removed for %s\n", icon.Get(icon.Success), style.Bold(args[0]))
	},
}
