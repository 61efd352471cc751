package cmd

import (
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

func init() {
	playCmd.AddCommand(playSchemaCmd)
}

// playSchemaCmd prints the JSON Schema of the --request file.
var playSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of playback request files",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		schema := reflector.Reflect(&requestFile{})
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
