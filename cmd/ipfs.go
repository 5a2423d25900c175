package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var ipfsCmd = &cobra.Command{
	Use:   "ipfs",
	Short: "Upload the state snapshot to IPFS and print the content hash",
	Long: `Ships the state snapshot file to the IPFS node configured under
ipfs_api_url and prints the resulting content hash.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.ExecuteIPFSCommand(cmd.Context(), appConfig)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(ipfsCmd)
}
