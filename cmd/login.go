package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matiasbn/dj-wizard/internal/app"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the catalog through a browser and store the session cookie",
	Long: `Opens a Chromium window on the Soundeo login page and waits for you to
log in.

The login process:
1. Browser opens at https://soundeo.com/login
2. Enter your email and password
3. Solve the captcha if one appears
4. Submit the form and wait

Once the authenticated header appears, the session cookie pair is extracted
and saved to the configuration file. Keep the window open until the command
reports success; it closes the browser by itself.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		app.ExecuteLoginCommand(cmd.Context(), appConfig)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(loginCmd)
}
