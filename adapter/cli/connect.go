package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/claritysync/notioncenter/internal/notion"
	"github.com/claritysync/notioncenter/internal/session"
)

var connectCmd = &cobra.Command{
	Use:   "connect [code]",
	Short: "Connect to a Notion workspace",
	Long: `Connect to a Notion workspace via OAuth.

Run without arguments to print the authorization URL. After approving
access, Notion redirects to the callback page with a code; run the command
again with that code to finish the exchange:

  notioncenter connect           # print the authorization URL
  notioncenter connect <code>    # exchange the code and store the token`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("connect requires configuration; check startup logs")
		}

		if len(args) == 0 {
			return printAuthURL(app)
		}

		result, err := app.Gateway.ExchangeCode(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("exchange authorization code: %w", err)
		}

		err = app.Session.SaveConnection(cmd.Context(), session.Connection{
			AccessToken:   result.AccessToken,
			WorkspaceID:   result.WorkspaceID,
			WorkspaceName: result.WorkspaceName,
		})
		if err != nil {
			return fmt.Errorf("store connection: %w", err)
		}

		fmt.Printf("Connected to workspace: %s\n", result.WorkspaceName)
		fmt.Println("Next: pick a tasks database with 'notioncenter databases'")
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the stored Notion connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("disconnect requires configuration; check startup logs")
		}
		if err := app.Session.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear connection state: %w", err)
		}
		fmt.Println("Disconnected. Stored token and database selection removed.")
		return nil
	},
}

// printAuthURL builds the authorization URL from the locally held OAuth
// settings. The exchange itself still runs through the gateway so the client
// secret can stay on the server.
func printAuthURL(app *App) error {
	cfg := app.Config
	if !cfg.HasOAuthCredentials() {
		fmt.Println("OAuth settings are not configured locally.")
		fmt.Println("Open your gateway's connect page in a browser, approve access,")
		fmt.Println("then run: notioncenter connect <code>")
		return nil
	}

	exchanger, err := notion.NewOAuthExchanger(
		cfg.NotionClientID, cfg.NotionClientSecret, cfg.BaseURL, cfg.NotionAPIURL)
	if err != nil {
		return fmt.Errorf("configure oauth: %w", err)
	}

	fmt.Println("Open this URL in a browser and approve access:")
	fmt.Println()
	fmt.Printf("  %s\n", exchanger.AuthURL(uuid.NewString()))
	fmt.Println()
	fmt.Println("Then run: notioncenter connect <code>")
	return nil
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}
