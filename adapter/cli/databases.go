package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claritysync/notioncenter/internal/session"
	"github.com/claritysync/notioncenter/internal/tasks"
)

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List the Notion databases the connection can see",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("databases requires configuration; check startup logs")
		}

		token, err := app.Session.AccessToken(cmd.Context())
		if errors.Is(err, session.ErrNotConnected) {
			fmt.Println("Not connected. Run 'notioncenter connect' first.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load connection state: %w", err)
		}

		databases, err := app.Gateway.GetDatabases(cmd.Context(), token)
		if err != nil {
			return fmt.Errorf("list databases: %w", err)
		}
		if len(databases) == 0 {
			fmt.Println("No databases are shared with the integration.")
			return nil
		}

		selected, _ := app.Session.DatabaseID(cmd.Context())

		fmt.Println("\n  DATABASES")
		fmt.Println(strings.Repeat("=", 60))
		for _, db := range databases {
			marker := " "
			if db.ID == selected {
				marker = "*"
			}
			fmt.Printf("  %s [%s] %s\n", marker, db.ID, db.Title)
		}
		fmt.Println("\n  Select one with: notioncenter database set <url-or-id>")
		fmt.Println()
		return nil
	},
}

var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Manage the selected tasks database",
}

var databaseSetCmd = &cobra.Command{
	Use:   "set <url-or-id>",
	Short: "Select the tasks database by URL or identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("database set requires configuration; check startup logs")
		}

		id, ok := tasks.ExtractDatabaseID(args[0])
		if !ok {
			return fmt.Errorf("no database identifier found in %q", args[0])
		}

		if err := app.Session.SetDatabaseID(cmd.Context(), id); err != nil {
			return fmt.Errorf("store database selection: %w", err)
		}
		fmt.Printf("Selected database %s\n", id)
		return nil
	},
}

var databaseShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the selected database identifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("database show requires configuration; check startup logs")
		}

		id, err := app.Session.DatabaseID(cmd.Context())
		if errors.Is(err, session.ErrNoDatabase) {
			fmt.Println("No database selected. Run 'notioncenter database set <url-or-id>'.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load database selection: %w", err)
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	databaseCmd.AddCommand(databaseSetCmd)
	databaseCmd.AddCommand(databaseShowCmd)
	rootCmd.AddCommand(databasesCmd)
	rootCmd.AddCommand(databaseCmd)
}
