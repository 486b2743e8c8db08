package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/claritysync/notioncenter/adapter/api"
	"github.com/claritysync/notioncenter/internal/notion"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the proxy gateway server",
	Long: `Run the HTTP gateway that proxies widget requests to the Notion API.

The gateway keeps the OAuth client secret server-side and relays database
queries, database listings, and task updates on behalf of connected widgets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("serve requires configuration; check startup logs")
		}
		cfg := app.Config

		upstreamCfg := notion.DefaultClientConfig()
		upstreamCfg.BaseURL = cfg.NotionAPIURL
		upstreamCfg.Version = cfg.NotionVersion
		upstream := notion.NewClient(upstreamCfg, app.Logger)

		handlerCfg := api.GatewayHandlerConfig{
			Upstream:        upstream,
			Logger:          app.Logger,
			HasClientID:     cfg.NotionClientID != "",
			HasClientSecret: cfg.NotionClientSecret != "",
			HasBaseURL:      cfg.BaseURL != "",
		}
		if cfg.HasOAuthCredentials() {
			exchanger, err := notion.NewOAuthExchanger(
				cfg.NotionClientID, cfg.NotionClientSecret, cfg.BaseURL, cfg.NotionAPIURL)
			if err != nil {
				return fmt.Errorf("configure oauth exchange: %w", err)
			}
			handlerCfg.Exchanger = exchanger
		} else {
			app.Logger.Warn("oauth credentials incomplete; /oauth exchange disabled")
		}

		serverCfg := api.DefaultServerConfig()
		serverCfg.Addr = cfg.HTTPAddr
		server := api.NewServer(serverCfg, api.NewGatewayHandler(handlerCfg), app.Logger)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
