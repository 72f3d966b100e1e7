package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/justestif/go-mood-mirror/internal/web"
	webfs "github.com/justestif/go-mood-mirror/web"
)

// writeSlack is added to the model timeout to bound a whole /analyze response.
const writeSlack = 30 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web app with the camera capture page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.buildApp(context.WithoutCancel(cmd.Context()))
			if err != nil {
				return err
			}
			defer a.flush()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			templates, err := webfs.Templates()
			if err != nil {
				return fmt.Errorf("creating templates filesystem: %w", err)
			}
			static, err := webfs.Static()
			if err != nil {
				return fmt.Errorf("creating static filesystem: %w", err)
			}

			server, err := web.NewServer(web.ServerConfig{
				Addr:         addr,
				TemplatesFS:  templates,
				StaticFS:     static,
				Pipeline:     a.pipeline,
				Logger:       a.logger,
				WriteTimeout: a.cfg.Detector.Timeout() + writeSlack,
			})
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
