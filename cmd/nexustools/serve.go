// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/nexus-tools/internal/convert"
	"github.com/pdiddy/nexus-tools/internal/server"
	"github.com/pdiddy/nexus-tools/internal/toolchain"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion backend",
	Long: `Serve starts the HTTP backend the client talks to in development. Every tool
endpoint is served under /api/. Tools that need ffmpeg, LibreOffice,
poppler, tesseract, or ghostscript answer 501 when the program is not
installed; GET /healthz reports which ones were found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), apiToken)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		tools := toolchain.NewFinder()
		for name, ok := range tools.Status() {
			if !ok {
				logger.Warn("external program not found", zap.String("tool", name))
			}
		}
		svc := convert.NewService(tools, convert.WithWorkers(viper.GetInt("server.workers")))
		srv := server.New(cfg.Server, svc.Operations(),
			server.WithLogger(logger),
			server.WithToolStatus(tools),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")

	rootCmd.AddCommand(serveCmd)
}
