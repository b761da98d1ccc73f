/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/k1LoW/slidejsx"
	"github.com/k1LoW/slidejsx/config"
	"github.com/k1LoW/slidejsx/server"
	"github.com/spf13/cobra"
)

var (
	addr         string
	allowOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the conversion API over HTTP",
	Long:  `serve the conversion API over HTTP.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		logger, stop, err := newLogger(true)
		if err != nil {
			return err
		}
		defer stop()
		r, err := slidejsx.New(rendererOptions(cfg, logger)...)
		if err != nil {
			return err
		}
		opts := []server.Option{
			server.WithLogger(logger),
			server.WithRenderer(r),
			server.WithAllowOrigins(allowOrigins...),
		}
		if cfg.ComponentName != "" {
			opts = append(opts, server.WithComponentName(cfg.ComponentName))
		}
		s, err := server.New(opts...)
		if err != nil {
			return err
		}
		cmd.PrintErrf("listening on %s\n", addr)
		return s.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&addr, "addr", "", ":8080", "address to listen on")
	serveCmd.Flags().StringSliceVarP(&allowOrigins, "allow-origin", "", nil, "origins allowed by CORS (default: all)")
}
