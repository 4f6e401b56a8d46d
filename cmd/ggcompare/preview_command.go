// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ggcompare"
	"github.com/gogpu/ggcompare/canvas"
	"github.com/gogpu/ggcompare/display"
	"github.com/gogpu/ggcompare/internal/preview"
	"github.com/gogpu/ggcompare/media"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "preview <input>",
		Short: "Serve a live interactive preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Preview.Addr = addr
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			loop := display.NewLoop(cfg.Preview.RefreshRate)
			src, err := openInput(signalCtx, cfg, args[0], true, media.WithDispatch(loop.Post))
			if err != nil {
				return err
			}
			defer src.Close()

			surf, err := canvas.New(1, 1)
			if err != nil {
				return err
			}
			defer surf.Close()

			box := &ggcompare.ContainerBox{W: cfg.Render.ContainerWidth}
			srv := preview.New(preview.Config{
				Surface:     surf,
				Box:         box,
				Scheduler:   loop,
				JPEGQuality: cfg.Preview.JPEGQuality,
			})

			opts, err := cfg.ComparatorOptions()
			if err != nil {
				return err
			}
			opts = append(opts, ggcompare.WithAfterDraw(srv.Publish))
			cmp := ggcompare.New(src, surf, box, loop, opts...)
			srv.SetController(cmp)
			loop.Post(cmp.PlayWhenReady)

			fmt.Fprintf(cmd.OutOrStdout(), "Preview at http://%s/\n", cfg.Preview.Addr)

			g, gctx := errgroup.WithContext(signalCtx)
			g.Go(func() error {
				return loop.Run(gctx)
			})
			g.Go(func() error {
				return srv.ListenAndServe(gctx, cfg.Preview.Addr)
			})
			err = g.Wait()
			cmp.Close()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default preview.addr)")
	return cmd
}
