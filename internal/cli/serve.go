package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellmeing/internal/lockfile"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/server"
)

type ServeCmd struct {
	Addr string `default:":8080" env:"WELLMEING_ADDR" help:"Address to listen on."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	if !ctx.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := []server.Option{server.WithClock(ctx.now)}
	if a, err := ctx.loadAssistant(); err != nil {
		logger.Warn("Assistant disabled, report and speech routes will answer 503", "error", err)
	} else {
		opts = append(opts, server.WithAssistant(a))
	}

	if db, ok := ctx.localDatabase(); ok {
		release, err := lockfile.Acquire(db, c.Addr)
		if err != nil {
			return err
		}
		defer release()
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.printf("Serving wellmeing on %s\n", c.Addr)
	return server.New(ctx.Store, opts...).Run(runCtx, c.Addr)
}
