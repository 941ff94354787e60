package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/torlangballe/zstats/zlog"
	"github.com/torlangballe/zstats/zstatgen"
	"github.com/torlangballe/zstats/ztelemetry"
)

const usage = `Usage: %s [options] [files]

  Prints count, minimum, maximum, average, standard deviation and confidence
  interval half-width of the numbers in files, or stdin if none are given
  ("-" reads stdin). Choosing columns hides the default ones.

`

func main() {
	set := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	set.Usage = func() {
		fmt.Fprintf(set.Output(), usage, os.Args[0])
		set.PrintDefaults()
	}
	flags := zstatgen.NewFlags(set)
	set.Parse(os.Args[1:])

	zlog.SetOutput(os.Stderr)
	opts, err := flags.Options()
	if err != nil {
		zlog.Error(err, "options")
		set.Usage()
		os.Exit(2)
	}
	zlog.UseColor = opts.Color
	if opts.Verbose {
		zlog.MinPriority = zlog.DebugLevel
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gen := zstatgen.NewGenerator(opts)
	var server *ztelemetry.Server
	if opts.MetricsPort != 0 {
		server = ztelemetry.NewServer(true)
		gen.Collector = ztelemetry.NewStatsCollector("zstatgen", "input", nil)
		gen.Collector.Level = opts.Level
		gen.Collector.Dist, _ = opts.Distribution()
		zlog.AssertNotError(server.Register(gen.Collector), "register collector")
		server.Start(opts.MetricsPort)
	}

	err = gen.Run(ctx, set.Args(), os.Stdout)
	if server != nil {
		zlog.Info("input done, serving metrics until interrupted")
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		zlog.OnError(server.Stop(shutdownCtx), "metrics shutdown")
		shutdownCancel()
	}
	if err != nil {
		os.Exit(1)
	}
}
