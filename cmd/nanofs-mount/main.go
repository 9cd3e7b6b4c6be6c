// Command nanofs-mount is the kernel-bridge adapter's CLI entry point: it
// is invoked with mount arguments followed by the image path as the final
// argument, backs that image with a pagestore.Store, and serves it as a
// POSIX file system at the given mount point until unmounted.
package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nanofs/nanofs"
	"github.com/nanofs/nanofs/bridge"
	"github.com/nanofs/nanofs/internal/nanolog"
	"github.com/nanofs/nanofs/pagestore"
	"github.com/nanofs/nanofs/volume"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "nanofs-mount",
		Usage:     "Mount a nanofs image as a POSIX file system",
		ArgsUsage: "MOUNTPOINT IMAGE",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "pages",
				Usage: "total pages to format a brand-new image with",
				Value: 4096,
			},
			&cli.BoolFlag{
				Name:  "read-only",
				Usage: "mount without write access",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug-level logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("nanofs-mount: %s", err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("expected MOUNTPOINT and IMAGE arguments", 1)
	}
	mountPoint := c.Args().Get(0)
	imagePath := c.Args().Get(1)

	if c.Bool("debug") {
		nanolog.SetLevel(slog.LevelDebug)
	}

	store, err := pagestore.Open(imagePath, c.Int("pages"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	vol, err := volume.Mount(store)
	if err != nil {
		store.Close()
		return cli.Exit(err, 1)
	}
	defer vol.Close()

	flags := nanofs.MountFlagsAllowReadWrite
	if c.Bool("read-only") {
		flags = nanofs.MountFlagsAllowRead
	}

	server, err := bridge.Mount(mountPoint, vol, flags)
	if err != nil {
		return cli.Exit(err, 1)
	}

	nanolog.Info("mounted", "mountpoint", mountPoint, "image", imagePath)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		nanolog.Info("signal received, unmounting")
		server.Unmount()
	}()

	server.Wait()
	return nil
}
