// Command nanofsctl creates, inspects, and packages nanofs disk images,
// independent of mounting one with FUSE.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nanofs/nanofs/consistency"
	"github.com/nanofs/nanofs/internal/testfixtures"
	"github.com/nanofs/nanofs/pagestore"
	"github.com/nanofs/nanofs/sizes"
	"github.com/nanofs/nanofs/volume"
)

func main() {
	app := &cli.App{
		Name:  "nanofsctl",
		Usage: "create, inspect, and package nanofs disk images",
		Commands: []*cli.Command{
			formatCommand(),
			statCommand(),
			lsCommand(),
			fsckCommand(),
			exportCommand(),
			importCommand(),
			presetsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("nanofsctl: %s", err)
	}
}

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "create and format a fresh image; an already formatted image is left as is",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "pages", Usage: "total page count for a new image"},
			&cli.StringFlag{Name: "preset", Usage: "named size preset, overrides --pages"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("format requires exactly one argument: IMAGE", 1)
			}

			pages := c.Int("pages")
			if preset := c.String("preset"); preset != "" {
				p, err := sizes.Get(preset)
				if err != nil {
					return cli.Exit(err, 1)
				}
				pages = p.Pages
			}
			if pages <= 0 {
				return cli.Exit("format requires --pages or --preset", 1)
			}

			store, err := pagestore.Open(c.Args().Get(0), pages)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer store.Close()

			if _, err := volume.Mount(store); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Printf("formatted %d pages\n", pages)
			return nil
		},
	}
}

func statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print the stat record for a path inside an image",
		ArgsUsage: "IMAGE PATH",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("stat requires IMAGE and PATH", 1)
			}
			vol, store, err := openExisting(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer store.Close()

			st, err := vol.GetStat(c.Args().Get(1))
			if err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Printf("inode %d  mode %#o  nlink %d  size %d  blocks %d\n",
				st.Ino, st.Mode, st.Nlink, st.Size, st.Blocks)
			fmt.Printf("atime %s\nmtime %s\nctime %s\n", st.Atime, st.Mtime, st.Ctime)
			return nil
		},
	}
}

func lsCommand() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list a directory's entries",
		ArgsUsage: "IMAGE PATH",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("ls requires IMAGE and PATH", 1)
			}
			vol, store, err := openExisting(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer store.Close()

			names, err := vol.List(c.Args().Get(1))
			if err != nil {
				return cli.Exit(err, 1)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func fsckCommand() *cli.Command {
	return &cli.Command{
		Name:      "fsck",
		Usage:     "walk the namespace checking for consistency violations",
		ArgsUsage: "IMAGE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("fsck requires IMAGE", 1)
			}
			vol, store, err := openExisting(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer store.Close()

			if err := consistency.Check(vol); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "compress an image into a golden fixture",
		ArgsUsage: "IMAGE OUTPUT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("export requires IMAGE and OUTPUT", 1)
			}
			raw, err := os.ReadFile(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err, 1)
			}
			compressed, err := testfixtures.CompressImage(raw)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if err := os.WriteFile(c.Args().Get(1), compressed, 0o644); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Printf("wrote %d bytes (from %d raw)\n", len(compressed), len(raw))
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "decompress a golden fixture into a raw image file",
		ArgsUsage: "FIXTURE OUTPUT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("import requires FIXTURE and OUTPUT", 1)
			}
			compressed, err := os.ReadFile(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err, 1)
			}
			raw, err := testfixtures.DecompressImage(compressed)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if err := os.WriteFile(c.Args().Get(1), raw, 0o644); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Printf("wrote %d bytes\n", len(raw))
			return nil
		},
	}
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list named image-size presets",
		Action: func(c *cli.Context) error {
			for _, p := range sizes.List() {
				fmt.Printf("%-8s %8d pages  %s\n", p.Slug, p.Pages, p.Notes)
			}
			return nil
		},
	}
}

// openExisting opens an image file, inferring its page count from the file
// size, and mounts it without reformatting (Mount only formats fresh
// all-zero images, so an existing namespace survives the round trip).
func openExisting(path string) (*volume.Volume, *pagestore.Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	pages := int(info.Size() / pagestore.PageSize)
	if pages <= 0 {
		return nil, nil, fmt.Errorf("nanofsctl: %s is too small to be a nanofs image", path)
	}

	store, err := pagestore.Open(path, pages)
	if err != nil {
		return nil, nil, err
	}
	vol, err := volume.Mount(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return vol, store, nil
}
