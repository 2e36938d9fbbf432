// grftool packs terrain and mask images into GRF archives the viewer can
// read through grf:// sources, and inspects existing archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/terrain-viewer/pkg/grf"
)

// imageExts are the extensions the viewer can decode.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true, ".tga": true,
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "pack":
		err = cmdPack(args, os.Stdout)
	case "list", "ls":
		err = cmdList(args, os.Stdout)
	case "extract", "x":
		err = cmdExtract(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `grftool - terrain image archive utility

Usage:
  grftool <command> [options]

Commands:
  pack [-all] <out.grf> <dir>        Pack images under dir into an archive
  list <file.grf> [pattern]          List entries (optional glob pattern)
  extract <file.grf> <entry> [dir]   Extract one entry

Examples:
  grftool pack maps.grf ./tiles
  grftool list maps.grf "*.png"
  terrain-viewer -terrain 'grf://maps.grf!/alps/color.png'`)
}

func cmdPack(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("pack", flag.ContinueOnError)
	all := flags.Bool("all", false, "Pack every file, not only decodable images")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return errors.New("usage: grftool pack [-all] <out.grf> <dir>")
	}

	files, err := collect(flags.Arg(1), *all)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to pack under %s", flags.Arg(1))
	}

	if err := grf.Create(flags.Arg(0), files); err != nil {
		return err
	}
	fmt.Fprintf(out, "Packed %d files into %s\n", len(files), flags.Arg(0))
	return nil
}

// collect reads files under root, naming entries by their slash-separated
// path relative to root.
func collect(root string, all bool) ([]grf.File, error) {
	var files []grf.File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !all && !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, grf.File{Name: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

func cmdList(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New("usage: grftool list <file.grf> [pattern]")
	}

	archive, err := grf.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	pattern := ""
	if len(args) > 1 {
		pattern = strings.ToLower(args[1])
	}

	for _, name := range match(archive.List(), pattern) {
		fmt.Fprintln(out, name)
	}
	return nil
}

// match returns sorted names whose base name matches the glob pattern or
// whose path contains it. An empty pattern matches everything.
func match(names []string, pattern string) []string {
	var out []string
	for _, name := range names {
		if pattern != "" {
			lower := strings.ToLower(name)
			matched, _ := filepath.Match(pattern, filepath.Base(lower))
			if !matched && !strings.Contains(lower, pattern) {
				continue
			}
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func cmdExtract(args []string, out io.Writer) error {
	if len(args) < 2 {
		return errors.New("usage: grftool extract <file.grf> <entry> [dir]")
	}
	outputDir := "."
	if len(args) > 2 {
		outputDir = args[2]
	}

	archive, err := grf.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	data, err := archive.Read(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	outputPath := filepath.Join(outputDir, filepath.FromSlash(grf.NormalizePath(args[1])))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	fmt.Fprintf(out, "Extracted: %s (%d bytes)\n", outputPath, len(data))
	return nil
}
