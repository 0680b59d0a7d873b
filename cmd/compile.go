package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/loaders"
)

// CompileMeshes converts mesh files to a (by default zstd-compressed binary
// PLY) mesh file next to each input.
func CompileMeshes(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing mesh file argument")
	}
	format := loaders.Format(ctx.String("format"))
	compression := loaders.Compression(ctx.String("compression"))
	if compression == "none" {
		compression = loaders.CompressionNone
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Input", "Output", "Vertices", "Triangles", "Size"})

	for _, in := range ctx.Args() {
		out, err := compiledPath(in, format, compression)
		if err != nil {
			return err
		}

		data, err := loaders.Load(in)
		if err != nil {
			return err
		}
		if err := loaders.Save(out, data); err != nil {
			return err
		}
		logger.Info().Str("input", in).Str("output", out).Int("triangles", data.TriangleCount()).Msg("mesh compiled")

		table.Append([]string{
			in,
			out,
			fmt.Sprintf("%d", len(data.Positions)),
			fmt.Sprintf("%d", data.TriangleCount()),
			fmt.Sprintf("%s -> %s", fileSize(in), fileSize(out)),
		})
	}

	table.Render()
	return nil
}

// compiledPath replaces the format and compression extensions of path.
// "bunny.obj" becomes "bunny.ply.zst" for PLY with zstd.
func compiledPath(path string, format loaders.Format, compression loaders.Compression) (string, error) {
	inFormat, inCompression, err := loaders.DetectFormat(path)
	if err != nil {
		return "", err
	}

	base := path
	if inCompression != loaders.CompressionNone {
		base = base[:len(base)-len(inCompression)-1]
	}
	base = base[:len(base)-len(inFormat)-1]

	out := base + "." + string(format)
	if compression != loaders.CompressionNone {
		out += "." + string(compression)
	}
	if _, _, err := loaders.DetectFormat(out); err != nil {
		return "", err
	}
	if filepath.Clean(out) == filepath.Clean(path) {
		return "", fmt.Errorf("%s: output would overwrite input", path)
	}
	return out, nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%.1f KiB", float64(info.Size())/1024)
}
