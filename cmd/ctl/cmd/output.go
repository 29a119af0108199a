package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jpfielding/pngcore.go/pkg/compress/deflate"
	"github.com/jpfielding/pngcore.go/pkg/compress/png"
	"github.com/jpfielding/pngcore.go/pkg/logging"
	"github.com/jpfielding/pngcore.go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addEncodeFlags registers the flags shared by every command that writes a PNG.
func addEncodeFlags(pf *pflag.FlagSet) {
	pf.StringP("out", "o", "", "output path, '-' for stdout (default <content uuid>.png)")
	pf.IntP("level", "l", png.DefaultLevel, "compression level (-2 huffman only, -1 default, 0-9)")
	pf.StringP("compressor", "c", "zlib", fmt.Sprintf("compressor %v", deflate.Names()))
	pf.Int("chunk-size", 0, "split image data into IDAT chunks of at most this many bytes (0 = one chunk)")
}

// encodeSettings reads the shared encode flags.
func encodeSettings(cmd *cobra.Command) (deflate.Compressor, int, error) {
	name, _ := cmd.Flags().GetString("compressor")
	level, _ := cmd.Flags().GetInt("level")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	if chunkSize < 0 {
		return nil, 0, fmt.Errorf("chunk-size must not be negative: %d", chunkSize)
	}
	c, err := deflate.ByName(name, level)
	if err != nil {
		return nil, 0, err
	}
	return c, chunkSize, nil
}

// writeRaster encodes r with the command's settings and stores it.
func writeRaster(ctx context.Context, cmd *cobra.Command, r *png.Raster) error {
	c, chunkSize, err := encodeSettings(cmd)
	if err != nil {
		return err
	}
	ctx = logging.AppendCtx(ctx,
		slog.Int("width", int(r.Width)),
		slog.Int("height", int(r.Height)),
		slog.String("compressor", c.Name()),
		slog.Int("level", c.Level()),
	)

	chunks, err := png.Chunks(r, deflate.Func(c), chunkSize)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data, err := png.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	out, _ := cmd.Flags().GetString("out")
	report := cmd.OutOrStdout()
	if out == "-" {
		report = cmd.ErrOrStderr()
	}
	printChunks(report, chunks)
	digest := util.Md5Hex(data)
	fmt.Fprintf(report, "md5 %s  %d bytes\n", digest, len(data))

	path, err := store(cmd.OutOrStdout(), out, data)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote png", "path", path, "bytes", len(data), "chunks", len(chunks), "md5", digest)
	return nil
}

// store writes data to out and returns where it went.
func store(stdout io.Writer, out string, data []byte) (string, error) {
	switch out {
	case "-":
		_, err := stdout.Write(data)
		return "-", err
	case "":
		out = util.ContentUUID(data) + ".png"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return out, fmt.Errorf("failed to write file: %w", err)
	}
	return out, nil
}

func printChunks(w io.Writer, chunks []png.Chunk) {
	fmt.Fprintf(w, "%-4s  %10s  %-8s\n", "TYPE", "LENGTH", "CRC")
	for _, c := range chunks {
		fmt.Fprintf(w, "%-4s  %10d  %08x\n", c.Type, c.Len(), c.CRC())
	}
}
