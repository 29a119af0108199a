package cmd

import (
	"context"
	"fmt"

	"github.com/jpfielding/pngcore.go/pkg/compress/png"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewSolidCmd writes a single-colour image
func NewSolidCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solid",
		Short: "encode a solid colour raster",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := dimensions(cmd)
			if err != nil {
				return err
			}
			hex, _ := cmd.Flags().GetString("color")
			c, err := colorful.Hex(hex)
			if err != nil {
				return fmt.Errorf("invalid color %q: %w", hex, err)
			}
			r := png.NewRaster(w, h)
			r.Fill(toPixel(c))
			return writeRaster(ctx, cmd, r)
		},
	}
	pf := cmd.PersistentFlags()
	addDimensionFlags(pf)
	pf.String("color", "#ff0000", "fill colour as #rrggbb")
	addEncodeFlags(pf)
	return cmd
}

// NewGradientCmd writes a left-to-right gradient blended in CIE L*a*b*
func NewGradientCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gradient",
		Short: "encode a horizontal colour gradient raster",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := dimensions(cmd)
			if err != nil {
				return err
			}
			fromHex, _ := cmd.Flags().GetString("from")
			toHex, _ := cmd.Flags().GetString("to")
			from, err := colorful.Hex(fromHex)
			if err != nil {
				return fmt.Errorf("invalid color %q: %w", fromHex, err)
			}
			to, err := colorful.Hex(toHex)
			if err != nil {
				return fmt.Errorf("invalid color %q: %w", toHex, err)
			}
			return writeRaster(ctx, cmd, gradient(w, h, from, to))
		},
	}
	pf := cmd.PersistentFlags()
	addDimensionFlags(pf)
	pf.String("from", "#000000", "left colour as #rrggbb")
	pf.String("to", "#ffffff", "right colour as #rrggbb")
	addEncodeFlags(pf)
	return cmd
}

func gradient(w, h uint32, from, to colorful.Color) *png.Raster {
	r := png.NewRaster(w, h)
	for x := uint32(0); x < w; x++ {
		t := 0.0
		if w > 1 {
			t = float64(x) / float64(w-1)
		}
		p := toPixel(from.BlendLab(to, t))
		for y := uint32(0); y < h; y++ {
			r.Set(x, y, p)
		}
	}
	return r
}

func toPixel(c colorful.Color) png.Pixel {
	r, g, b := c.Clamped().RGB255()
	return png.Pixel{R: r, G: g, B: b}
}

func addDimensionFlags(pf *pflag.FlagSet) {
	pf.Uint32P("width", "W", 256, "raster width in pixels")
	pf.Uint32P("height", "H", 256, "raster height in pixels")
}

func dimensions(cmd *cobra.Command) (uint32, uint32, error) {
	w, _ := cmd.Flags().GetUint32("width")
	h, _ := cmd.Flags().GetUint32("height")
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("width and height must be positive: %dx%d", w, h)
	}
	return w, h, nil
}
