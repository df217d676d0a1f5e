package commands

import (
	"fmt"

	"github.com/born-ml/syncedmem/layout"
	"github.com/born-ml/syncedmem/syncedmem"
	"github.com/spf13/cobra"
)

var (
	layoutN, layoutC, layoutHW, layoutBlock int
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Convert a blocked private layout back to NCHW",
	Long: `Pack a float32 NCHW tensor into an nCHWc private buffer, mark the
private copy authoritative, then read it back on the host through the
blocked converter and on the device when one is configured.`,
	RunE: runLayout,
}

func init() {
	f := layoutCmd.Flags()
	f.IntVar(&layoutN, "n", 1, "batch size")
	f.IntVar(&layoutC, "c", 16, "channels")
	f.IntVar(&layoutHW, "hw", 8, "spatial height and width")
	f.IntVar(&layoutBlock, "block", 8, "channels per block")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	desc, err := layout.NewBlocked(layoutN, layoutC, layoutHW, layoutHW, layoutBlock)
	if err != nil {
		return err
	}
	dev, release, err := openDevice(cfg.Device)
	if err != nil {
		return err
	}
	defer release()

	bc := bufferConfig(dev)
	bc.Descriptor = desc
	bc.Converter = layout.NewBlockedConverter()
	buf := syncedmem.NewWithConfig(desc.Bytes(), bc)
	defer func() { _ = buf.Release() }()

	fmt.Printf("Layout: %s, %d bytes, device %s\n", desc, desc.Bytes(), deviceName(dev))

	return guard(func() error {
		want := make([]float32, desc.Elements())
		for i := range want {
			want[i] = float32(i)
		}
		if err := layout.Pack(syncedmem.Bytes(want), buf.InitPrivateData(), desc, layout.DefaultParallel()); err != nil {
			return err
		}
		buf.WritePrivate()
		fmt.Printf("  %-12s -> %s\n", "WritePrivate", buf.Head())

		got := syncedmem.View[float32](buf.ReadHost())
		fmt.Printf("  %-12s -> %s\n", "ReadHost", buf.Head())
		for i := range want {
			if got[i] != want[i] {
				return fmt.Errorf("element %d: got %v, want %v", i, got[i], want[i])
			}
		}

		if dev != nil {
			buf.ReadDevice()
			fmt.Printf("  %-12s -> %s\n", "ReadDevice", buf.Head())
			printCopyStats(dev)
		}
		fmt.Println("OK")
		return nil
	})
}
