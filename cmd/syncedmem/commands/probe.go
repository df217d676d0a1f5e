package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/born-ml/syncedmem/syncedmem"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Round-trip a buffer through the device",
	Long: `Write a pattern on the host, read it on the device, hand the device
copy back as authoritative and read it on the host again. Each step
prints the resulting head state.`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().Int("size", 0, "buffer size in bytes (default from config)")
	probeCmd.Flags().Int("iterations", 0, "round trips to run (default from config)")
	_ = v.BindPFlag("probe.size_bytes", probeCmd.Flags().Lookup("size"))
	_ = v.BindPFlag("probe.iterations", probeCmd.Flags().Lookup("iterations"))
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	dev, release, err := openDevice(cfg.Device)
	if err != nil {
		return err
	}
	defer release()
	if dev == nil {
		return fmt.Errorf("probe needs a device; got %q", cfg.Device)
	}

	size := cfg.Probe.SizeBytes
	fmt.Printf("Device: %s, %d bytes, %d iterations\n", dev.Name(), size, cfg.Probe.Iterations)

	buf := syncedmem.NewWithConfig(size, bufferConfig(dev))
	defer func() {
		if err := buf.Release(); err != nil {
			fmt.Printf("Release: %v\n", err)
		}
	}()

	want := make([]byte, size)
	for i := range want {
		want[i] = byte(i * 7)
	}

	start := time.Now()
	err = guard(func() error {
		for i := 0; i < cfg.Probe.Iterations; i++ {
			copy(buf.WriteHost(), want)
			step("WriteHost", buf)
			buf.ReadDevice()
			step("ReadDevice", buf)
			buf.WriteDevice()
			step("WriteDevice", buf)
			if !bytes.Equal(buf.ReadHost(), want) {
				return fmt.Errorf("iteration %d: round trip mismatch on %s", i, dev.Name())
			}
			step("ReadHost", buf)
		}
		return nil
	})
	if err != nil {
		return err
	}

	printCopyStats(dev)
	fmt.Printf("OK in %s\n", time.Since(start).Round(time.Microsecond))
	return nil
}

func step(op string, buf *syncedmem.SyncedBuffer) {
	if verbose {
		fmt.Printf("  %-12s -> %s\n", op, buf.Head())
	}
}
