package commands

import (
	"fmt"
	"runtime"

	"github.com/born-ml/syncedmem/syncedmem"
	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Show device information",
	Long: `Display the device and host allocator selected by the current
configuration, and whether a WebGPU adapter is present.`,
	RunE: runDevice,
}

func init() {
	rootCmd.AddCommand(deviceCmd)
}

func runDevice(cmd *cobra.Command, args []string) error {
	dev, release, err := openDevice(cfg.Device)
	if err != nil {
		fmt.Printf("Device error: %v\n", err)
		fmt.Println("Available devices: auto, sim, webgpu, none")
		return err
	}
	defer release()

	fmt.Printf("Device:          %s (requested %s)\n", deviceName(dev), cfg.Device)
	fmt.Printf("Host allocator:  %s\n", cfg.Host)
	fmt.Printf("WebGPU adapter:  %t\n", syncedmem.WebGPUAvailable())
	fmt.Printf("Platform:        %s/%s, %d CPUs\n", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if gpu, ok := dev.(*syncedmem.WebGPUDevice); ok {
		st := gpu.MemoryStats()
		fmt.Printf("GPU memory:      %d bytes allocated, %d active buffers\n", st.AllocatedBytes, st.ActiveBuffers)
	}
	return nil
}
