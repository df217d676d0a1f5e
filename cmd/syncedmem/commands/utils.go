package commands

import (
	"errors"
	"fmt"

	"github.com/born-ml/syncedmem/internal/config"
	"github.com/born-ml/syncedmem/syncedmem"
)

// openDevice resolves a config device name. The release function is never nil.
func openDevice(name string) (syncedmem.Device, func(), error) {
	switch name {
	case config.DeviceAuto:
		dev, release := syncedmem.OpenDevice()
		return dev, release, nil
	case config.DeviceWebGPU:
		gpu, err := syncedmem.OpenWebGPU()
		if err != nil {
			return nil, func() {}, err
		}
		return gpu, gpu.Release, nil
	case config.DeviceSim:
		return syncedmem.NewSim(), func() {}, nil
	case config.DeviceNone:
		return nil, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown device %q", name)
	}
}

func hostAllocator(name string) syncedmem.Allocator {
	if name == config.HostGo {
		return syncedmem.GoAllocator{}
	}
	return syncedmem.DefaultAllocator()
}

func deviceName(dev syncedmem.Device) string {
	if dev == nil {
		return "none"
	}
	return dev.Name()
}

// bufferConfig returns a SyncedBuffer config for the loaded settings.
func bufferConfig(dev syncedmem.Device) syncedmem.Config {
	c := syncedmem.DefaultConfig()
	c.Host = hostAllocator(cfg.Host)
	c.Device = dev
	c.Logger = log.Named("syncedmem")
	return c
}

// guard turns a fatal buffer panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var fatal *syncedmem.Error
		if e, ok := r.(error); ok && errors.As(e, &fatal) {
			err = fatal
			return
		}
		panic(r)
	}()
	return fn()
}

func printCopyStats(dev syncedmem.Device) {
	switch d := dev.(type) {
	case *syncedmem.Sim:
		st := d.Stats()
		fmt.Printf("Copies: %d host->device, %d device->host (%d live bytes)\n",
			st.HostToDevice, st.DeviceToHost, st.LiveBytes)
	case *syncedmem.WebGPUDevice:
		st := d.MemoryStats()
		fmt.Printf("Copies: %d uploads, %d downloads, peak %d bytes, pool hits %d\n",
			st.Uploads, st.Downloads, st.PeakBytes, st.Pool.Hits)
	}
}
