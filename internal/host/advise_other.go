//go:build unix && !linux

package host

func adviseHugePages([]byte) {}
