//go:build linux

package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// dmiRoot is the kernel's decoded DMI directory. Individual attribute
// files may be unreadable without privileges; those fields stay empty.
var dmiRoot = "/sys/class/dmi/id"

// probeBoard reads motherboard and firmware identity from sysfs.
// The Chipset field is filled in later from the combined inventory.
func probeBoard(ctx context.Context) (types.BoardInfo, error) {
	board := types.BoardInfo{
		Vendor:      dmiAttr("board_vendor"),
		Product:     dmiAttr("board_name"),
		Version:     dmiAttr("board_version"),
		BIOSVendor:  dmiAttr("bios_vendor"),
		BIOSVersion: dmiAttr("bios_version"),
		BIOSDate:    dmiAttr("bios_date"),
	}
	return board, ctx.Err()
}

// dmiAttr reads one DMI attribute, returning "" when absent or when the
// firmware filled it with a placeholder.
func dmiAttr(name string) string {
	data, err := os.ReadFile(filepath.Join(dmiRoot, name))
	if err != nil {
		return ""
	}
	value := strings.TrimSpace(string(data))
	switch strings.ToLower(value) {
	case "to be filled by o.e.m.", "default string", "none", "n/a":
		return ""
	}
	return value
}
