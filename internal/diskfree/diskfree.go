// Package diskfree samples filesystem usage for the disk-space guard.
package diskfree

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// Sampler reports the used percentage of the filesystem hosting path.
type Sampler interface {
	UsedPercent(path string) (float64, error)
}

type osSampler struct{}

func New() Sampler {
	return osSampler{}
}

func (osSampler) UsedPercent(path string) (float64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("sampling disk usage for %s: %w", path, err)
	}
	return usage.UsedPercent, nil
}
