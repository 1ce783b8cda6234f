//go:build !windows

package pointer

import "github.com/jmylchreest/joodock/internal/hotzone"

func newWindows() (hotzone.Sampler, error) {
	return nil, ErrUnsupported
}
