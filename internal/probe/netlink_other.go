//go:build !linux
// +build !linux

package probe

import (
	"context"
	"errors"
)

func netlinkDefaultInterface(ctx context.Context) (string, bool, error) {
	return "", false, &ExecutionError{
		Op:     "default interface",
		Source: "netlink",
		Err:    errors.New("netlink route source is only available on linux"),
	}
}
