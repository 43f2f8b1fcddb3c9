//go:build !windows

package platform

import "github.com/tabwatch/tabwatch/pkg/logger"

func newIntegration(log logger.Logger) Integration {
	return &Noop{Log: log}
}
