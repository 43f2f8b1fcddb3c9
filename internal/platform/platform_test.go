package platform

import (
	"testing"

	"github.com/tabwatch/tabwatch/pkg/logger"
)

func TestNoopNotifyLogs(t *testing.T) {
	log := logger.NewMockLogger()
	n := &Noop{Log: log}

	if err := n.Notify("tabwatch", "table refreshed"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(log.InfoCalls) != 1 {
		t.Fatalf("InfoCalls = %v, want one", log.InfoCalls)
	}
}

func TestNoopStartupIsInert(t *testing.T) {
	n := &Noop{}
	if err := n.RegisterStartup("/bin/tabwatch"); err != nil {
		t.Errorf("RegisterStartup: %v", err)
	}
	if err := n.UnregisterStartup(); err != nil {
		t.Errorf("UnregisterStartup: %v", err)
	}
	ok, err := n.StartupRegistered()
	if err != nil || ok {
		t.Errorf("StartupRegistered = %v, %v; want false, nil", ok, err)
	}
	if err := n.Notify("t", "m"); err != nil {
		t.Errorf("Notify without logger: %v", err)
	}
}

func TestNewReturnsIntegration(t *testing.T) {
	if New(logger.NewNopLogger()) == nil {
		t.Fatal("New returned nil")
	}
}
