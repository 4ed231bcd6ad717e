package http

import (
	"fmt"

	"github.com/healthforge/cdssandbox/lib/netutil"
)

// TestConfig returns a Config bound to free ports, for use in tests.
func TestConfig() Config {
	publicPort := netutil.FreeTCPPort()
	internalPort := netutil.FreeTCPPort()
	return Config{
		PublicInterface: InterfaceConfig{
			Listener: fmt.Sprintf("localhost:%d", publicPort),
			BaseURL:  fmt.Sprintf("http://localhost:%d", publicPort),
		},
		InternalInterface: InterfaceConfig{
			Listener: fmt.Sprintf("localhost:%d", internalPort),
			BaseURL:  fmt.Sprintf("http://localhost:%d", internalPort),
		},
	}
}
