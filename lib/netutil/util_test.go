package netutil

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeTCPPort(t *testing.T) {
	t.Run("two consecutive ports differ", func(t *testing.T) {
		port1 := FreeTCPPort()
		port2 := FreeTCPPort()
		assert.NotEqual(t, port1, port2)
	})
	t.Run("port is ready to bind", func(t *testing.T) {
		port := FreeTCPPort()
		require.Positive(t, port)

		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		require.NoError(t, err)
		_ = listener.Close()
	})
}
