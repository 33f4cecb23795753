package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil pipeline service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingPipelineService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Pipeline: &mockPipelineService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		var ports *Ports
		assert.ErrorIs(t, ports.Validate(), ErrMissingPipelineService)
	})

	t.Run("pipeline only is valid", func(t *testing.T) {
		ports := &Ports{Pipeline: &mockPipelineService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Pipeline: &mockPipelineService{},
			Taps:     &mockTapRegistry{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ListenAddr("", 8080))
	assert.Equal(t, "0.0.0.0:9000", ListenAddr("0.0.0.0", 9000))
	assert.Equal(t, "[::1]:8080", ListenAddr("::1", 8080))
}

func TestServer_ServeOnLoopback(t *testing.T) {
	server, err := NewServer(&Ports{Pipeline: &mockPipelineService{}})
	require.NoError(t, err)

	ln, err := server.Listen(ListenAddr("", 0))
	require.NoError(t, err)
	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)
	assert.True(t, addr.IP.IsLoopback())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
