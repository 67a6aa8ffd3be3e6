// Package mcp exposes the JSON helpers as Model Context Protocol tools.
package mcp

import (
	"context"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const serverName = "json-utils"

type Server struct {
	mcpServer *mcp.Server
}

func NewServer(version string) *Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)

	srv := &Server{mcpServer: s}
	srv.registerTools()
	return srv
}

// Serve runs a single session over r and w until the client disconnects or
// ctx is cancelled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	zap.S().Infow("starting mcp server", "name", serverName)
	return s.mcpServer.Run(ctx, &mcp.IOTransport{
		Reader: io.NopCloser(r),
		Writer: nopWriteCloser{Writer: w},
	})
}

// Connect attaches a session to t without blocking.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
