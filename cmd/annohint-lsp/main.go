// Command annohint-lsp is a Language Server Protocol server providing
// parameter info for Java annotations.
package main

import (
	"context"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/annohint/lsp"
)

func main() {
	// Set up logging to stderr (stdout is for LSP communication).
	// The level is adjusted by log_level in .annohint.yaml on initialize.
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = level

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting annohint-lsp server")

	ctx := context.Background()

	err = run(ctx, logger, level, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, level zap.AtomicLevel, in io.Reader, out io.Writer) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	client := protocol.ClientDispatcher(conn, logger)

	server := lsp.NewServer(client, logger, lsp.WithLevel(level))

	conn.Go(ctx, protocol.ServerHandler(server, nil))

	<-conn.Done()

	return conn.Err()
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
