// Command justsync is the collaborative-editing daemon of spec.md §1: a
// process that bridges one editor (over stdio LSP) to one remote peer (over
// QUIC), either as the hosting side or the connecting side.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/justsync/justsync/internal/agentid"
	"github.com/justsync/justsync/internal/core"
	"github.com/justsync/justsync/internal/editor"
	"github.com/justsync/justsync/internal/fsutil"
	"github.com/justsync/justsync/internal/logging"
	"github.com/justsync/justsync/internal/network"
	"github.com/justsync/justsync/internal/workspace"
)

func main() {
	mode := flag.String("mode", "", "daemon role: \"host\" or \"peer\" (required)")
	remoteIP := flag.String("remote-ip", "", "host address to dial, e.g. 127.0.0.1:4444 (peer mode only)")
	token := flag.String("token", "", "hex fingerprint printed by the host (peer mode only)")
	port := flag.Int("port", 4444, "UDP port to listen on (host mode only)")
	root := flag.String("root", ".", "project directory: scanned and served in host mode; received files are written here in both modes")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logging.SetLevel(*debug)
	defer logging.Sync()

	if err := run(*mode, *remoteIP, *token, *port, *root); err != nil {
		logging.L.Error("justsync: fatal", zap.Error(err))
		os.Exit(1)
	}
}

func run(mode, remoteIP, token string, port int, root string) error {
	switch mode {
	case "host":
	case "peer":
		if remoteIP == "" {
			return fmt.Errorf("justsync: --remote-ip is required in peer mode")
		}
		if token == "" {
			return fmt.Errorf("justsync: --token is required in peer mode")
		}
	case "":
		return fmt.Errorf("justsync: --mode is required (host or peer)")
	default:
		return fmt.Errorf("justsync: unknown --mode %q, expected \"host\" or \"peer\"", mode)
	}

	// A UUID generated at startup, not a fixed "host"/"peer" literal: the
	// host's accept loop can in principle serve more than one connection,
	// and two connections both tagging ops as agent "peer" would collide
	// OpIDs (spec.md §3).
	agent := agentid.New()

	ws := workspace.New(agent)
	ctrl := core.New(ws, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logging.L.Info("justsync: signal received, shutting down")
		ctrl.Send(core.Shutdown{})
		cancel()
	}()

	done := make(chan struct{})
	go func() { ctrl.Run(ctx); close(done) }()

	ed := editor.New(ctrl, os.Stdin, os.Stdout)
	editorDone := make(chan error, 1)
	go func() { editorDone <- ed.Run(ctx) }()

	switch mode {
	case "host":
		if err := startHost(ctx, ctrl, root, port); err != nil {
			return err
		}
	case "peer":
		if err := network.RunPeer(ctx, ctrl, remoteIP, token); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
	case err := <-editorDone:
		ctrl.Send(core.Shutdown{})
		cancel()
		if err != nil {
			logging.L.Warn("justsync: editor stream closed with error", zap.Error(err))
		}
	}
	<-done
	return nil
}

func startHost(ctx context.Context, ctrl *core.Controller, root string, port int) error {
	files, err := fsutil.ScanProjectDirectory(root)
	if err != nil {
		return fmt.Errorf("justsync: scan project directory: %w", err)
	}
	for uri, content := range files {
		ctrl.Send(core.LoadFromDisk{URI: uri, Content: content})
	}

	addr := fmt.Sprintf(":%d", port)
	tok, err := network.RunHost(ctx, ctrl, addr)
	if err != nil {
		return fmt.Errorf("justsync: start host listener: %w", err)
	}

	fmt.Fprintln(os.Stderr, "JustSync host token (share with peers):")
	fmt.Fprintln(os.Stderr, "----------------------------------------")
	fmt.Fprintln(os.Stderr, tok)
	fmt.Fprintln(os.Stderr, "----------------------------------------")
	return nil
}
