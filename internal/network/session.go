package network

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"
	"go.uber.org/zap"

	"github.com/justsync/justsync/internal/core"
	"github.com/justsync/justsync/internal/logging"
	"github.com/justsync/justsync/internal/wire"
)

// keepAlivePeriod, idleTimeout and maxUniStreams are the connection limits
// mandated by spec.md §4.4.
const (
	keepAlivePeriod = 2 * time.Second
	idleTimeout     = 30 * time.Second
	maxUniStreams   = 100
)

func quicConfig() *quic.Config {
	return &quic.Config{
		KeepAlivePeriod:       keepAlivePeriod,
		MaxIdleTimeout:        idleTimeout,
		MaxIncomingUniStreams: maxUniStreams,
	}
}

// RunHost listens on addr, accepts peer connections in a loop (one session
// goroutine per connection), and returns the fingerprint token the
// operator must hand to peers out of band. All sessions drain the same
// Controller network outbox, so each outbound command is sent on only one
// of the open connections.
func RunHost(ctx context.Context, ctrl *core.Controller, addr string) (string, error) {
	cert, token, err := GenerateHostCertificate()
	if err != nil {
		return "", err
	}

	listener, err := quic.ListenAddr(addr, HostTLSConfig(cert), quicConfig())
	if err != nil {
		return "", errors.Wrap(err, "network: listen")
	}

	go func() {
		for {
			conn, err := listener.Accept(ctx)
			if err != nil {
				logging.L.Info("network: listener closed", zap.Error(err))
				return
			}
			logging.L.Info("network: peer connected", zap.String("remote", conn.RemoteAddr().String()))
			go runSession(ctx, ctrl, conn)
		}
	}()

	return token, nil
}

// RunPeer dials the host at addr, verifying its certificate against token,
// then requests a full sync and begins the normal session loops.
func RunPeer(ctx context.Context, ctrl *core.Controller, addr, token string) error {
	tlsConf, err := PeerTLSConfig(token)
	if err != nil {
		return err
	}

	conn, err := quic.DialAddr(ctx, addr, tlsConf, quicConfig())
	if err != nil {
		return errors.Wrap(err, "network: dial host")
	}

	if err := sendMessage(ctx, conn, wire.NewRequestFullSync()); err != nil {
		return errors.Wrap(err, "network: request full sync")
	}

	go runSession(ctx, ctrl, conn)
	return nil
}

// runSession owns one QUIC connection for its lifetime: an inbound loop
// accepting unidirectional streams and decoding one wire.Message from each,
// and an outbound loop draining the Controller's network outbox and opening
// a fresh unidirectional stream per command. Either loop exiting (on
// connection loss) shuts the Controller down.
func runSession(ctx context.Context, ctrl *core.Controller, conn quic.Connection) {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go inboundLoop(sessionCtx, ctrl, conn)
	outboundLoop(sessionCtx, ctrl, conn)
}

func inboundLoop(ctx context.Context, ctrl *core.Controller, conn quic.Connection) {
	defer ctrl.Send(core.Shutdown{})
	peerID := conn.RemoteAddr().String()
	for {
		stream, err := conn.AcceptUniStream(ctx)
		if err != nil {
			logging.L.Info("network: connection lost", zap.Error(err))
			return
		}
		go decodeStream(ctrl, stream, peerID)
	}
}

func decodeStream(ctrl *core.Controller, stream quic.ReceiveStream, peerID string) {
	msg, err := wire.Read(stream, wire.MaxMessageBytes)
	if err != nil {
		logging.L.Error("network: decode inbound message failed", zap.Error(err))
		return
	}
	ev := translateInbound(msg, peerID)
	if ev != nil {
		ctrl.Send(ev)
	}
}

func outboundLoop(ctx context.Context, ctrl *core.Controller, conn quic.Connection) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-ctrl.NetworkOutbox():
			if !ok {
				return
			}
			msg := translateOutbound(cmd)
			if err := sendMessage(ctx, conn, msg); err != nil {
				logging.L.Error("network: send message failed", zap.Error(err))
			}
		}
	}
}

// sendMessage opens a fresh unidirectional stream, writes one message, and
// finishes it — one message per stream, per spec.md §4.4.
func sendMessage(ctx context.Context, conn quic.Connection, msg wire.Message) error {
	stream, err := conn.OpenUniStreamSync(ctx)
	if err != nil {
		return errors.Wrap(err, "network: open stream")
	}
	if err := wire.Write(stream, msg); err != nil {
		_ = stream.Close()
		return err
	}
	return stream.Close()
}

func translateInbound(msg wire.Message, peerID string) core.Event {
	switch msg.Type {
	case wire.TypePatch:
		return core.RemotePatch{URI: msg.URI, Bytes: msg.Bytes}
	case wire.TypeCursor:
		return core.RemoteCursorMove{Peer: peerID, URI: msg.URI, Line: msg.Line, Column: msg.Column}
	case wire.TypeRequestFullSync:
		return core.PeerRequestedSync{}
	case wire.TypeFullSyncResponse:
		return core.RemoteFullSync{Files: msg.Files}
	default:
		logging.L.Warn("network: unknown inbound message type, dropping", zap.String("type", string(msg.Type)))
		return nil
	}
}

func translateOutbound(cmd core.NetworkCommand) wire.Message {
	switch c := cmd.(type) {
	case core.BroadcastPatch:
		return wire.NewPatch(c.URI, c.Bytes)
	case core.SendFullSyncResponse:
		return wire.NewFullSyncResponse(c.Files)
	case core.BroadcastCursor:
		return wire.NewCursor(c.URI, c.Line, c.Column)
	default:
		return wire.Message{}
	}
}
