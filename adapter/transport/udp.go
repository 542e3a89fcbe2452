// Package transport delivers raw feed bytes, one chunk at a time, to a
// feed callback.
package transport

import (
	"net"
	"strconv"

	"github.com/pkg/errors"

	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/logger"
)

// ChunkHandler consumes one chunk. The buffer is reused by the transport
// and only valid for the duration of the call.
type ChunkHandler func(chunk []byte) error

// maxDatagramSize bounds a single UDP payload.
const maxDatagramSize = 65535

// UDP receives the feed as datagrams. Each datagram is delivered exactly
// once, in arrival order, from a single goroutine.
type UDP struct {
	cfg  *entity.NetworkConfig
	log  *logger.Logger
	conn *net.UDPConn
}

func NewUDP(cfg *entity.NetworkConfig, log *logger.Logger) (*UDP, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve listen address")
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create UDP listener")
	}

	if cfg.ReadBufferSize > 0 {
		if err := conn.SetReadBuffer(cfg.ReadBufferSize); err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(err, "failed to set socket read buffer")
		}
	}

	return &UDP{
		cfg:  cfg,
		log:  log,
		conn: conn,
	}, nil
}

// Listen starts the receive loop. A handler error is logged and the loop
// moves to the next datagram; the loop ends when the connection is closed.
func (u *UDP) Listen(handler ChunkHandler) {
	go func() {
		buf := make([]byte, maxDatagramSize)

		for {
			n, _, err := u.conn.ReadFromUDP(buf)
			if err != nil {
				if entity.IsErrorInterruptingNetwork(err) {
					return
				}
				u.log.Error().Err(err).Msg("failed to read from socket")
				continue
			}
			if n == 0 {
				continue
			}

			if err := handler(buf[:n]); err != nil {
				u.log.Error().Err(err).Msg("failed to handle datagram")
			}
		}
	}()
}

// Addr is the bound local address.
func (u *UDP) Addr() net.Addr {
	return u.conn.LocalAddr()
}

func (u *UDP) Shutdown() error {
	return u.conn.Close()
}

// UDPSender is the replay side: it pushes chunks as datagrams to a fixed
// destination.
type UDPSender struct {
	log  *logger.Logger
	conn *net.UDPConn
}

func NewUDPSender(cfg *entity.NetworkConfig, log *logger.Logger) (*UDPSender, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve destination address")
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect")
	}

	return &UDPSender{
		log:  log,
		conn: conn,
	}, nil
}

func (s *UDPSender) Send(chunk []byte) error {
	var sent, n int
	var err error

	for sent < len(chunk) {
		n, err = s.conn.Write(chunk[sent:])
		if err != nil {
			return errors.Wrap(err, "failed to write to socket")
		}
		sent += n
	}

	return nil
}

func (s *UDPSender) Close() error {
	return s.conn.Close()
}
