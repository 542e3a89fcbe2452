// Package capture opens recorded feed files by name suffix.
package capture

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/forest33/ittofeed/business/entity"
)

// IsPcap reports whether the file name selects the packet-capture reader,
// which preserves original datagram boundaries.
func IsPcap(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pcap")
}

// OpenStream opens a byte-stream capture: ".zst" and ".lz4" are
// decompressed on the fly, anything else is read raw. Chunking is the
// caller's choice.
func OpenStream(path string) (io.ReadCloser, error) {
	if IsPcap(path) {
		return nil, entity.ErrUnsupportedCapture
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open capture")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "failed to create zstd reader")
		}
		return &stream{
			Reader: dec,
			close: func() error {
				dec.Close()
				return f.Close()
			},
		}, nil
	case ".lz4":
		return &stream{
			Reader: lz4.NewReader(f),
			close:  f.Close,
		}, nil
	default:
		return f, nil
	}
}

type stream struct {
	io.Reader
	close func() error
}

func (s *stream) Close() error {
	return s.close()
}

// Pcap reads a packet capture and yields one chunk per UDP payload.
type Pcap struct {
	f      *os.File
	r      *pcapgo.Reader
	parser *gopacket.DecodingLayerParser
	udp    *layers.UDP

	eth     layers.Ethernet
	ip4     layers.IPv4
	decoded []gopacket.LayerType
}

func OpenPcap(path string) (*Pcap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open capture")
	}

	r, err := pcapgo.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "failed to read pcap header")
	}

	p := &Pcap{f: f, r: r}

	first := layers.LayerTypeEthernet
	if r.LinkType() == layers.LinkTypeRaw || r.LinkType() == layers.LinkTypeIPv4 {
		first = layers.LayerTypeIPv4
	}
	p.udp = &layers.UDP{}
	p.parser = gopacket.NewDecodingLayerParser(first, &p.eth, &p.ip4, p.udp)
	p.parser.IgnoreUnsupported = true
	p.decoded = make([]gopacket.LayerType, 0, 4)

	return p, nil
}

// Next returns the next UDP payload, skipping packets that carry none.
// io.EOF marks the end of the capture.
func (p *Pcap) Next() ([]byte, error) {
	for {
		data, _, err := p.r.ReadPacketData()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read packet")
		}

		_ = p.parser.DecodeLayers(data, &p.decoded)

		hasUDP := false
		for _, typ := range p.decoded {
			if typ == layers.LayerTypeUDP {
				hasUDP = true
				break
			}
		}
		payload := p.udp.LayerPayload()
		if !hasUDP || len(payload) == 0 {
			continue
		}

		return payload, nil
	}
}

func (p *Pcap) Close() error {
	return p.f.Close()
}
