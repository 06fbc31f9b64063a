// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package serialport owns the serial transport: device auto-detection,
// opening the port and reading best-effort-ASCII lines from it. The
// ingest core never touches the device directly.
package serialport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
)

// Config selects the GPS serial device.
type Config struct {
	// Device is the serial device path. Empty means auto-detect.
	Device string
	Baud   uint
}

// Detect looks for a GPS receiver on the USB serial buses. CP210x
// USB-UART bridges (the usual u-blox carrier board) are preferred via
// /dev/serial/by-id; plain ttyUSB/ttyACM nodes are the fallback.
func Detect() (string, error) {
	if matches, err := filepath.Glob("/dev/serial/by-id/*"); err == nil {
		for _, m := range matches {
			name := strings.ToUpper(filepath.Base(m))
			if strings.Contains(name, "CP210") || strings.Contains(name, "SILICON_LABS") {
				return m, nil
			}
		}
	}
	for i := 0; i < 10; i++ {
		for _, pat := range []string{"/dev/ttyUSB%d", "/dev/ttyACM%d"} {
			p := fmt.Sprintf(pat, i)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("serialport: no GPS serial device found")
}

// Open opens the configured device, auto-detecting one when the path is
// empty.
func Open(cfg Config) (io.ReadWriteCloser, string, error) {
	device := strings.TrimSpace(cfg.Device)
	if device == "" {
		d, err := Detect()
		if err != nil {
			return nil, "", err
		}
		device = d
	}

	baud := cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	opts := serial.OpenOptions{
		PortName:              device,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, "", fmt.Errorf("serialport: open %s: %w", device, err)
	}
	return port, device, nil
}

// LineReader yields one terminator-stripped, ASCII-sanitized line per
// call. Read errors are transport errors: the stream is gone and the
// caller's read loop should stop.
type LineReader struct {
	s *bufio.Scanner
}

// NewLineReader wraps r. NMEA sentences are at most 82 characters, but
// the buffer allows headroom for chatty receivers.
func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 256), 4096)
	return &LineReader{s: s}
}

// ReadLine blocks until one full line arrives. It returns io.EOF when
// the stream ends and the underlying error on transport failure.
func (lr *LineReader) ReadLine() (string, error) {
	if !lr.s.Scan() {
		if err := lr.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return sanitizeASCII(strings.TrimSpace(lr.s.Text())), nil
}

// sanitizeASCII mirrors a best-effort ASCII decode: any byte outside
// the printable ASCII range is replaced rather than propagated.
func sanitizeASCII(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7e || (s[i] < 0x20 && s[i] != '\t') {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	b := []byte(s)
	for i := range b {
		if b[i] > 0x7e || (b[i] < 0x20 && b[i] != '\t') {
			b[i] = '?'
		}
	}
	return string(b)
}
