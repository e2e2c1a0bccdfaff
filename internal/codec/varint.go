// Portions of ReadUvarint below are adapted from Go's encoding/binary package.
//
// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var errVarintOverflow = errors.New("codec: varuint overflows 64 bits")

// ReadUvarint reads a LEB128-encoded unsigned integer from r one byte at a
// time, using buffer as scratch space so it never allocates. buffer must have
// length at least binary.MaxVarintLen64. It returns the decoded value and the
// number of bytes consumed from r.
//
// This exists because binary.ReadUvarint requires an io.ByteReader; wrapping
// every segment file in a bufio.Reader just to get that interface would cost
// an allocation per open, so this reads directly against a plain io.Reader.
func ReadUvarint(r io.Reader, buffer []byte) (uint64, int, error) {
	if len(buffer) < binary.MaxVarintLen64 {
		return 0, 0, fmt.Errorf("codec: scratch buffer too small for varuint")
	}

	var x uint64
	var s uint
	for i := 0; i < binary.MaxVarintLen64; i++ {
		if _, err := io.ReadFull(r, buffer[i:i+1]); err != nil {
			if i > 0 && err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, i, err
		}
		b := buffer[i]
		if b < 0x80 {
			if i == binary.MaxVarintLen64-1 && b > 1 {
				return 0, i + 1, errVarintOverflow
			}
			return x | uint64(b)<<s, i + 1, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, binary.MaxVarintLen64, errVarintOverflow
}

// WriteUvarint LEB128-encodes v into buffer and writes the result to w,
// returning the number of bytes written. buffer must have length at least
// binary.MaxVarintLen64.
func WriteUvarint(w io.Writer, buffer []byte, v uint64) (int, error) {
	n := binary.PutUvarint(buffer, v)
	if _, err := w.Write(buffer[:n]); err != nil {
		return 0, fmt.Errorf("codec: writing varuint: %w", err)
	}
	return n, nil
}

// readUvarintSlice decodes a LEB128 varuint directly from the front of b,
// returning the value and the number of bytes it occupied.
func readUvarintSlice(b []byte) (uint64, int, error) {
	var x uint64
	var s uint
	for i := 0; i < len(b) && i < binary.MaxVarintLen64; i++ {
		c := b[i]
		if c < 0x80 {
			if i == binary.MaxVarintLen64-1 && c > 1 {
				return 0, 0, errVarintOverflow
			}
			return x | uint64(c)<<s, i + 1, nil
		}
		x |= uint64(c&0x7f) << s
		s += 7
	}
	return 0, 0, io.ErrUnexpectedEOF
}
