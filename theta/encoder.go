/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package theta

import (
	"encoding/binary"
	"io"
)

// Encoder encodes a compact theta sketch to bytes.
type Encoder struct {
	w          io.Writer
	compressed bool
}

// NewEncoder creates a new encoder.
func NewEncoder(w io.Writer, compressed bool) Encoder {
	return Encoder{w: w, compressed: compressed}
}

// Encode encodes a compact theta sketch to bytes.
func (enc Encoder) Encode(sketch *CompactSketch) error {
	if enc.compressed {
		return enc.encodeWithCompression(sketch)
	}
	return enc.encodeWithoutCompression(sketch)
}

func (enc Encoder) encodeWithCompression(sketch *CompactSketch) error {
	if !sketch.isSuitableForCompression() {
		return enc.encodeWithoutCompression(sketch)
	}

	entryBits := sketch.computeEntryBits()
	numEntriesBytes := sketch.numEntriesBytes()
	size := sketch.compressedSerializedSizeBytes(entryBits, numEntriesBytes)

	cur := newByteCursor(size)
	if err := writeVersion4(sketch, cur, entryBits, numEntriesBytes, sketch.preambleLongs(true)); err != nil {
		return err
	}
	return enc.write(cur.bytes)
}

func (enc Encoder) encodeWithoutCompression(sketch *CompactSketch) error {
	cur := newByteCursor(sketch.SerializedSizeBytes(false))
	writeUncompressed(sketch, cur, sketch.preambleLongs(false))
	return enc.write(cur.bytes)
}

func (enc Encoder) write(bytes []byte) error {
	n, err := enc.w.Write(bytes)
	if err != nil {
		return err
	}
	if n != len(bytes) {
		return io.ErrShortWrite
	}
	return nil
}

// byteCursor assembles a preamble-plus-entries image into a single byte
// slice, advancing past each field as it's written instead of every call
// site tracking its own offset arithmetic.
type byteCursor struct {
	bytes  []byte
	offset int
}

func newByteCursor(size int) *byteCursor {
	return &byteCursor{bytes: make([]byte, size)}
}

func (c *byteCursor) putUint8(v uint8) {
	c.bytes[c.offset] = v
	c.offset++
}

func (c *byteCursor) skip(n int) {
	c.offset += n
}

func (c *byteCursor) putUint16(v uint16) {
	binary.LittleEndian.PutUint16(c.bytes[c.offset:c.offset+2], v)
	c.offset += 2
}

func (c *byteCursor) putUint32(v uint32) {
	binary.LittleEndian.PutUint32(c.bytes[c.offset:c.offset+4], v)
	c.offset += 4
}

func (c *byteCursor) putUint64(v uint64) {
	binary.LittleEndian.PutUint64(c.bytes[c.offset:c.offset+8], v)
	c.offset += 8
}

// remaining exposes the unwritten tail of the buffer, for the entry-packing
// routines that index into it on their own terms (bit-packed blocks don't
// fit the cursor's whole-field model).
func (c *byteCursor) remaining() []byte {
	return c.bytes[c.offset:]
}

func writeVersion4(sketch *CompactSketch, cur *byteCursor, entryBits, numEntriesBytes, preambleLongs uint8) error {
	cur.putUint8(preambleLongs)
	cur.putUint8(CompressedSerialVersion)
	cur.putUint8(CompactSketchType)
	cur.putUint8(entryBits)
	cur.putUint8(numEntriesBytes)

	flags := byte(0)
	flags |= 1 << serializationFlagIsCompact
	flags |= 1 << serializationFlagIsReadOnly
	flags |= 1 << serializationFlagIsOrdered
	cur.putUint8(flags)

	cur.putUint16(sketch.seedHash)

	if sketch.IsEstimationMode() {
		cur.putUint64(sketch.theta)
	}

	numEntries := uint32(len(sketch.entries))
	for i := uint8(0); i < numEntriesBytes; i++ {
		cur.putUint8(byte(numEntries >> (i << 3)))
	}

	return packDeltaEntries(sketch.entries, cur.remaining(), entryBits)
}

// packDeltaEntries writes successive-difference-encoded entries in blocks
// of 8 (the bit-packed fast path), falling back to one-at-a-time packing
// for the final partial block.
func packDeltaEntries(entries []uint64, bytes []byte, entryBits uint8) error {
	previous := uint64(0)
	deltas := make([]uint64, 8)
	offset := 0

	i := 0
	for i+7 < len(entries) {
		for j := 0; j < 8; j++ {
			deltas[j] = entries[i+j] - previous
			previous = entries[i+j]
		}
		if err := packBitsBlock8(deltas, bytes[offset:], entryBits); err != nil {
			return err
		}
		offset += int(entryBits)
		i += 8
	}

	bytesIdx, bitOffset := 0, uint8(0)
	for i < len(entries) {
		delta := entries[i] - previous
		previous = entries[i]
		bytesIdx, bitOffset = packBits(delta, entryBits, bytes[offset:], bytesIdx, bitOffset)
		i++
	}

	return nil
}

func writeUncompressed(sketch *CompactSketch, cur *byteCursor, preambleLongs uint8) {
	cur.putUint8(preambleLongs)
	cur.putUint8(UncompressedSerialVersion)
	cur.putUint8(CompactSketchType)
	cur.skip(2) // unused

	flags := byte(0)
	flags |= 1 << serializationFlagIsCompact
	flags |= 1 << serializationFlagIsReadOnly
	if sketch.IsEmpty() {
		flags |= 1 << serializationFlagIsEmpty
	}
	if sketch.IsOrdered() {
		flags |= 1 << serializationFlagIsOrdered
	}
	cur.putUint8(flags)

	seedHash, _ := sketch.SeedHash()
	cur.putUint16(seedHash)

	if preambleLongs > 1 {
		cur.putUint32(uint32(len(sketch.entries)))
		cur.skip(4) // unused
	}

	if sketch.IsEstimationMode() {
		cur.putUint64(sketch.theta)
	}

	for _, entry := range sketch.entries {
		cur.putUint64(entry)
	}
}
