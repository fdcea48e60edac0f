// Package format provides binary encoding/decoding for the send-stream
// wire format.
//
// This package implements:
//   - Stream header: magic + version validation
//   - Command format: length-prefixed commands with CRC32C checksums
//   - Attribute format: TLV-encoded attributes with semantic decoding
//   - Checksum utilities: CRC32C (Castagnoli) computation and verification
package format

import "hash/crc32"

// CRC32C table using the reflected Castagnoli polynomial (0x82F63B78).
// The send stream uses CRC32C, not the IEEE CRC32 used by gzip/zlib.
// This is hardware-accelerated on modern Intel (SSE 4.2) and ARM processors.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// ChecksumSeed is the initial CRC register value for the canonical
// one-shot computation.
const ChecksumSeed uint32 = 0xFFFFFFFF

// Compute advances a raw (unfinalized) CRC32C register over data and
// returns the new register value. Callers composing a checksum from
// multiple slices seed the first call with ChecksumSeed and XOR the
// final register with 0xFFFFFFFF; Checksum does both for the
// single-slice case.
func Compute(seed uint32, data []byte) uint32 {
	// crc32.Update inverts the register on entry and exit, so
	// inverting around it yields the raw register update.
	return ^crc32.Update(^seed, crc32cTable, data)
}

// Checksum computes the canonical one-shot CRC32C over data, seeded
// with ChecksumSeed and finalized by XOR with 0xFFFFFFFF.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// VerifyChecksum verifies that the computed CRC matches the expected value.
func VerifyChecksum(data []byte, expected uint32) bool {
	return Checksum(data) == expected
}
