// Package codec implements the on-disk frame for a single write-ahead log
// record: encoding a Record into its length-prefixed, checksummed byte
// representation and decoding it back out of a stream.
//
// The frame is:
//
//	length:varuint | flags:u8 | ttl_ms:u64-LE? | klen:varuint | vlen:varuint | key | value | crc32c:u32-LE
//
// length covers everything between itself and the trailing checksum. The
// checksum is CRC-32C (Castagnoli) over that same span.
package codec
