// Package hash provides the CRC32-Castagnoli checksum used for snapshot
// integrity checks and S3 upload checksums.
//
//	sum := hash.CRC32C(pixels)
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when available.
package hash
