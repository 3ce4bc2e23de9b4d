// Package routedb persists training routes as numbered snapshot blobs.
//
// A route named "garden" with three snapshots in PNG looks like
//
//	garden/image_00000.png
//	garden/image_00001.png
//	garden/image_00002.png
//
// in any blobstore.BlobStore. Load and Walk read indices in order and
// stop at the first missing one. Recorder appends one snapshot per call,
// so a navigator can save what it trains on as it goes.
//
// Besides PNG, snapshots can be stored as raw pixels compressed with LZ4
// or ZSTD. A raw blob is a 16-byte header
//
//	[magic "ANR1"][width uint32][height uint32][CRC32C of pixels uint32]
//
// followed by one block from internal/compress. All integers are little
// endian.
package routedb
