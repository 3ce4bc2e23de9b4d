// Package blobstore abstracts where route databases live.
//
// A BlobStore holds named, immutable blobs. Route snapshots are written
// once and read back in index order, so the interface is small:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, mmap reads and atomic writes
//   - MemoryStore: in-process map, for tests and ephemeral routes
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Implementations must be safe for concurrent use.
package blobstore
