// Package mmap maps route files read-only into memory.
//
//	m, err := mmap.Open("route/image_00000.zst")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// On Unix the file is mapped with mmap(2) and Advise forwards to
// madvise(2). Other platforms read the whole file into the heap, and
// Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent; slices
// returned by Bytes must not be used after it.
package mmap
