// Package core holds the types shared by every antnav package: image
// resolution, heading estimates and the error taxonomy.
package core
