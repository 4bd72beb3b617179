// Package server hosts the optional local admin surface: a Fiber application
// that lists configured disks, reads and writes string entries, purges disk
// directories and exposes prometheus metrics. Bootstrap turns a loaded config
// into a cache engine plus a DiskRegistry that both the admin surface and the
// one-shot CLI operations reuse, so keep exports narrow and accept explicit
// dependencies.
package server
