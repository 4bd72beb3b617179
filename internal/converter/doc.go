// Package converter holds the pluggable conversion layer used by the disk
// cache: ObjectConverter turns typed values into strings and back, and
// EncryptConverter obscures a persisted string before it touches storage.
// Concrete formats (json, yaml, msgpack) and ciphers (secretbox, tink) register
// themselves in a process-wide registry at init time so configuration can
// refer to them by key.
package converter
