// Package cache implements the file-per-entry disk cache engine. An Engine
// owns the single lock domain, the process-wide memory tier and the global
// converter slots; a Disk describes one cache directory and its encryption and
// memory settings; a Handler runs the put/get/remove protocol for one value
// category, delegating the on-disk byte format to a Codec. Entries live at
// <directory>/<prefix><md5(key)> and the directory listing is the only index.
package cache
