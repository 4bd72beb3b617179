package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/any-hub/diskcache/internal/server"
)

type operation func(route *server.DiskRoute, opts cliOptions) error

var errEntryNotFound = errors.New("entry not found")

// operations 列出 -op 支持的一次性命令。
var operations = map[string]operation{
	"put":    opPut,
	"get":    opGet,
	"remove": opRemove,
	"purge":  opPurge,
	"size":   opSize,
	"keys":   opKeys,
}

// runOp 在指定 Disk 上执行一次性命令并返回退出码。
func runOp(rt *server.Runtime, opts cliOptions) int {
	op, ok := operations[opts.op]
	if !ok {
		fmt.Fprintf(stdErr, "未知操作: %s\n", opts.op)
		return 2
	}
	route, ok := rt.Registry.Lookup(opts.disk)
	if !ok {
		fmt.Fprintf(stdErr, "未找到 Disk: %s\n", opts.disk)
		return 1
	}
	if err := op(route, opts); err != nil {
		fmt.Fprintf(stdErr, "%s 失败: %v\n", opts.op, err)
		return 1
	}
	return 0
}

func requireKey(opts cliOptions) error {
	if opts.key == "" {
		return errors.New("缺少 -key")
	}
	return nil
}

func opPut(route *server.DiskRoute, opts cliOptions) error {
	if err := requireKey(opts); err != nil {
		return err
	}
	if opts.value == "" {
		return errors.New("缺少 -value")
	}
	ok, err := route.Strings.Put(opts.key, opts.value)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("写入失败，详见日志")
	}
	return nil
}

func opGet(route *server.DiskRoute, opts cliOptions) error {
	if err := requireKey(opts); err != nil {
		return err
	}
	value, ok, err := route.Strings.Get(opts.key)
	if err != nil {
		return err
	}
	if !ok {
		return errEntryNotFound
	}
	fmt.Fprintln(stdOut, value)
	return nil
}

func opRemove(route *server.DiskRoute, opts cliOptions) error {
	if err := requireKey(opts); err != nil {
		return err
	}
	ok, err := route.Strings.Remove(opts.key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("删除失败，详见日志")
	}
	return nil
}

func opPurge(route *server.DiskRoute, _ cliOptions) error {
	return route.Purge()
}

func opSize(route *server.DiskRoute, _ cliOptions) error {
	size, err := route.Disk.Size()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdOut, "%s\t%d\t%s\n", route.Config.Name, size, humanize.Bytes(uint64(size)))
	return nil
}

func opKeys(route *server.DiskRoute, _ cliOptions) error {
	keys, err := route.Disk.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Fprintln(stdOut, key)
	}
	return nil
}
