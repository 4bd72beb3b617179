package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const tempFilePrefix = ".cache-"

// writeFileAtomic 通过临时文件 + rename 写入，失败时清理临时文件，避免读到半截内容。
func writeFileAtomic(fsys afero.Fs, filePath string, data []byte) error {
	tempFile, err := afero.TempFile(fsys, filepath.Dir(filePath), tempFilePrefix+"*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		fsys.Remove(tempName)
		return err
	}

	if err := fsys.Rename(tempName, filePath); err != nil {
		fsys.Remove(tempName)
		return err
	}
	return nil
}

// regularFileExists 仅对普通文件返回 true；目录视为不存在。
func regularFileExists(fsys afero.Fs, filePath string) (bool, error) {
	info, err := fsys.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func isTempFile(name string) bool {
	return strings.HasPrefix(name, tempFilePrefix)
}

// directorySize 汇总目录下所有普通文件的大小，目录不存在时返回 0。
func directorySize(fsys afero.Fs, dir string) (int64, error) {
	var total int64
	err := afero.Walk(fsys, dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
