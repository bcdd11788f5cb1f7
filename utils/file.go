package utils

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// 在父目录下创建唯一临时子目录
func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

// 原子写文件：先写入同目录唯一临时文件，再重命名覆盖
func WriteFileAtomic(path string, data []byte) (err error) {
	tmp := path + "." + uuid.NewString()
	if err = os.WriteFile(tmp, data, os.ModePerm); err != nil {
		return
	}
	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
	}
	return
}
