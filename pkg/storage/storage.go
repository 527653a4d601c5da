// Package storage 外部对象存储协作方的最小接口；生产替换为云存储实现。
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store 保存一个媒体对象，返回可访问的 URL
type Store interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

// LocalStore 本地磁盘实现
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(filename)
	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return s.baseURL + "/" + folder + "/" + name, nil
}
