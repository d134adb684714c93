// Package storage 保存联系人照片
// 业务层只依赖 PhotoStorage 接口，默认实现写入本地静态目录
package storage

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"contact_server/pkg/errorx"

	"github.com/google/uuid"
)

// PhotoStorage 照片存储接口
type PhotoStorage interface {
	// Save 保存上传的照片，返回对外访问路径，如 /uploads/<name>.png
	Save(fileHeader *multipart.FileHeader) (string, error)
	// Remove 删除 Save 返回的路径对应的文件，文件不存在不视为错误
	Remove(photoPath string) error
}

// 允许的图片类型及其扩展名，以文件头嗅探结果为准
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalPhotoStorage 本地磁盘实现，目录通过 gin Static 对外暴露
type LocalPhotoStorage struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

// NewLocalPhotoStorage 创建本地照片存储，目录不存在时自动创建
func NewLocalPhotoStorage(dir, urlPrefix string, maxSize int64) (*LocalPhotoStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeStorageError, "create photo dir %s", dir)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &LocalPhotoStorage{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxSize:   maxSize,
	}, nil
}

// Save 校验大小与 Magic Bytes 后写入磁盘
func (s *LocalPhotoStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && fileHeader.Size > s.maxSize {
		return "", errorx.Newf(errorx.CodeInvalidParam, "photo exceeds %d bytes", s.maxSize)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeStorageError, "open uploaded photo")
	}
	defer src.Close()

	// 读取前 512 字节进行 MIME 类型的 Magic Bytes 校验
	buffer := make([]byte, 512)
	n, err := io.ReadFull(src, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errorx.Wrap(err, errorx.CodeStorageError, "read uploaded photo")
	}
	contentType := http.DetectContentType(buffer[:n])
	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", errorx.Newf(errorx.CodeInvalidParam, "photo must be an image, got %s", contentType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", errorx.Wrap(err, errorx.CodeStorageError, "rewind uploaded photo")
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", errorx.Wrapf(err, errorx.CodeStorageError, "create photo %s", dst)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return "", errorx.Wrapf(err, errorx.CodeStorageError, "write photo %s", dst)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", errorx.Wrapf(err, errorx.CodeStorageError, "close photo %s", dst)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Remove 只处理本存储签发的路径，其他路径直接忽略
func (s *LocalPhotoStorage) Remove(photoPath string) error {
	name := strings.TrimPrefix(photoPath, s.urlPrefix+"/")
	if name == photoPath || name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return errorx.Wrapf(err, errorx.CodeStorageError, "remove photo %s", name)
	}
	return nil
}

var _ PhotoStorage = (*LocalPhotoStorage)(nil)
