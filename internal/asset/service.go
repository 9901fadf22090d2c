// Package asset 文章配图上传与读取
package asset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/database"
	"seichi/cms/internal/model/asset"
	"seichi/cms/internal/permission"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// Options 上传限制
type Options struct {
	MaxSize      int64
	AllowedTypes []string
}

type AssetService struct {
	repo        *AssetRepository
	articleRepo *articlepkg.ArticleRepository
	storage     Storage
	opts        Options
	log         zerolog.Logger
}

func NewAssetService(repo *AssetRepository, articleRepo *articlepkg.ArticleRepository, storage Storage, opts Options, log zerolog.Logger) *AssetService {
	return &AssetService{
		repo:        repo,
		articleRepo: articleRepo,
		storage:     storage,
		opts:        opts,
		log:         log.With().Str("component", "asset").Logger(),
	}
}

// UploadInput 一次上传
type UploadInput struct {
	PostID   uint
	FileName string
	Content  io.Reader
}

// Upload 保存资源；类型按内容识别，同一文件只落盘一次
func (s *AssetService) Upload(ctx context.Context, sess *session.Session, in UploadInput) (*asset.Asset, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}
	if _, err := s.articleRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, s.opts.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	if len(data) == 0 {
		return nil, response.New(response.InvalidParameter, "文件为空")
	}
	if int64(len(data)) > s.opts.MaxSize {
		return nil, response.New(response.InvalidParameter,
			fmt.Sprintf("文件大小超过限制（%d 字节）", s.opts.MaxSize))
	}

	mtype := mimetype.Detect(data)
	if !s.allowed(mtype) {
		return nil, response.New(response.InvalidParameter, "不支持的文件类型: "+mtype.String())
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if existing, err := s.repo.FindByPostAndHash(ctx, in.PostID, hash); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	storagePath, err := s.store(ctx, hash, mtype.Extension(), data)
	if err != nil {
		return nil, err
	}

	a := &asset.Asset{
		PostID:      in.PostID,
		FileName:    sanitizeFileName(in.FileName),
		FileHash:    hash,
		StoragePath: storagePath,
		MimeType:    mtype.String(),
		Category:    inferCategory(mtype.String()),
		Size:        int64(len(data)),
		UploadedBy:  sess.UserID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		// 并发上传同一文件，返回先写入的那条
		if database.IsDuplicateKey(err) {
			if existing, ferr := s.repo.FindByPostAndHash(ctx, in.PostID, hash); ferr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	s.log.Info().
		Uint("asset_id", a.ID).
		Uint("post_id", a.PostID).
		Uint("user_id", sess.UserID).
		Str("mime_type", a.MimeType).
		Int64("size", a.Size).
		Msg("资源上传成功")
	return a, nil
}

// store 内容已存在时直接复用
func (s *AssetService) store(ctx context.Context, hash, ext string, data []byte) (string, error) {
	if existing, err := s.repo.FindByHash(ctx, hash); err != nil {
		return "", err
	} else if existing != nil {
		ok, err := s.storage.Exists(ctx, existing.StoragePath)
		if err != nil {
			return "", err
		}
		if ok {
			return existing.StoragePath, nil
		}
	}

	name := path.Join(hash[:2], hash+ext)
	if err := s.storage.Save(ctx, name, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("保存文件失败: %w", err)
	}
	return name, nil
}

func (s *AssetService) allowed(mtype *mimetype.MIME) bool {
	if len(s.opts.AllowedTypes) == 0 {
		return true
	}
	for _, t := range s.opts.AllowedTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}

// Open 读取资源，调用方负责关闭
func (s *AssetService) Open(ctx context.Context, id uint) (*asset.Asset, io.ReadCloser, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(ctx, a.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("打开资源文件失败: %w", err)
	}
	return a, rc, nil
}

func (s *AssetService) ListByPost(ctx context.Context, postID uint) ([]asset.Asset, error) {
	return s.repo.ListByPost(ctx, postID)
}

func inferCategory(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	case mimeType == "application/pdf", strings.HasPrefix(mimeType, "text/"):
		return "document"
	default:
		return "other"
	}
}

const maxFileNameBytes = 255

// sanitizeFileName 只保留文件名部分
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "unnamed"
	}
	// 保留末尾（扩展名），起点对齐到字符边界
	if len(name) > maxFileNameBytes {
		start := len(name) - maxFileNameBytes
		for start < len(name) && !utf8.RuneStart(name[start]) {
			start++
		}
		name = name[start:]
	}
	return name
}
