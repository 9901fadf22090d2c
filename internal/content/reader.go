// Package content 读取文件型 MDX 攻略（YAML front matter + 正文）
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const ext = ".mdx"

// Guide 一篇 MDX 攻略
type Guide struct {
	Slug        string `yaml:"-" json:"slug"`
	Title       string `yaml:"title" json:"title"`
	Anime       string `yaml:"anime" json:"anime"`
	Location    string `yaml:"location" json:"location"`
	Description string `yaml:"description" json:"description"`
	Date        string `yaml:"date" json:"date"`
	Body        string `yaml:"-" json:"body,omitempty"`
}

// Reader 启动时把目录读入内存，Reload 原子替换
type Reader struct {
	dir string
	log zerolog.Logger

	mu     sync.RWMutex
	guides map[string]Guide
	order  []string
}

func NewReader(dir string, log zerolog.Logger) (*Reader, error) {
	r := &Reader{dir: dir, log: log, guides: map[string]Guide{}}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload 重新扫描目录；目录不存在视为没有攻略，解析失败的文件记日志后跳过
func (r *Reader) Reload() error {
	guides := map[string]Guide{}
	skipped := 0

	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		g, err := parseFile(path)
		if err != nil {
			// 单个文件损坏不影响其他攻略
			r.log.Warn().Err(err).Str("file", path).Msg("跳过无法解析的攻略")
			skipped++
			return nil
		}
		guides[g.Slug] = g
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		r.log.Warn().Str("dir", r.dir).Msg("攻略目录不存在")
		err = nil
	}
	if err != nil {
		return fmt.Errorf("读取攻略目录失败: %w", err)
	}

	order := make([]string, 0, len(guides))
	for slug := range guides {
		order = append(order, slug)
	}
	// 日期新的在前，同日期按 slug
	sort.Slice(order, func(i, j int) bool {
		a, b := guides[order[i]], guides[order[j]]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.Slug < b.Slug
	})

	r.mu.Lock()
	r.guides, r.order = guides, order
	r.mu.Unlock()

	r.log.Info().Int("count", len(guides)).Int("skipped", skipped).Str("dir", r.dir).Msg("攻略已加载")
	return nil
}

// List 返回不含正文的攻略列表
func (r *Reader) List() []Guide {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Guide, 0, len(r.order))
	for _, slug := range r.order {
		g := r.guides[slug]
		g.Body = ""
		out = append(out, g)
	}
	return out
}

func (r *Reader) Get(slug string) (Guide, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.guides[slug]
	return g, ok
}

func (r *Reader) Exists(slug string) bool {
	_, ok := r.Get(slug)
	return ok
}

func parseFile(path string) (Guide, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Guide{}, err
	}
	g, err := Parse(raw)
	if err != nil {
		return Guide{}, fmt.Errorf("%s: %w", path, err)
	}
	g.Slug = strings.TrimSuffix(filepath.Base(path), ext)
	if g.Title == "" {
		g.Title = g.Slug
	}
	return g, nil
}

// Parse 拆分 front matter 与正文
func Parse(raw []byte) (Guide, error) {
	var g Guide
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	rest, ok := bytes.CutPrefix(raw, []byte("---\n"))
	if !ok {
		g.Body = string(raw)
		return g, nil
	}

	var front, body []byte
	if bytes.HasPrefix(rest, []byte("---")) {
		// 空 front matter
		body = rest[len("---"):]
	} else {
		var found bool
		front, body, found = bytes.Cut(rest, []byte("\n---"))
		if !found {
			return g, errors.New("front matter 未闭合")
		}
	}
	if err := yaml.Unmarshal(front, &g); err != nil {
		return g, fmt.Errorf("解析 front matter 失败: %w", err)
	}
	// 丢弃结束分隔行的剩余部分
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		g.Body = string(body[i+1:])
	}
	return g, nil
}
