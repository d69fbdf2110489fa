package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// SettingsFileName 是工作目录下可选的本地配置文件名。
const SettingsFileName = "local.settings.json"

// keyDelimiter 用于拼接嵌套 JSON 对象/数组的层级 key，如 Values:Port。
const keyDelimiter = ":"

// Settings 是启动时合并出的只读 key-value 配置。
// key 大小写不敏感，Keys 返回最后一次写入时的原始大小写。
type Settings struct {
	values map[string]string
	names  map[string]string
	// File 为实际加载的 local.settings.json 路径；文件不存在时为空。
	File string
}

// envDelimiter 是环境变量 key 中代替 ":" 的层级分隔符，如 Values__Port。
const envDelimiter = "__"

// LoadSettings 合并环境变量与 dir 下可选的 local.settings.json。
// 环境变量先写入（key 中的 "__" 视为 ":"），文件后写入，key 冲突时文件中的值生效。
// 文件不存在不是错误；文件无法读取、JSON 非法或文件内出现仅大小写不同的重复 key 时返回错误。
func LoadSettings(dir string, environ []string) (Settings, error) {
	s := Settings{
		values: make(map[string]string),
		names:  make(map[string]string),
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		s.set(strings.ReplaceAll(k, envDelimiter, keyDelimiter), v)
	}

	path := filepath.Join(dir, SettingsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("读取 %s 失败: %w", path, err)
	}

	// 保留数字的原始文本，避免大整数经 float64 丢失精度。
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return Settings{}, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Settings{}, fmt.Errorf("解析 %s 失败: 顶层 JSON 之后存在多余内容", path)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return Settings{}, fmt.Errorf("解析 %s 失败: 顶层必须是 JSON 对象", path)
	}
	if err := flatten(&s, make(map[string]bool), "", obj); err != nil {
		return Settings{}, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	s.File = path
	return s, nil
}

// flatten 将嵌套对象按 "父:子" 展开，数组按下标展开。
// seen 记录文件内已写入的 key（小写），大小写不敏感地重复时返回错误。
func flatten(s *Settings, seen map[string]bool, prefix string, v any) error {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flatten(s, seen, joinKey(prefix, k), t[k]); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range t {
			if err := flatten(s, seen, joinKey(prefix, strconv.Itoa(i)), child); err != nil {
				return err
			}
		}
	default:
		if prefix == "" {
			return nil
		}
		lk := strings.ToLower(prefix)
		if seen[lk] {
			return fmt.Errorf("重复的 key %q", prefix)
		}
		seen[lk] = true
		s.set(prefix, cast.ToString(t))
	}
	return nil
}

func joinKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + keyDelimiter + k
}

func (s *Settings) set(k, v string) {
	lk := strings.ToLower(k)
	s.values[lk] = v
	s.names[lk] = k
}

// Get 按 key（大小写不敏感）读取配置值。
func (s Settings) Get(key string) (string, bool) {
	v, ok := s.values[strings.ToLower(key)]
	return v, ok
}

// Keys 返回按字母序排列的全部 key。
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.names))
	for _, k := range s.names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len 返回配置项数量。
func (s Settings) Len() int { return len(s.values) }

// Summary 返回用于日志的配置摘要，不包含任何配置值。
func (s Settings) Summary() string {
	return fmt.Sprintf("settings_file=%s entries=%d", emptyAsDefault(s.File, "(none)"), s.Len())
}
