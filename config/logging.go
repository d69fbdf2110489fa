package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

var debugEnabled bool

// InitLogger 初始化标准库 log 的输出位置。
//
// 默认丢弃全部日志，避免污染命令的 stdout/stderr 输出；
// 配置了 LogFile（APPER_LOG_FILE）时以追加方式写入该文件。
// log.SetOutput 是进程级别的，apper 每次运行只执行一个命令，因此可以接受。
// 返回的 io.Closer 用于在进程退出前关闭日志文件。
func InitLogger(c *Config) (io.Closer, error) {
	debugEnabled = c.Debug()
	log.SetOutput(io.Discard)
	if c.LogFile == "" {
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err != nil {
		return io.NopCloser(nil), fmt.Errorf("创建日志目录失败: %w", err)
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.NopCloser(nil), fmt.Errorf("打开日志文件失败: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("[config] 使用日志文件: %s", c.LogFile)
	return f, nil
}

// Debugf 仅在 log_level=debug 时输出日志。
func Debugf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	log.Output(2, fmt.Sprintf(format, args...))
}
