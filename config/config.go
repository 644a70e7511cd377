// Package config 命令行工具的 TOML 配置
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/core"
)

type Config struct {
	Load LoadConfig `toml:"load"`
	Save SaveConfig `toml:"save"`
	Log  LogConfig  `toml:"log"`
}

type LoadConfig struct {
	// FilterOutside 丢弃段外的标签
	FilterOutside bool `toml:"filter_outside"`
}

type SaveConfig struct {
	// Version 为空时沿用文档的 $ACADVER
	Version string `toml:"version"`
	// Lock 写入时持有 <file>.lock
	Lock bool `toml:"lock"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() *Config {
	return &Config{
		Save: SaveConfig{Lock: true},
		Log:  LogConfig{Level: "info"},
	}
}

// Load 读取配置文件，文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err = Parse(string(data), cfg); err != nil {
		return nil, core.WrapError(core.ErrCodeValue, err, "config %s", path)
	}
	return cfg, nil
}

// Parse 把 TOML 文本合并到 cfg 上，未出现的键保持原值
func Parse(text string, cfg *Config) error {
	meta, err := toml.Decode(text, cfg)
	if err != nil {
		return err
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return core.NewError(core.ErrCodeValue, "unknown config key %s", keys[0].String())
	}
	if _, err = cfg.Level(); err != nil {
		return err
	}
	if _, err = cfg.Version(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(strings.ToLower(c.Log.Level))
}

// Version 保存时使用的版本，空串表示沿用文档的版本
func (c *Config) Version() (core.Version, error) {
	if c.Save.Version == "" {
		return "", nil
	}
	return core.ParseVersion(c.Save.Version)
}
