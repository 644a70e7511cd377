package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.Debug("hidden")
	l.Info("shown", "table", "LAYER")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "table=LAYER") {
		t.Errorf("日志输出: %q", out)
	}

	buf.Reset()
	newProgress(l).done("saved")
	if !strings.Contains(buf.String(), "saved (") {
		t.Errorf("进度输出: %q", buf.String())
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	if loggerFromContext(ctx) != log.Default() {
		t.Error("没有日志时应该返回默认日志")
	}
	if configFromContext(ctx).Log.Level != "info" {
		t.Error("没有配置时应该返回默认配置")
	}

	l := log.New(&bytes.Buffer{})
	cfg := &config.Config{Log: config.LogConfig{Level: "warn"}}
	ctx = withConfig(withLogger(ctx, l), cfg)
	if loggerFromContext(ctx) != l || configFromContext(ctx) != cfg {
		t.Error("context 中的值不一致")
	}
}
