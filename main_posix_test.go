//go:build !windows

package main

import (
	"strings"
	"syscall"
	"testing"
	"time"

	"sitepreview/internal/app"
	"sitepreview/internal/config"
	"sitepreview/internal/console"
)

// TestLaunchInterrupt は SIGINT の受信で順序どおりに停止し、確認待ちになることをテストする
func TestLaunchInterrupt(t *testing.T) {
	var out syncBuffer
	ready := make(chan struct{}, 1)

	load := testConfigLoader(t)
	l := &launcher{
		console: console.New(&out),
		stdin:   strings.NewReader("\n"),
		load: func() (*config.Config, error) {
			cfg, err := load()
			if err != nil {
				return nil, err
			}
			cfg.Browser.Open = true
			return cfg, nil
		},
		setup: func(a *app.App) {
			// バインド後に呼ばれるブラウザ起動を準備完了の合図に使う
			a.OpenBrowser = func(string) error {
				ready <- struct{}{}
				return nil
			}
		},
	}

	done := make(chan struct{})
	go func() {
		l.launch()
		close(done)
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("サーバーが起動しませんでした")
	}

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("シグナルの送信に失敗しました: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("シグナル受信後に停止しませんでした")
	}

	output := out.String()
	shutting := strings.Index(output, "Server shutting down...")
	stopped := strings.Index(output, "Server stopped by user")
	if shutting < 0 || stopped < 0 {
		t.Fatalf("停止メッセージが表示されていません:\n%s", output)
	}
	if shutting > stopped {
		t.Errorf("シャットダウン開始の表示が停止の後になっています:\n%s", output)
	}
	if strings.Contains(output, "Unexpected error") {
		t.Errorf("割り込みがエラーとして表示されました:\n%s", output)
	}
	assertPausedLast(t, output)
}
