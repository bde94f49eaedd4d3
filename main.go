package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"

	"sitepreview/internal/app"
	"sitepreview/internal/config"
	"sitepreview/internal/console"
)

// terminationSignals は停止要求として扱うシグナル
// Windows では Ctrl-C が SIGINT としてエミュレートされる
var terminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

// launcher はプロセスの入口での処理をまとめる
type launcher struct {
	console *console.Console
	stdin   io.Reader
	load    func() (*config.Config, error)

	// setup は起動前にAppを調整する (nil可)
	setup func(*app.App)
}

func main() {
	gin.SetMode(gin.ReleaseMode)

	l := &launcher{
		console: console.New(color.Output),
		stdin:   os.Stdin,
		load:    config.Load,
	}
	l.launch()

	os.Exit(0)
}

// launch はサーバーを実行し、どの経路で終了しても確認の入力を待つ
func (l *launcher) launch() {
	l.run()
	l.console.Pause(l.stdin)
}

// run は設定を読み込んでサーバーを起動し、停止するまでブロックする
func (l *launcher) run() {
	defer func() {
		if r := recover(); r != nil {
			l.console.Unexpected(fmt.Errorf("%v", r))
		}
	}()

	// 設定を読み込む
	cfg, err := l.load()
	if err != nil {
		l.console.StartupFailed(err)
		return
	}

	// シグナル受信でキャンセルされるコンテキスト
	// 確認待ちに入る前に解除するので、その間の Ctrl-C は通常どおりプロセスを終了させる
	ctx, stop := signal.NotifyContext(context.Background(), terminationSignals...)
	defer stop()

	a := app.New(cfg, l.console)
	if l.setup != nil {
		l.setup(a)
	}

	// エラーの表示は app 側で行う
	_ = a.Run(ctx)
}
