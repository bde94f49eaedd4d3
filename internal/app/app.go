// Package app はプレビューサーバーの起動から停止までの流れをまとめます。
package app

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/pkg/browser"

	"sitepreview/internal/config"
	"sitepreview/internal/console"
	"sitepreview/internal/server"
)

// App はサーバーの起動、結果の表示、ブラウザの起動を行う
type App struct {
	config  *config.Config
	console *console.Console

	// OpenBrowser はルートURLをブラウザで開く
	// 失敗しても起動は継続し、何も表示しない
	OpenBrowser func(url string) error

	// Listener が設定されている場合はポートをバインドせずにこのリスナーで受け付ける
	Listener net.Listener
}

// New は新しいAppを作成する
func New(cfg *config.Config, con *console.Console) *App {
	return &App{
		config:      cfg,
		console:     con,
		OpenBrowser: openBrowser,
	}
}

// Run はサーバーを起動し、ctxがキャンセルされるまで配信する
// エラーの種類ごとにメッセージを表示したうえで、最終的なエラーを返す
// ctxのキャンセルによる停止はエラーとして扱わない
func (a *App) Run(ctx context.Context) error {
	a.console.Banner(a.config)

	srv := server.New(a.config)
	if err := a.bind(srv); err != nil {
		a.reportListenError(err)
		return err
	}

	a.console.Started(boundPort(srv, a.config.Server.Port), srv.URL())

	if a.config.Browser.Open && a.OpenBrowser != nil {
		go func(url string) {
			_ = a.OpenBrowser(url)
		}(srv.URL())
	}

	serveCtx, release := a.announceShutdown(ctx)
	defer release()

	if err := srv.Serve(serveCtx); err != nil {
		a.console.Unexpected(err)
		return err
	}

	a.console.Stopped()
	return nil
}

// bind はポートをバインドする (Listener が設定されていればそれを使う)
func (a *App) bind(srv *server.Server) error {
	if a.Listener != nil {
		return srv.Attach(a.Listener)
	}
	return srv.Listen()
}

// announceShutdown は ctx のキャンセル時にシャットダウン開始を表示してからキャンセルされるコンテキストを返す
// 表示はサーバーの停止処理より前に行われる
// 返り値の release は配信終了後に呼ぶ
func (a *App) announceShutdown(ctx context.Context) (context.Context, func()) {
	serveCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer cancel()
		select {
		case <-ctx.Done():
			a.console.ShuttingDown()
		case <-done:
		}
	}()

	return serveCtx, func() { close(done) }
}

// reportListenError はバインド失敗を種類ごとに表示する
func (a *App) reportListenError(err error) {
	var portErr *server.PortInUseError
	var startupErr *server.StartupError

	switch {
	case errors.As(err, &portErr):
		a.console.PortInUse(portErr.Port)
	case errors.As(err, &startupErr):
		a.console.StartupFailed(startupErr.Err)
	default:
		a.console.Unexpected(err)
	}
}

// boundPort は実際にバインドしたポート番号を返す
func boundPort(srv *server.Server, fallback int) int {
	if addr, ok := srv.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return fallback
}

// openBrowser は既定のブラウザでURLを開く
// ブラウザ側の出力はコンソールに混ぜない
func openBrowser(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(url)
}
