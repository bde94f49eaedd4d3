// Package console はプレビューサーバーの利用者向け出力を担当します。
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sitepreview/internal/config"
)

var (
	title   = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	hint    = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
)

// Console はコンソールへのメッセージ出力を行う
type Console struct {
	out io.Writer
}

// New は out に出力するConsoleを作成する
// 色付き出力には color.Output を渡す
func New(out io.Writer) *Console {
	return &Console{out: out}
}

// Banner は起動時の案内を表示する
func (c *Console) Banner(cfg *config.Config) {
	title.Fprintf(c.out, "🚀 Starting %s...\n", serverName(cfg.Site.Name))
	fmt.Fprintf(c.out, "📁 Serving directory: %s\n", cfg.Site.RootDir)
	fmt.Fprintf(c.out, "🌐 Server will run on: %s\n", cfg.URL())
	if url := cfg.NetworkURL(); url != "" {
		fmt.Fprintf(c.out, "📱 Network URL: %s\n", url)
	}

	if len(cfg.Site.Pages) > 0 {
		fmt.Fprintln(c.out, "\n📋 Available pages:")
		for _, p := range cfg.Site.Pages {
			fmt.Fprintf(c.out, "  • %s - %s\n", cfg.PageURL(p), p.Title)
		}
	}

	faint.Fprintln(c.out, "\n🔧 Press Ctrl+C to stop server")
	fmt.Fprintln(c.out)
}

// Started はバインド成功を表示する
func (c *Console) Started(port int, url string) {
	success.Fprintf(c.out, "✅ Server started successfully on port %d\n", port)
	fmt.Fprintf(c.out, "📌 Open your browser and visit: %s\n", url)
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
}

// PortInUse はポート使用中の診断と対処法を表示する
func (c *Console) PortInUse(port int) {
	failure.Fprintf(c.out, "❌ Port %d is already in use!\n", port)
	hint.Fprintln(c.out, "💡 Try these solutions:")
	fmt.Fprintf(c.out, "   1. Close other applications using port %d\n", port)
	fmt.Fprintln(c.out, "   2. Wait a moment and try again")
	fmt.Fprintln(c.out, "   3. Use a different port")
}

// StartupFailed は起動エラーを表示する
func (c *Console) StartupFailed(err error) {
	failure.Fprintf(c.out, "❌ Error starting server: %v\n", err)
}

// Unexpected は予期しないエラーを表示する
func (c *Console) Unexpected(err error) {
	failure.Fprintf(c.out, "❌ Unexpected error: %v\n", err)
}

// ShuttingDown はシャットダウン開始を表示する
func (c *Console) ShuttingDown() {
	fmt.Fprintln(c.out, "\n⏹️  Server shutting down...")
}

// Stopped は停止を表示する
func (c *Console) Stopped() {
	fmt.Fprintln(c.out, "👋 Server stopped by user")
}

// Pause は確認の入力があるまで待つ
// 入力が閉じられている場合はすぐに戻る
func (c *Console) Pause(in io.Reader) {
	fmt.Fprint(c.out, "\nPress Enter to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}

// serverName はバナーに表示するサーバー名を返す
func serverName(site string) string {
	if site == "" {
		return "Local Server"
	}
	return site + " Local Server"
}
