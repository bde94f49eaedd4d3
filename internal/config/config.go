package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPort はプレビューサーバーの固定ポート
const DefaultPort = 3000

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Site    SiteConfig    `yaml:"site"`
	Browser BrowserConfig `yaml:"browser"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト (空文字は全インターフェース)
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 書き込みタイムアウト
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // シャットダウン時の待機時間

	// CORS ヘッダーを付与し、OPTIONS に 204 で応答するか
	AllowCORS bool `yaml:"allow_cors"`
}

// SiteConfig は配信するサイトの設定
type SiteConfig struct {
	Name    string `yaml:"name"`     // 起動バナーに表示するサイト名
	RootDir string `yaml:"root_dir"` // 配信ルートディレクトリ (絶対パス)

	// index.html が無いディレクトリを一覧表示するか (false なら 404)
	ListDirectories bool `yaml:"list_directories"`

	// 起動時に表示するページ一覧 (ルーティングには使わない)
	Pages []Page `yaml:"pages"`
}

// Page は起動バナーに表示するページ
type Page struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

// BrowserConfig はブラウザ自動起動の設定
type BrowserConfig struct {
	Open bool `yaml:"open"`
}

// DefaultSiteName はプレビューするサイトの名前
const DefaultSiteName = "Craft Furniture"

// DefaultPages はサイトの主要ページ
func DefaultPages() []Page {
	return []Page{
		{Path: "/", Title: "トップページ"},
		{Path: "/works/", Title: "施工事例"},
		{Path: "/craftsmen/", Title: "職人紹介"},
		{Path: "/simulator/", Title: "見積もり"},
		{Path: "/showroom/", Title: "ショールーム"},
	}
}

// Load は設定を読み込む
// ポートやルートディレクトリはコード上の既定値のみで、環境変数やフラグは参照しない
func Load() (*Config, error) {
	root, err := resolveRootDir()
	if err != nil {
		return nil, fmt.Errorf("配信ディレクトリの解決に失敗: %w", err)
	}

	cfg := Default(root)

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Default は指定したルートディレクトリを配信するデフォルト設定を返す
func Default(rootDir string) *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            DefaultPort,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    0,
			ShutdownTimeout: 5 * time.Second,
			AllowCORS:       true,
		},
		Site: SiteConfig{
			Name:            DefaultSiteName,
			RootDir:         rootDir,
			ListDirectories: true,
			Pages:           DefaultPages(),
		},
		Browser: BrowserConfig{
			Open: true,
		},
	}
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	// サイト設定の検証
	if c.Site.RootDir == "" {
		return fmt.Errorf("配信ディレクトリが設定されていません")
	}
	if !filepath.IsAbs(c.Site.RootDir) {
		return fmt.Errorf("配信ディレクトリは絶対パスである必要があります: %s", c.Site.RootDir)
	}
	info, err := os.Stat(c.Site.RootDir)
	if err != nil {
		return fmt.Errorf("配信ディレクトリにアクセスできません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("配信ディレクトリではありません: %s", c.Site.RootDir)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// URL はブラウザで開くルートURLを返す
func (c *Config) URL() string {
	return c.URLForPort(c.Server.Port)
}

// URLForPort は指定ポートでのルートURLを返す
// ポート0でバインドした場合など、実際のポートが設定と異なるときに使う
func (c *Config) URLForPort(port int) string {
	return fmt.Sprintf("http://%s:%d", c.displayHost(), port)
}

// PageURL はページのURLを返す
func (c *Config) PageURL(p Page) string {
	return c.URL() + p.Path
}

// displayHost はURL表示用のホスト名を返す
func (c *Config) displayHost() string {
	switch c.Server.Host {
	case "", "0.0.0.0", "::":
		return "localhost"
	default:
		return c.Server.Host
	}
}

// resolveRootDir は実行ファイルのあるディレクトリを絶対パスで返す
func resolveRootDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)

	// go run の場合は一時ディレクトリにビルドされるので作業ディレクトリを使う
	if isBuildCache(dir) {
		return os.Getwd()
	}

	return filepath.Abs(dir)
}

// isBuildCache は go run の一時ビルドディレクトリかどうかを判定する
func isBuildCache(dir string) bool {
	var candidates []string
	for _, tmp := range []string{os.Getenv("GOTMPDIR"), os.TempDir()} {
		if tmp == "" {
			continue
		}
		candidates = append(candidates, tmp)
		if resolved, err := filepath.EvalSymlinks(tmp); err == nil && resolved != tmp {
			candidates = append(candidates, resolved)
		}
	}
	for _, tmp := range candidates {
		rel, err := filepath.Rel(tmp, dir)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if strings.HasPrefix(rel, "go-build") {
			return true
		}
	}
	return false
}
