package server

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
)

// IndexFile はディレクトリ要求時に返すファイル名
const IndexFile = "index.html"

// noCacheHeaders はすべてのレスポンスに付与するヘッダー (付与順)
var noCacheHeaders = [][2]string{
	{"Cache-Control", "no-cache, no-store, must-revalidate"},
	{"Pragma", "no-cache"},
	{"Expires", "0"},
}

// addNoCacheHeaders は no-cache ヘッダーを順に追加する
// 既存のヘッダーは削除しない
func addNoCacheHeaders(h http.Header) {
	for _, kv := range noCacheHeaders {
		h.Add(kv[0], kv[1])
	}
}

// ensureNoCacheHeaders は欠けている no-cache ヘッダーだけを追加する
func ensureNoCacheHeaders(h http.Header) {
	for _, kv := range noCacheHeaders {
		if len(h.Values(kv[0])) == 0 {
			h.Add(kv[0], kv[1])
		}
	}
}

// NoCache はすべてのレスポンスに no-cache ヘッダーを付与するミドルウェア
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		addNoCacheHeaders(c.Writer.Header())
		c.Next()
	}
}

// corsHeaders は CORS を許可する場合に付与するヘッダー
var corsHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, HEAD, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
}

// CORS は全オリジンからの読み込みを許可するヘッダーを付与するミドルウェア
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range corsHeaders {
			h.Set(kv[0], kv[1])
		}
		c.Next()
	}
}

// preflight は OPTIONS リクエストに本文なしで応答する
func preflight(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}

// requestLogger はリクエストごとに1行のログを出力するミドルウェア
func requestLogger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: log.Writer(),
		Formatter: func(p gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - %s %s %d %s\n",
				p.TimeStamp.Format(time.RFC3339),
				p.Method,
				p.Path,
				p.StatusCode,
				p.Latency,
			)
		},
	})
}

// recovery はリクエスト処理中のpanicを500に変換するミドルウェア
// サーバー自体は処理を継続する
func recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(log.Writer(), func(c *gin.Context, err any) {
		log.Printf("リクエスト処理中に予期しないエラーが発生しました: %s %s: %v",
			c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// staticHandler は配信ルート配下のファイルを返すハンドラ
func staticHandler(files http.FileSystem) gin.HandlerFunc {
	fileServer := http.FileServer(files)

	return func(c *gin.Context) {
		fileServer.ServeHTTP(&noCacheWriter{ResponseWriter: c.Writer}, c.Request)
	}
}

// noCacheWriter はヘッダー送信の直前に no-cache ヘッダーが揃っていることを保証する
// http.FileServer はエラー応答時に Cache-Control を削除するため、ここで補う
type noCacheWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *noCacheWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		ensureNoCacheHeaders(w.Header())
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *noCacheWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// newFileSystem は配信ルートのファイルシステムを作成する
func newFileSystem(root string, listDirectories bool) http.FileSystem {
	dir := http.Dir(root)
	if listDirectories {
		return dir
	}
	return indexOnlyFS{FileSystem: dir}
}

// indexOnlyFS は index.html を持たないディレクトリを存在しないものとして扱う
type indexOnlyFS struct {
	http.FileSystem
}

func (f indexOnlyFS) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if !info.IsDir() {
		return file, nil
	}

	// ディレクトリの場合は index.html があるか確認
	index, err := f.FileSystem.Open(path.Join(name, IndexFile))
	if err != nil {
		file.Close()
		return nil, fs.ErrNotExist
	}
	defer index.Close()

	if indexInfo, err := index.Stat(); err != nil || indexInfo.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}

	return file, nil
}
