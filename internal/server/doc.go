// Package server は、開発用プレビューの静的ファイルHTTPサーバーを管理します。
//
// このパッケージは、ポートのバインド、静的ファイルの配信、
// キャッシュ無効化ヘッダーの付与、グレースフルシャットダウンを担当します。
//
// 責務:
//   - 配信ルートディレクトリ配下のファイルの配信
//   - ディレクトリの index.html 解決 (無ければ一覧表示または404)
//   - すべてのレスポンスへの no-cache ヘッダー付与
//   - ポート使用中エラーとその他の起動エラーの区別
//
// 状態遷移:
//
//	UNSTARTED → BOUND → SERVING → STOPPED
//	UNSTARTED → FAILED (バインド失敗)
//
// 仕様:
//   - HTTPエンジンは gin-gonic/gin を使用
//   - 接続ごとに net/http のゴルーチンで処理
//   - ルート外へのパストラバーサルは不可
package server
