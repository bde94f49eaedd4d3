package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"sitepreview/internal/config"
)

// defaultShutdownTimeout は設定が無い場合のシャットダウン待機時間
const defaultShutdownTimeout = 5 * time.Second

// Server は静的ファイルを配信するHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	httpServer *http.Server
	engine     *gin.Engine

	mu       sync.Mutex
	state    State
	listener net.Listener

	// stopped はシャットダウン完了時にクローズされる
	stopped  chan struct{}
	stopOnce sync.Once
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config) *Server {
	engine := newEngine(cfg)

	return &Server{
		config: cfg,
		engine: engine,
		httpServer: &http.Server{
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		stopped: make(chan struct{}),
	}
}

// newEngine はミドルウェアと静的ファイルルートを設定したginエンジンを作成する
func newEngine(cfg *config.Config) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	// no-cache ヘッダーは404や500を含む全レスポンスに付与するため最初に登録
	// ルート登録より前に登録したミドルウェアだけがルートに適用される
	engine.Use(NoCache(), requestLogger(), recovery())
	if cfg.Server.AllowCORS {
		engine.Use(CORS())
	}

	files := newFileSystem(cfg.Site.RootDir, cfg.Site.ListDirectories)
	handler := staticHandler(files)
	engine.GET("/*filepath", handler)
	engine.HEAD("/*filepath", handler)
	if cfg.Server.AllowCORS {
		engine.OPTIONS("/*filepath", preflight)
	}

	return engine
}

// Handler はリクエストハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// State は現在の状態を返す
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr はバインドしたアドレスを返す (バインド前はnil)
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL はバインドしたポートでのルートURLを返す
func (s *Server) URL() string {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return s.config.URLForPort(addr.Port)
	}
	return s.config.URL()
}

// Listen はポートをバインドする
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnstarted {
		return errors.Errorf("バインドできない状態です: %s", s.state)
	}

	addr := s.config.ServerAddress()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.state = StateFailed
		return classifyListenError(addr, s.config.Server.Port, err)
	}

	s.bind(listener)
	return nil
}

// Attach はバインド済みのリスナーを使って BOUND 状態にする
// 以降のShutdownでリスナーはクローズされる
func (s *Server) Attach(listener net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnstarted {
		return errors.Errorf("バインドできない状態です: %s", s.state)
	}

	s.bind(listener)
	return nil
}

// bind はリスナーを保持して BOUND 状態にする (s.mu を保持して呼ぶ)
func (s *Server) bind(listener net.Listener) {
	s.listener = listener
	s.state = StateBound
	log.Printf("ポートをバインドしました: %s", listener.Addr())
}

// Serve は接続の受け付けを開始し、ctxがキャンセルされるかShutdownされるまでブロックする
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateBound {
		state := s.state
		s.mu.Unlock()
		return errors.Errorf("受け付けを開始できない状態です: %s", state)
	}
	listener := s.listener
	s.state = StateServing
	s.mu.Unlock()

	// 受付ループを別ゴルーチンで起動
	serveCh := make(chan error, 1)
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s (%s)", listener.Addr(), s.config.Site.RootDir)
		serveCh <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
		err := s.Shutdown()
		// 受付ループがリスナーを閉じ終えるまで待つ
		<-serveCh
		return err
	case err := <-serveCh:
		if errors.Is(err, http.ErrServerClosed) {
			// 外部からShutdownされた場合は完了を待つ
			<-s.stopped
			return nil
		}

		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()
		listener.Close()
		s.markStopped()
		return errors.Wrap(err, "接続の受け付けに失敗")
	}
}

// Start はポートをバインドして接続の受け付けを開始する
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Shutdown はサーバーをグレースフルにシャットダウンする
// 既に停止している場合は何もしない
func (s *Server) Shutdown() error {
	s.mu.Lock()
	previous := s.state
	if previous == StateStopped || previous == StateFailed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	listener := s.listener
	s.mu.Unlock()

	defer s.markStopped()

	switch previous {
	case StateUnstarted:
		return nil
	case StateBound:
		// 受付ループ開始前なのでポートを解放するだけ
		if err := listener.Close(); err != nil {
			return errors.Wrap(err, "ポートの解放に失敗")
		}
		return nil
	}

	log.Println("サーバーをシャットダウンしています...")

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		// 待機しきれなかった接続は切断する
		s.httpServer.Close()
		return errors.Wrap(err, "サーバーのシャットダウンに失敗")
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}

// markStopped は停止完了を通知する
func (s *Server) markStopped() {
	s.stopOnce.Do(func() {
		close(s.stopped)
	})
}
