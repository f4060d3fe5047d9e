package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/devicekeeper/internal/audit"
	"github.com/nerrad567/devicekeeper/internal/auth"
	"github.com/nerrad567/devicekeeper/internal/device"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/config"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// defaultCookieName is used when security.cookie.name is empty.
const defaultCookieName = "Authorization"

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, hash, candidate string) (bool, error)
	VerifyDummy(ctx context.Context, candidate string)
}

// TokenService issues and validates access tokens.
type TokenService interface {
	Issue(userID int64) (string, error)
	Validate(token string) (int64, error)
	TTL() time.Duration
}

// DeviceService is the device logic the handlers call into.
type DeviceService interface {
	Create(ctx context.Context, userID int64, in device.CreateInput) (*device.Device, error)
	Get(ctx context.Context, id int64) (*device.Details, error)
	List(ctx context.Context) ([]device.Details, error)
	Update(ctx context.Context, userID, id int64, patch device.Patch) error
	RotatePassword(ctx context.Context, userID, id int64, oldPassword, newPassword string) error
	Delete(ctx context.Context, id int64) error
}

// AuditRecorder accepts audit events without blocking.
type AuditRecorder interface {
	Record(ev audit.Event)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	DB       HealthChecker
	Users    auth.UserRepository
	Devices  DeviceService
	Hasher   PasswordHasher
	Tokens   TokenService
	Audit    AuditRecorder // optional
	Version  string
}

// Server is the devicekeeper HTTP server.
//
// It is created with New and started with Start. All methods are safe for
// concurrent use.
type Server struct {
	cfg     config.APIConfig
	secCfg  config.SecurityConfig
	logger  *logging.Logger
	db      HealthChecker
	users   auth.UserRepository
	devices DeviceService
	hasher  PasswordHasher
	tokens  TokenService
	auditor AuditRecorder
	version string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a server with the given dependencies. The server does not
// listen until Start is called.
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Logger == nil:
		return nil, errors.New("logger is required")
	case deps.DB == nil:
		return nil, errors.New("database is required")
	case deps.Users == nil:
		return nil, errors.New("user repository is required")
	case deps.Devices == nil:
		return nil, errors.New("device service is required")
	case deps.Hasher == nil:
		return nil, errors.New("password hasher is required")
	case deps.Tokens == nil:
		return nil, errors.New("token service is required")
	}

	secCfg := deps.Security
	if secCfg.Cookie.Name == "" {
		secCfg.Cookie.Name = defaultCookieName
	}

	return &Server{
		cfg:     deps.Config,
		secCfg:  secCfg,
		logger:  deps.Logger,
		db:      deps.DB,
		users:   deps.Users,
		devices: deps.Devices,
		hasher:  deps.Hasher,
		tokens:  deps.Tokens,
		auditor: deps.Audit,
		version: deps.Version,
	}, nil
}

// Start binds the listener and serves requests in a background goroutine.
// Binding errors (port in use) are returned directly.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.New("api server already started")
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("API server starting", "address", ln.Addr().String())

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the server, waiting up to 10 seconds for
// in-flight requests.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the database behind the API is reachable.
// GET /health answers from it.
func (s *Server) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api health check: %w", err)
	}
	return s.db.HealthCheck(ctx)
}
