// Package grpc serves the gophfit.FitService API.
package grpc

import (
	"context"
	"encoding/json"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/models"
	"github.com/dmitrijs2005/gophfit/internal/rpc"
	smodels "github.com/dmitrijs2005/gophfit/internal/server/models"
	"github.com/dmitrijs2005/gophfit/internal/server/services"
)

type UserService interface {
	SignUp(ctx context.Context, email, password string) (*services.TokenPair, error)
	SignIn(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, userID string) (*smodels.User, error)
}

type FitnessService interface {
	GetProfile(ctx context.Context, userID string) (json.RawMessage, error)
	PutProfile(ctx context.Context, userID string, raw json.RawMessage) error
	GetActivePlan(ctx context.Context, userID string) (*models.Plan, error)
	DeactivateAllPlans(ctx context.Context, userID string) error
	InsertPlan(ctx context.Context, userID string, plan *models.Plan, active bool) error
	ActivatePlan(ctx context.Context, userID string, plan *models.Plan) error
	AppendHistory(ctx context.Context, userID string, kind models.HistoryKind, entry json.RawMessage) error
	GetHistory(ctx context.Context, userID string) (models.History, error)
}

type PaymentService interface {
	CreateCheckout(ctx context.Context, userID, email string) (*services.Checkout, error)
}

type PhotoService interface {
	PresignUpload(ctx context.Context, userID, contentType string) (string, string, error)
}

// Services bundles the domain services behind the API.
type Services struct {
	Users    UserService
	Fitness  FitnessService
	Payments PaymentService
	Photos   PhotoService
}

var _ rpc.FitServiceServer = (*GRPCServer)(nil)

type GRPCServer struct {
	rpc.UnimplementedFitServiceServer

	address      string
	users        UserService
	fitness      FitnessService
	payments     PaymentService
	photos       PhotoService
	logger       logging.Logger
	jwtSecret    []byte
	interceptors []grpc.UnaryServerInterceptor
	limiter      *RateLimiter
}

type Option func(*GRPCServer)

// WithInterceptors adds interceptors that run before authentication,
// e.g. metrics.
func WithInterceptors(i ...grpc.UnaryServerInterceptor) Option {
	return func(s *GRPCServer) {
		s.interceptors = append(s.interceptors, i...)
	}
}

// WithRateLimiter limits calls per user, or per peer before sign-in.
func WithRateLimiter(l *RateLimiter) Option {
	return func(s *GRPCServer) {
		s.limiter = l
	}
}

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     svc.Users,
		fitness:   svc.Fitness,
		payments:  svc.Payments,
		photos:    svc.Photos,
		jwtSecret: []byte(secretKey),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// newServer builds the grpc.Server. Interceptors run in the order: extra
// interceptors, access token check, rate limiter.
func (s *GRPCServer) newServer() *grpc.Server {
	chain := append([]grpc.UnaryServerInterceptor{}, s.interceptors...)
	chain = append(chain, s.accessTokenInterceptor)
	if s.limiter != nil {
		chain = append(chain, s.limiter.UnaryInterceptor)
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	rpc.RegisterFitServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
