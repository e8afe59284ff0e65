package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/models"
	"github.com/dmitrijs2005/gophfit/internal/rpc"
)

// TokensKey is the KV key the auth tokens are persisted under.
const TokensKey = "gophfit_auth_tokens"

const defaultCallTimeout = 12 * time.Second

// TokenStore persists auth tokens between runs.
type TokenStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type tokens struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GRPCStore is the Store backed by the gophfit.FitService gRPC API.
// Expired access tokens are refreshed transparently; when the refresh token
// is rejected the store forgets its tokens and emits SignedOut.
type GRPCStore struct {
	Listeners

	addr        string
	conn        *grpc.ClientConn
	client      *rpc.FitServiceClient
	store       TokenStore
	callTimeout time.Duration
	dialOpts    []grpc.DialOption
	logger      logging.Logger

	mu  sync.Mutex
	tok tokens

	refreshMu sync.Mutex
}

var (
	_ Store         = (*GRPCStore)(nil)
	_ PlanActivator = (*GRPCStore)(nil)
	_ Authenticator = (*GRPCStore)(nil)
	_ Checkout      = (*GRPCStore)(nil)
	_ PhotoArchive  = (*GRPCStore)(nil)
	_ Pinger        = (*GRPCStore)(nil)
)

type Option func(*GRPCStore)

func WithCallTimeout(d time.Duration) Option {
	return func(s *GRPCStore) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithDialOptions adds dial options, e.g. a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(s *GRPCStore) {
		s.dialOpts = append(s.dialOpts, opts...)
	}
}

// NewGRPCStore connects to addr and restores any tokens saved in ts.
func NewGRPCStore(ctx context.Context, addr string, ts TokenStore, l logging.Logger, opts ...Option) (*GRPCStore, error) {
	s := &GRPCStore{
		addr:        addr,
		store:       ts,
		callTimeout: defaultCallTimeout,
		logger:      l.With("module", "remote"),
	}
	for _, o := range opts {
		o(s)
	}

	dial := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(addr, dial...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.client = rpc.NewFitServiceClient(conn)

	s.loadTokens(ctx)
	return s, nil
}

func (s *GRPCStore) Close() error {
	return s.conn.Close()
}

func (s *GRPCStore) loadTokens(ctx context.Context) {
	raw, err := s.store.Get(ctx, TokensKey)
	if err != nil || len(raw) == 0 {
		return
	}
	var t tokens
	if err := json.Unmarshal(raw, &t); err != nil {
		s.logger.Warn(ctx, "discarding unreadable saved tokens", "error", err)
		return
	}
	s.mu.Lock()
	s.tok = t
	s.mu.Unlock()
}

func (s *GRPCStore) saveTokens(ctx context.Context, t tokens) {
	s.mu.Lock()
	s.tok = t
	s.mu.Unlock()

	b, err := json.Marshal(t)
	if err == nil {
		err = s.store.Set(ctx, TokensKey, b)
	}
	if err != nil {
		s.logger.Warn(ctx, "failed to persist tokens", "error", err)
	}
}

func (s *GRPCStore) clearTokens(ctx context.Context) {
	s.mu.Lock()
	s.tok = tokens{}
	s.mu.Unlock()

	if err := s.store.Delete(ctx, TokensKey); err != nil {
		s.logger.Warn(ctx, "failed to delete tokens", "error", err)
	}
}

func (s *GRPCStore) current() tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

var unauthenticatedMethods = map[string]bool{
	rpc.MethodPing:         true,
	rpc.MethodSignUp:       true,
	rpc.MethodSignIn:       true,
	rpc.MethodRefreshToken: true,
	rpc.MethodSignOut:      true,
}

func (s *GRPCStore) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if unauthenticatedMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access := s.current().AccessToken
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	fresh, rerr := s.refresh(ctx, access)
	if rerr != nil {
		return rerr
	}
	return invoker(withAccessToken(ctx, fresh), method, req, reply, cc, opts...)
}

// refresh exchanges the refresh token once for all callers that saw stale
// expire. Callers arriving after a successful refresh get the new token.
func (s *GRPCStore) refresh(ctx context.Context, stale string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	t := s.current()
	if t.AccessToken != "" && t.AccessToken != stale {
		return t.AccessToken, nil
	}
	if t.RefreshToken == "" {
		return "", ErrUnauthorized
	}

	resp, err := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: t.RefreshToken})
	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, ErrUnauthorized) {
			s.logger.Info(ctx, "refresh token rejected, signing out")
			s.clearTokens(ctx)
			s.Emit(SignedOut, nil)
		}
		return "", mapped
	}

	t.AccessToken = resp.AccessToken
	t.RefreshToken = resp.RefreshToken
	s.saveTokens(ctx, t)
	s.Emit(TokenRefreshed, &User{ID: t.UserID, Email: t.Email})
	return t.AccessToken, nil
}

func (s *GRPCStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}

func (s *GRPCStore) signedIn(ctx context.Context, email string, resp *rpc.TokensResponse) *User {
	s.saveTokens(ctx, tokens{
		UserID:       resp.UserID,
		Email:        email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	u := &User{ID: resp.UserID, Email: email}
	s.Emit(SignedIn, u)
	return u
}

func (s *GRPCStore) SignUp(ctx context.Context, email, password string) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.SignUp(ctx, &rpc.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return s.signedIn(ctx, email, resp), nil
}

func (s *GRPCStore) SignIn(ctx context.Context, email, password string) (*User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.SignIn(ctx, &rpc.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return s.signedIn(ctx, email, resp), nil
}

// SignOut revokes the refresh token on the server when it can and always
// forgets the local tokens.
func (s *GRPCStore) SignOut(ctx context.Context) error {
	t := s.current()
	var err error
	if t.RefreshToken != "" {
		cctx, cancel := s.withTimeout(ctx)
		_, err = s.client.SignOut(cctx, &rpc.SignOutRequest{RefreshToken: t.RefreshToken})
		cancel()
	}
	s.clearTokens(ctx)
	s.Emit(SignedOut, nil)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCStore) GetSession(ctx context.Context) (*User, error) {
	if t := s.current(); t.AccessToken == "" && t.RefreshToken == "" {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetSession(ctx, &rpc.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return &User{ID: resp.UserID, Email: resp.Email}, nil
}

func (s *GRPCStore) GetProfile(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetProfile(ctx, &rpc.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Profile) == 0 || string(resp.Profile) == "null" {
		return nil, nil
	}
	return resp.Profile, nil
}

func (s *GRPCStore) PutProfile(ctx context.Context, p models.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.PutProfile(ctx, &rpc.PutProfileRequest{Profile: raw}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) GetActivePlan(ctx context.Context) (*models.Plan, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetActivePlan(ctx, &rpc.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Plan, nil
}

func (s *GRPCStore) DeactivateAllPlans(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.DeactivateAllPlans(ctx, &rpc.Empty{}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) InsertPlan(ctx context.Context, plan *models.Plan, active bool) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.InsertPlan(ctx, &rpc.InsertPlanRequest{Plan: plan, Active: active}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) ActivatePlan(ctx context.Context, plan *models.Plan) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.ActivatePlan(ctx, &rpc.ActivatePlanRequest{Plan: plan}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) AppendHistory(ctx context.Context, kind models.HistoryKind, entry any) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.AppendHistory(ctx, &rpc.AppendHistoryRequest{Kind: kind, Entry: raw}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) GetHistory(ctx context.Context) (models.History, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetHistory(ctx, &rpc.Empty{})
	if err != nil {
		return models.History{}, mapError(err)
	}
	return resp.History, nil
}

func (s *GRPCStore) CreateCheckout(ctx context.Context) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.CreateCheckout(ctx, &rpc.CheckoutRequest{})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}

func (s *GRPCStore) PresignPhotoUpload(ctx context.Context, contentType string) (string, string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.PresignPhotoUpload(ctx, &rpc.PresignPhotoRequest{ContentType: contentType})
	if err != nil {
		return "", "", mapError(err)
	}
	return resp.Key, resp.URL, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUnavailable) {
		return err
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", common.ErrRateLimited, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrNotConfigured, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
