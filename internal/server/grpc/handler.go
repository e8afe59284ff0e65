package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/rpc"
	"github.com/dmitrijs2005/gophfit/internal/server/services"
)

func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err)
	} else {
		s.logger.Debug(ctx, op+" rejected", "error", err)
	}
	return st
}

func (s *GRPCServer) currentUser(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func tokens(p *services.TokenPair) *rpc.TokensResponse {
	return &rpc.TokensResponse{UserID: p.UserID, AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *rpc.CredentialsRequest) (*rpc.TokensResponse, error) {
	pair, err := s.users.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "sign up", err)
	}
	s.logger.Info(ctx, "Registered", "user_id", pair.UserID)
	return tokens(pair), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *rpc.CredentialsRequest) (*rpc.TokensResponse, error) {
	pair, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "sign in", err)
	}
	return tokens(pair), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.TokensResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "refresh token", err)
	}
	return tokens(pair), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *rpc.SignOutRequest) (*rpc.Empty, error) {
	if err := s.users.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, s.fail(ctx, "sign out", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetSession(ctx context.Context, _ *rpc.Empty) (*rpc.SessionResponse, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
		}
		return nil, s.fail(ctx, "get session", err)
	}
	return &rpc.SessionResponse{UserID: u.ID, Email: u.Email}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *rpc.Empty) (*rpc.ProfileResponse, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.fitness.GetProfile(ctx, uid)
	if err != nil {
		return nil, s.fail(ctx, "get profile", err)
	}
	return &rpc.ProfileResponse{Profile: raw}, nil
}

func (s *GRPCServer) PutProfile(ctx context.Context, req *rpc.PutProfileRequest) (*rpc.Empty, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.fitness.PutProfile(ctx, uid, req.Profile); err != nil {
		return nil, s.fail(ctx, "put profile", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetActivePlan(ctx context.Context, _ *rpc.Empty) (*rpc.PlanResponse, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.fitness.GetActivePlan(ctx, uid)
	if err != nil {
		return nil, s.fail(ctx, "get active plan", err)
	}
	return &rpc.PlanResponse{Plan: plan}, nil
}

func (s *GRPCServer) DeactivateAllPlans(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.fitness.DeactivateAllPlans(ctx, uid); err != nil {
		return nil, s.fail(ctx, "deactivate plans", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) InsertPlan(ctx context.Context, req *rpc.InsertPlanRequest) (*rpc.Empty, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.fitness.InsertPlan(ctx, uid, req.Plan, req.Active); err != nil {
		return nil, s.fail(ctx, "insert plan", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ActivatePlan(ctx context.Context, req *rpc.ActivatePlanRequest) (*rpc.Empty, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.fitness.ActivatePlan(ctx, uid, req.Plan); err != nil {
		return nil, s.fail(ctx, "activate plan", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) AppendHistory(ctx context.Context, req *rpc.AppendHistoryRequest) (*rpc.Empty, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.fitness.AppendHistory(ctx, uid, req.Kind, req.Entry); err != nil {
		return nil, s.fail(ctx, "append history", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetHistory(ctx context.Context, _ *rpc.Empty) (*rpc.HistoryResponse, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	h, err := s.fitness.GetHistory(ctx, uid)
	if err != nil {
		return nil, s.fail(ctx, "get history", err)
	}
	return &rpc.HistoryResponse{History: h}, nil
}

func (s *GRPCServer) CreateCheckout(ctx context.Context, _ *rpc.CheckoutRequest) (*rpc.CheckoutResponse, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	var email string
	if u, err := s.users.GetUser(ctx, uid); err == nil {
		email = u.Email
	}
	co, err := s.payments.CreateCheckout(ctx, uid, email)
	if err != nil {
		return nil, s.fail(ctx, "create checkout", err)
	}
	return &rpc.CheckoutResponse{SessionID: co.SessionID, URL: co.URL}, nil
}

func (s *GRPCServer) PresignPhotoUpload(ctx context.Context, req *rpc.PresignPhotoRequest) (*rpc.PresignPhotoResponse, error) {
	uid, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.photos.PresignUpload(ctx, uid, req.ContentType)
	if err != nil {
		return nil, s.fail(ctx, "presign photo", err)
	}
	return &rpc.PresignPhotoResponse{Key: key, URL: url}, nil
}
