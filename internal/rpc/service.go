package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophfit.FitService"

const (
	MethodPing               = "/" + ServiceName + "/Ping"
	MethodSignUp             = "/" + ServiceName + "/SignUp"
	MethodSignIn             = "/" + ServiceName + "/SignIn"
	MethodRefreshToken       = "/" + ServiceName + "/RefreshToken"
	MethodSignOut            = "/" + ServiceName + "/SignOut"
	MethodGetSession         = "/" + ServiceName + "/GetSession"
	MethodGetProfile         = "/" + ServiceName + "/GetProfile"
	MethodPutProfile         = "/" + ServiceName + "/PutProfile"
	MethodGetActivePlan      = "/" + ServiceName + "/GetActivePlan"
	MethodDeactivateAllPlans = "/" + ServiceName + "/DeactivateAllPlans"
	MethodInsertPlan         = "/" + ServiceName + "/InsertPlan"
	MethodActivatePlan       = "/" + ServiceName + "/ActivatePlan"
	MethodAppendHistory      = "/" + ServiceName + "/AppendHistory"
	MethodGetHistory         = "/" + ServiceName + "/GetHistory"
	MethodCreateCheckout     = "/" + ServiceName + "/CreateCheckout"
	MethodPresignPhoto       = "/" + ServiceName + "/PresignPhotoUpload"
)

// FitServiceServer is the server API for FitService.
type FitServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	SignUp(context.Context, *CredentialsRequest) (*TokensResponse, error)
	SignIn(context.Context, *CredentialsRequest) (*TokensResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokensResponse, error)
	SignOut(context.Context, *SignOutRequest) (*Empty, error)
	GetSession(context.Context, *Empty) (*SessionResponse, error)
	GetProfile(context.Context, *Empty) (*ProfileResponse, error)
	PutProfile(context.Context, *PutProfileRequest) (*Empty, error)
	GetActivePlan(context.Context, *Empty) (*PlanResponse, error)
	DeactivateAllPlans(context.Context, *Empty) (*Empty, error)
	InsertPlan(context.Context, *InsertPlanRequest) (*Empty, error)
	ActivatePlan(context.Context, *ActivatePlanRequest) (*Empty, error)
	AppendHistory(context.Context, *AppendHistoryRequest) (*Empty, error)
	GetHistory(context.Context, *Empty) (*HistoryResponse, error)
	CreateCheckout(context.Context, *CheckoutRequest) (*CheckoutResponse, error)
	PresignPhotoUpload(context.Context, *PresignPhotoRequest) (*PresignPhotoResponse, error)
}

// UnimplementedFitServiceServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedFitServiceServer struct{}

func unimplemented(m string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", m)
}

func (UnimplementedFitServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedFitServiceServer) SignUp(context.Context, *CredentialsRequest) (*TokensResponse, error) {
	return nil, unimplemented("SignUp")
}
func (UnimplementedFitServiceServer) SignIn(context.Context, *CredentialsRequest) (*TokensResponse, error) {
	return nil, unimplemented("SignIn")
}
func (UnimplementedFitServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokensResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedFitServiceServer) SignOut(context.Context, *SignOutRequest) (*Empty, error) {
	return nil, unimplemented("SignOut")
}
func (UnimplementedFitServiceServer) GetSession(context.Context, *Empty) (*SessionResponse, error) {
	return nil, unimplemented("GetSession")
}
func (UnimplementedFitServiceServer) GetProfile(context.Context, *Empty) (*ProfileResponse, error) {
	return nil, unimplemented("GetProfile")
}
func (UnimplementedFitServiceServer) PutProfile(context.Context, *PutProfileRequest) (*Empty, error) {
	return nil, unimplemented("PutProfile")
}
func (UnimplementedFitServiceServer) GetActivePlan(context.Context, *Empty) (*PlanResponse, error) {
	return nil, unimplemented("GetActivePlan")
}
func (UnimplementedFitServiceServer) DeactivateAllPlans(context.Context, *Empty) (*Empty, error) {
	return nil, unimplemented("DeactivateAllPlans")
}
func (UnimplementedFitServiceServer) InsertPlan(context.Context, *InsertPlanRequest) (*Empty, error) {
	return nil, unimplemented("InsertPlan")
}
func (UnimplementedFitServiceServer) ActivatePlan(context.Context, *ActivatePlanRequest) (*Empty, error) {
	return nil, unimplemented("ActivatePlan")
}
func (UnimplementedFitServiceServer) AppendHistory(context.Context, *AppendHistoryRequest) (*Empty, error) {
	return nil, unimplemented("AppendHistory")
}
func (UnimplementedFitServiceServer) GetHistory(context.Context, *Empty) (*HistoryResponse, error) {
	return nil, unimplemented("GetHistory")
}
func (UnimplementedFitServiceServer) CreateCheckout(context.Context, *CheckoutRequest) (*CheckoutResponse, error) {
	return nil, unimplemented("CreateCheckout")
}
func (UnimplementedFitServiceServer) PresignPhotoUpload(context.Context, *PresignPhotoRequest) (*PresignPhotoResponse, error) {
	return nil, unimplemented("PresignPhotoUpload")
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(FitServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FitServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FitServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FitServiceDesc is the grpc.ServiceDesc for FitService.
var FitServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FitServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, FitServiceServer.Ping)},
		{MethodName: "SignUp", Handler: unary(MethodSignUp, FitServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: unary(MethodSignIn, FitServiceServer.SignIn)},
		{MethodName: "RefreshToken", Handler: unary(MethodRefreshToken, FitServiceServer.RefreshToken)},
		{MethodName: "SignOut", Handler: unary(MethodSignOut, FitServiceServer.SignOut)},
		{MethodName: "GetSession", Handler: unary(MethodGetSession, FitServiceServer.GetSession)},
		{MethodName: "GetProfile", Handler: unary(MethodGetProfile, FitServiceServer.GetProfile)},
		{MethodName: "PutProfile", Handler: unary(MethodPutProfile, FitServiceServer.PutProfile)},
		{MethodName: "GetActivePlan", Handler: unary(MethodGetActivePlan, FitServiceServer.GetActivePlan)},
		{MethodName: "DeactivateAllPlans", Handler: unary(MethodDeactivateAllPlans, FitServiceServer.DeactivateAllPlans)},
		{MethodName: "InsertPlan", Handler: unary(MethodInsertPlan, FitServiceServer.InsertPlan)},
		{MethodName: "ActivatePlan", Handler: unary(MethodActivatePlan, FitServiceServer.ActivatePlan)},
		{MethodName: "AppendHistory", Handler: unary(MethodAppendHistory, FitServiceServer.AppendHistory)},
		{MethodName: "GetHistory", Handler: unary(MethodGetHistory, FitServiceServer.GetHistory)},
		{MethodName: "CreateCheckout", Handler: unary(MethodCreateCheckout, FitServiceServer.CreateCheckout)},
		{MethodName: "PresignPhotoUpload", Handler: unary(MethodPresignPhoto, FitServiceServer.PresignPhotoUpload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophfit/fit_service",
}

// RegisterFitServiceServer registers srv on s.
func RegisterFitServiceServer(s grpc.ServiceRegistrar, srv FitServiceServer) {
	s.RegisterService(&FitServiceDesc, srv)
}

// FitServiceClient is the client API for FitService.
type FitServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFitServiceClient(cc grpc.ClientConnInterface) *FitServiceClient {
	return &FitServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append(CallOptions(), opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FitServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *FitServiceClient) SignUp(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*TokensResponse, error) {
	return invoke[TokensResponse](ctx, c.cc, MethodSignUp, in, opts)
}

func (c *FitServiceClient) SignIn(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*TokensResponse, error) {
	return invoke[TokensResponse](ctx, c.cc, MethodSignIn, in, opts)
}

func (c *FitServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokensResponse, error) {
	return invoke[TokensResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *FitServiceClient) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodSignOut, in, opts)
}

func (c *FitServiceClient) GetSession(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodGetSession, in, opts)
}

func (c *FitServiceClient) GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *FitServiceClient) PutProfile(ctx context.Context, in *PutProfileRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodPutProfile, in, opts)
}

func (c *FitServiceClient) GetActivePlan(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PlanResponse, error) {
	return invoke[PlanResponse](ctx, c.cc, MethodGetActivePlan, in, opts)
}

func (c *FitServiceClient) DeactivateAllPlans(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeactivateAllPlans, in, opts)
}

func (c *FitServiceClient) InsertPlan(ctx context.Context, in *InsertPlanRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodInsertPlan, in, opts)
}

func (c *FitServiceClient) ActivatePlan(ctx context.Context, in *ActivatePlanRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodActivatePlan, in, opts)
}

func (c *FitServiceClient) AppendHistory(ctx context.Context, in *AppendHistoryRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodAppendHistory, in, opts)
}

func (c *FitServiceClient) GetHistory(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c.cc, MethodGetHistory, in, opts)
}

func (c *FitServiceClient) CreateCheckout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CheckoutResponse, error) {
	return invoke[CheckoutResponse](ctx, c.cc, MethodCreateCheckout, in, opts)
}

func (c *FitServiceClient) PresignPhotoUpload(ctx context.Context, in *PresignPhotoRequest, opts ...grpc.CallOption) (*PresignPhotoResponse, error) {
	return invoke[PresignPhotoResponse](ctx, c.cc, MethodPresignPhoto, in, opts)
}
