package grpc

// proto.go defines the gRPC service for bib.loanrisk.v1.LoanRiskService by
// hand. Messages travel with the JSON codec in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "bib.loanrisk.v1.LoanRiskService"

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

type ApplyForLoanRequest struct {
	Identifier string `json:"identifier"`
	Amount     string `json:"amount"`
	Purpose    string `json:"purpose"`
}

type ApplyForLoanResponse struct {
	UserID  string `json:"userId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type AssessRiskRequest struct {
	Identifier string `json:"identifier"`
}

type AssessRiskResponse struct {
	UserID           string   `json:"userId"`
	RiskLevel        string   `json:"riskLevel"`
	Recommendation   string   `json:"recommendation"`
	LoanStatus       string   `json:"loanStatus"`
	CreditScoreCheck string   `json:"creditScoreCheck"`
	DTIRatioCheck    string   `json:"dtiRatioCheck"`
	DTIRatio         string   `json:"dtiRatio"`
	FraudFlags       []string `json:"fraudFlags"`
	AssessedDate     string   `json:"assessedDate"`
}

type ReviewLoanApplicationRequest struct {
	Identifier string `json:"identifier"`
	Decision   string `json:"decision"`
}

type ReviewLoanApplicationResponse struct {
	Status  string `json:"status"`
	Amount  string `json:"amount"`
	Purpose string `json:"purpose"`
}

type GetLoanDecisionRequest struct {
	Identifier string `json:"identifier"`
}

type GetLoanDecisionResponse struct {
	UserID         string `json:"userId"`
	Status         string `json:"status"`
	Amount         string `json:"amount"`
	Purpose        string `json:"purpose"`
	Recommendation string `json:"recommendation,omitempty"`
	AssessedDate   string `json:"assessedDate,omitempty"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// LoanRiskServiceServer is the server API for LoanRiskService.
type LoanRiskServiceServer interface {
	ApplyForLoan(context.Context, *ApplyForLoanRequest) (*ApplyForLoanResponse, error)
	AssessRisk(context.Context, *AssessRiskRequest) (*AssessRiskResponse, error)
	ReviewLoanApplication(context.Context, *ReviewLoanApplicationRequest) (*ReviewLoanApplicationResponse, error)
	GetLoanDecision(context.Context, *GetLoanDecisionRequest) (*GetLoanDecisionResponse, error)
	mustEmbedUnimplementedLoanRiskServiceServer()
}

// UnimplementedLoanRiskServiceServer provides forward-compatible default implementations.
type UnimplementedLoanRiskServiceServer struct{}

func (UnimplementedLoanRiskServiceServer) ApplyForLoan(context.Context, *ApplyForLoanRequest) (*ApplyForLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyForLoan not implemented")
}
func (UnimplementedLoanRiskServiceServer) AssessRisk(context.Context, *AssessRiskRequest) (*AssessRiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessRisk not implemented")
}
func (UnimplementedLoanRiskServiceServer) ReviewLoanApplication(context.Context, *ReviewLoanApplicationRequest) (*ReviewLoanApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReviewLoanApplication not implemented")
}
func (UnimplementedLoanRiskServiceServer) GetLoanDecision(context.Context, *GetLoanDecisionRequest) (*GetLoanDecisionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoanDecision not implemented")
}
func (UnimplementedLoanRiskServiceServer) mustEmbedUnimplementedLoanRiskServiceServer() {}

// RegisterLoanRiskServiceServer registers srv with the gRPC server.
func RegisterLoanRiskServiceServer(s grpclib.ServiceRegistrar, srv LoanRiskServiceServer) {
	s.RegisterService(&loanRiskServiceDesc, srv)
}

var loanRiskServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LoanRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ApplyForLoan", Handler: unaryHandler("ApplyForLoan", LoanRiskServiceServer.ApplyForLoan)},
		{MethodName: "AssessRisk", Handler: unaryHandler("AssessRisk", LoanRiskServiceServer.AssessRisk)},
		{MethodName: "ReviewLoanApplication", Handler: unaryHandler("ReviewLoanApplication", LoanRiskServiceServer.ReviewLoanApplication)},
		{MethodName: "GetLoanDecision", Handler: unaryHandler("GetLoanDecision", LoanRiskServiceServer.GetLoanDecision)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/loanrisk/v1/loanrisk.proto",
}

// FullMethod returns the fully qualified gRPC method name.
func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// methodHandler matches the Handler field of grpc.MethodDesc.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error)

// unaryHandler adapts a typed server method to a MethodDesc handler.
func unaryHandler[Req, Resp any](
	method string,
	call func(LoanRiskServiceServer, context.Context, *Req) (*Resp, error),
) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LoanRiskServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LoanRiskServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// LoanRiskServiceClient calls LoanRiskService over a JSON-coded connection.
type LoanRiskServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewLoanRiskServiceClient wraps cc.
func NewLoanRiskServiceClient(cc grpclib.ClientConnInterface) *LoanRiskServiceClient {
	return &LoanRiskServiceClient{cc: cc}
}

func (c *LoanRiskServiceClient) ApplyForLoan(ctx context.Context, in *ApplyForLoanRequest, opts ...grpclib.CallOption) (*ApplyForLoanResponse, error) {
	out := new(ApplyForLoanResponse)
	if err := c.invoke(ctx, "ApplyForLoan", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LoanRiskServiceClient) AssessRisk(ctx context.Context, in *AssessRiskRequest, opts ...grpclib.CallOption) (*AssessRiskResponse, error) {
	out := new(AssessRiskResponse)
	if err := c.invoke(ctx, "AssessRisk", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LoanRiskServiceClient) ReviewLoanApplication(ctx context.Context, in *ReviewLoanApplicationRequest, opts ...grpclib.CallOption) (*ReviewLoanApplicationResponse, error) {
	out := new(ReviewLoanApplicationResponse)
	if err := c.invoke(ctx, "ReviewLoanApplication", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LoanRiskServiceClient) GetLoanDecision(ctx context.Context, in *GetLoanDecisionRequest, opts ...grpclib.CallOption) (*GetLoanDecisionResponse, error) {
	out := new(GetLoanDecisionResponse)
	if err := c.invoke(ctx, "GetLoanDecision", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LoanRiskServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpclib.CallOption) error {
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, FullMethod(method), in, out, opts...)
}
