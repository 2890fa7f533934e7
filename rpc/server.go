// Package rpc exposes a suggest.Service over gRPC and provides the matching
// client used by experiment orchestrators.
package rpc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"k8s.io/klog/v2"

	"github.com/thalesfsp/suggest"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "suggest.v1.Suggestion"

const (
	getSuggestionsMethod = "/" + ServiceName + "/GetSuggestions"
	validateMethod       = "/" + ServiceName + "/ValidateAlgorithmSettings"
)

// SuggestionServer is the server side of the suggestion service.
type SuggestionServer interface {
	GetSuggestions(context.Context, *suggest.Request) (*suggest.Response, error)
	ValidateAlgorithmSettings(context.Context, *suggest.ValidationRequest) (*suggest.ValidationResponse, error)
}

// Server adapts a suggest.Service to SuggestionServer, translating the
// error taxonomy into gRPC status codes.
type Server struct {
	svc *suggest.Service
}

// NewServer wraps svc.
func NewServer(svc *suggest.Service) *Server {
	return &Server{svc: svc}
}

// GetSuggestions implements SuggestionServer.
func (s *Server) GetSuggestions(ctx context.Context, req *suggest.Request) (*suggest.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	resp, err := s.svc.Suggest(req)
	if err != nil {
		klog.ErrorS(err, "GetSuggestions rejected", "algorithm", req.Algorithm, "required", req.RequiredSampling)
		return nil, toStatus(err)
	}

	return resp, nil
}

// ValidateAlgorithmSettings implements SuggestionServer.
func (s *Server) ValidateAlgorithmSettings(ctx context.Context, req *suggest.ValidationRequest) (*suggest.ValidationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	if err := s.svc.Validate(req); err != nil {
		klog.InfoS("Algorithm settings rejected", "algorithm", req.Algorithm, "err", err)
		return nil, toStatus(err)
	}

	return &suggest.ValidationResponse{}, nil
}

// toStatus maps the suggest error taxonomy to a gRPC status carrying the
// full error text.
//
// Unlike the legacy Python service, which answered INVALID_ARGUMENT,
// ErrInsufficientCapacity maps to RESOURCE_EXHAUSTED.
func toStatus(err error) error {
	code := codes.Unknown

	switch {
	case errors.Is(err, suggest.ErrInvalidSpec),
		errors.Is(err, suggest.ErrUnsupportedAlgorithm),
		errors.Is(err, suggest.ErrCapacityOverflow):
		code = codes.InvalidArgument
	case errors.Is(err, suggest.ErrInsufficientCapacity):
		code = codes.ResourceExhausted
	case errors.Is(err, suggest.ErrExhaustedSpace),
		errors.Is(err, suggest.ErrAlreadyReserved):
		code = codes.Internal
	}

	return status.Error(code, err.Error())
}

// RegisterSuggestionServer registers srv on r.
func RegisterSuggestionServer(r grpc.ServiceRegistrar, srv SuggestionServer) {
	r.RegisterService(&serviceDesc, srv)
}

// RegisterServices registers srv and a health service on r. The returned
// health server already reports SERVING for the whole server and for
// ServiceName; flip it with Shutdown when draining.
func RegisterServices(r grpc.ServiceRegistrar, srv SuggestionServer) *health.Server {
	RegisterSuggestionServer(r, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(r, hs)

	return hs
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SuggestionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSuggestions",
			Handler:    getSuggestionsHandler,
		},
		{
			MethodName: "ValidateAlgorithmSettings",
			Handler:    validateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "suggest/v1/suggestion",
}

func getSuggestionsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(suggest.Request)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SuggestionServer).GetSuggestions(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getSuggestionsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SuggestionServer).GetSuggestions(ctx, req.(*suggest.Request))
	}

	return interceptor(ctx, in, info, handler)
}

func validateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(suggest.ValidationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SuggestionServer).ValidateAlgorithmSettings(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: validateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SuggestionServer).ValidateAlgorithmSettings(ctx, req.(*suggest.ValidationRequest))
	}

	return interceptor(ctx, in, info, handler)
}
