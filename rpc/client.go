package rpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"k8s.io/klog/v2"

	"github.com/thalesfsp/suggest"
)

// TrialAssignment is a suggested point with the name the orchestrator will
// start its trial under.
type TrialAssignment struct {
	Name        string
	Assignments suggest.AssignmentSet
}

// Client talks to a remote suggestion service.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// NewClient connects to the suggestion service at addr. Transport security
// defaults to insecure; pass further options to override.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "grpc dial %s", addr)
	}

	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client on an existing connection. The caller
// keeps ownership of cc.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetSuggestions requests new assignment sets. Rejections keep their gRPC
// status, retrievable with status.Code.
func (c *Client) GetSuggestions(ctx context.Context, req *suggest.Request, opts ...grpc.CallOption) (*suggest.Response, error) {
	resp := new(suggest.Response)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)

	if err := c.cc.Invoke(ctx, getSuggestionsMethod, req, resp, opts...); err != nil {
		return nil, errors.Wrap(err, "get suggestions rpc")
	}

	return resp, nil
}

// ValidateAlgorithmSettings asks the service whether it accepts the
// algorithm and settings in req.
//
// A service that does not implement validation counts as accepting. A
// rejection is returned with the service's explanation; connection
// failures are returned as is.
func (c *Client) ValidateAlgorithmSettings(ctx context.Context, req *suggest.ValidationRequest) error {
	err := c.cc.Invoke(ctx, validateMethod, req, new(suggest.ValidationResponse),
		grpc.CallContentSubtype(codecName), grpc.WaitForReady(true))
	if err == nil {
		klog.V(2).InfoS("Algorithm settings validated", "algorithm", req.Algorithm)
		return nil
	}

	st, _ := status.FromError(err)

	switch st.Code() {
	case codes.InvalidArgument, codes.Unknown:
		return errors.Errorf("validate algorithm settings: %s", st.Message())
	case codes.Unimplemented:
		klog.InfoS("ValidateAlgorithmSettings not implemented by suggestion service", "algorithm", req.Algorithm)
		return nil
	default:
		return errors.Wrap(err, "validate algorithm settings rpc")
	}
}

// SyncAssignments requests req.RequiredSampling new points for the sampling
// run called name and names each one "<name>-<8 hex chars>".
//
// overrides are merged over req.Settings, winning on conflicts. The call
// fails unless the service returns exactly the requested number of sets.
// RequiredSampling <= 0 is a no-op.
func (c *Client) SyncAssignments(ctx context.Context, name string, req *suggest.Request, overrides map[string]string) ([]TrialAssignment, error) {
	if req.RequiredSampling <= 0 {
		return nil, nil
	}

	filled := *req
	filled.Settings = suggest.MergeSettings(req.Settings, overrides)

	resp, err := c.GetSuggestions(ctx, &filled)
	if err != nil {
		return nil, err
	}

	if int64(len(resp.AssignmentSets)) != req.RequiredSampling {
		return nil, errors.Errorf("response contains %d assignment sets, requested %d", len(resp.AssignmentSets), req.RequiredSampling)
	}

	trials := make([]TrialAssignment, len(resp.AssignmentSets))
	for i, set := range resp.AssignmentSets {
		trials[i] = TrialAssignment{
			Name:        fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
			Assignments: set,
		}
	}

	klog.V(2).InfoS("Synced assignments", "sampling", name, "count", len(trials))

	return trials, nil
}
