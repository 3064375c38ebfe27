package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/k-kohey/figkit/internal/preview"
)

// Client calls a Renderer service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// RenderStruct sends a raw request message.
func (c *Client) RenderStruct(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RenderMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Render sends req and decodes the response.
func (c *Client) Render(ctx context.Context, req preview.Request, opts ...grpc.CallOption) (*preview.Response, error) {
	in, err := req.Struct()
	if err != nil {
		return nil, err
	}
	out, err := c.RenderStruct(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return preview.ResponseFromStruct(out)
}
