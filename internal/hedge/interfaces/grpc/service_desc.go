// Package grpc 提供 hedge.v1.HedgeService 的 gRPC 实现
// 请求与响应统一使用 google.protobuf.Struct，字段名与 HTTP JSON 接口一致
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName 完整服务名
const ServiceName = "hedge.v1.HedgeService"

// HedgeServiceServer 服务端接口
type HedgeServiceServer interface {
	PriceOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EvaluateScenario(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPosition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SweepScenarios(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(HedgeServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethodDesc(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(HedgeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(HedgeServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// HedgeServiceDesc 服务描述
var HedgeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HedgeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethodDesc("PriceOption", HedgeServiceServer.PriceOption),
		unaryMethodDesc("EvaluateScenario", HedgeServiceServer.EvaluateScenario),
		unaryMethodDesc("GetPosition", HedgeServiceServer.GetPosition),
		unaryMethodDesc("SweepScenarios", HedgeServiceServer.SweepScenarios),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hedge/v1/hedge.proto",
}

// RegisterHedgeServiceServer 注册服务
func RegisterHedgeServiceServer(s grpc.ServiceRegistrar, srv HedgeServiceServer) {
	s.RegisterService(&HedgeServiceDesc, srv)
}
