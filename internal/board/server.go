// ABOUTME: Server-side registration of the board.Board service on a gRPC server
// ABOUTME: Decodes dynamic messages into domain types and dispatches to a Server implementation

package board

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Server is implemented by board backends.
type Server interface {
	ListSubjects(ctx context.Context) ([]Subject, error)
	GetSubject(ctx context.Context, id int64) (Subject, error)
	ListQuestions(ctx context.Context, subjectID int64) ([]Question, error)
	CreateQuestion(ctx context.Context, q NewQuestion) (Question, error)
	Like(ctx context.Context, id int64) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListSubjects",
			Handler: unary(MethodListSubjects, nil, func(ctx context.Context, srv Server, _ protoreflect.Message) (proto.Message, error) {
				subjects, err := srv.ListSubjects(ctx)
				if err != nil {
					return nil, err
				}
				return encodeSubjectList(subjects), nil
			}),
		},
		{
			MethodName: "GetSubject",
			Handler: unary(MethodGetSubject, schema.subjectID, func(ctx context.Context, srv Server, req protoreflect.Message) (proto.Message, error) {
				s, err := srv.GetSubject(ctx, getInt(req, "id"))
				if err != nil {
					return nil, err
				}
				m := newMessage(schema.subject)
				encodeSubject(m, s)
				return m, nil
			}),
		},
		{
			MethodName: "ListQuestions",
			Handler: unary(MethodListQuestions, schema.subjectID, func(ctx context.Context, srv Server, req protoreflect.Message) (proto.Message, error) {
				questions, err := srv.ListQuestions(ctx, getInt(req, "id"))
				if err != nil {
					return nil, err
				}
				return encodeQuestionList(questions), nil
			}),
		},
		{
			MethodName: "CreateQuestion",
			Handler: unary(MethodCreateQuestion, schema.newQuestion, func(ctx context.Context, srv Server, req protoreflect.Message) (proto.Message, error) {
				q, err := srv.CreateQuestion(ctx, decodeNewQuestion(req))
				if err != nil {
					return nil, err
				}
				m := newMessage(schema.question)
				encodeQuestion(m, q)
				return m, nil
			}),
		},
		{
			MethodName: "Like",
			Handler: unary(MethodLike, schema.questionID, func(ctx context.Context, srv Server, req protoreflect.Message) (proto.Message, error) {
				if err := srv.Like(ctx, getInt(req, "id")); err != nil {
					return nil, err
				}
				return &emptypb.Empty{}, nil
			}),
		},
	},
	Metadata: "board/board.proto",
}

// RegisterServer registers srv as the board.Board service on s.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

type unaryFunc func(ctx context.Context, srv Server, req protoreflect.Message) (proto.Message, error)

// unary adapts fn to a grpc.MethodHandler. A nil input descriptor means google.protobuf.Empty.
func unary(fullMethod string, in protoreflect.MessageDescriptor, fn unaryFunc) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		var req proto.Message = &emptypb.Empty{}
		if in != nil {
			req = dynamicpb.NewMessage(in)
		}
		if err := dec(req); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, r any) (any, error) {
			return fn(ctx, srv.(Server), r.(proto.Message).ProtoReflect())
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		return interceptor(ctx, req, info, handler)
	}
}
