// ABOUTME: Callback-style client for the board.Board backend service
// ABOUTME: Each call issues exactly one unary RPC and invokes its callback once with the outcome

package board

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Callback receives the single outcome of a backend call.
type Callback[T any] func(T, error)

// Client is the backend contract. Calls return immediately; the callback fires once the
// remote call completes. md is attached to the outgoing call and may be nil.
type Client interface {
	ListSubjects(ctx context.Context, md metadata.MD, cb Callback[[]Subject])
	GetSubject(ctx context.Context, md metadata.MD, id int64, cb Callback[Subject])
	ListQuestions(ctx context.Context, md metadata.MD, subjectID int64, cb Callback[[]Question])
	CreateQuestion(ctx context.Context, md metadata.MD, q NewQuestion, cb Callback[Question])
	Like(ctx context.Context, md metadata.MD, id int64, cb Callback[struct{}])
}

// GRPCClient implements Client over a shared gRPC connection.
type GRPCClient struct {
	cc grpc.ClientConnInterface
}

// NewGRPCClient creates a client bound to cc.
func NewGRPCClient(cc grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{cc: cc}
}

func (c *GRPCClient) ListSubjects(ctx context.Context, md metadata.MD, cb Callback[[]Subject]) {
	reply := newMessage(schema.subjectList)
	c.invoke(ctx, md, MethodListSubjects, &emptypb.Empty{}, reply, func(err error) {
		if err != nil {
			cb(nil, err)
			return
		}
		cb(decodeSubjectList(reply), nil)
	})
}

func (c *GRPCClient) GetSubject(ctx context.Context, md metadata.MD, id int64, cb Callback[Subject]) {
	reply := newMessage(schema.subject)
	c.invoke(ctx, md, MethodGetSubject, idMessage(schema.subjectID, id), reply, func(err error) {
		if err != nil {
			cb(Subject{}, err)
			return
		}
		cb(decodeSubject(reply), nil)
	})
}

func (c *GRPCClient) ListQuestions(ctx context.Context, md metadata.MD, subjectID int64, cb Callback[[]Question]) {
	reply := newMessage(schema.questionList)
	c.invoke(ctx, md, MethodListQuestions, idMessage(schema.subjectID, subjectID), reply, func(err error) {
		if err != nil {
			cb(nil, err)
			return
		}
		cb(decodeQuestionList(reply), nil)
	})
}

func (c *GRPCClient) CreateQuestion(ctx context.Context, md metadata.MD, q NewQuestion, cb Callback[Question]) {
	reply := newMessage(schema.question)
	c.invoke(ctx, md, MethodCreateQuestion, encodeNewQuestion(q), reply, func(err error) {
		if err != nil {
			cb(Question{}, err)
			return
		}
		cb(decodeQuestion(reply), nil)
	})
}

func (c *GRPCClient) Like(ctx context.Context, md metadata.MD, id int64, cb Callback[struct{}]) {
	c.invoke(ctx, md, MethodLike, idMessage(schema.questionID, id), &emptypb.Empty{}, func(err error) {
		cb(struct{}{}, err)
	})
}

// invoke performs the RPC in its own goroutine and reports the result through done.
func (c *GRPCClient) invoke(ctx context.Context, md metadata.MD, method string, req, reply proto.Message, done func(error)) {
	if len(md) > 0 {
		existing, _ := metadata.FromOutgoingContext(ctx)
		ctx = metadata.NewOutgoingContext(ctx, metadata.Join(existing, md))
	}
	go func() {
		done(c.cc.Invoke(ctx, method, req, reply))
	}()
}

var _ Client = (*GRPCClient)(nil)
