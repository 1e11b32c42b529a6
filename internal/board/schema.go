// ABOUTME: Wire schema of the board.Board backend service built from descriptor protos
// ABOUTME: Exposes method names and message descriptors used by the client and server codecs

package board

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	_ "google.golang.org/protobuf/types/known/emptypb" // registers google/protobuf/empty.proto
)

// ServiceName is the fully qualified backend service name.
const ServiceName = "board.Board"

// Full method names of the backend procedures.
const (
	MethodListSubjects   = "/board.Board/ListSubjects"
	MethodGetSubject     = "/board.Board/GetSubject"
	MethodListQuestions  = "/board.Board/ListQuestions"
	MethodCreateQuestion = "/board.Board/CreateQuestion"
	MethodLike           = "/board.Board/Like"
)

// wireSchema holds the resolved message descriptors.
type wireSchema struct {
	file         protoreflect.FileDescriptor
	subject      protoreflect.MessageDescriptor
	subjectID    protoreflect.MessageDescriptor
	subjectList  protoreflect.MessageDescriptor
	question     protoreflect.MessageDescriptor
	questionID   protoreflect.MessageDescriptor
	questionList protoreflect.MessageDescriptor
	newQuestion  protoreflect.MessageDescriptor
}

var schema = mustBuildSchema()

// FileDescriptor returns the descriptor of board.proto, e.g. for reflection services.
func FileDescriptor() protoreflect.FileDescriptor {
	return schema.file
}

func mustBuildSchema() *wireSchema {
	s, err := buildSchema()
	if err != nil {
		panic(fmt.Sprintf("board: building wire schema: %v", err))
	}
	return s
}

func buildSchema() (*wireSchema, error) {
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String("board/board.proto"),
		Package:    proto.String("board"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/empty.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			message("Subject",
				field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				field("title", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				field("enabled", 3, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			),
			message("SubjectId",
				field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			message("SubjectList",
				repeated("subject_list", 1, ".board.Subject"),
			),
			message("Question",
				field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				field("question", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				field("likes_count", 3, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				field("subject_id", 4, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			message("QuestionId",
				field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			message("QuestionList",
				repeated("question_list", 1, ".board.Question"),
			),
			message("NewQuestion",
				field("question", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				field("subject_id", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Board"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("ListSubjects", ".google.protobuf.Empty", ".board.SubjectList"),
				method("GetSubject", ".board.SubjectId", ".board.Subject"),
				method("ListQuestions", ".board.SubjectId", ".board.QuestionList"),
				method("CreateQuestion", ".board.NewQuestion", ".board.Question"),
				method("Like", ".board.QuestionId", ".google.protobuf.Empty"),
			},
		}},
	}

	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		return nil, err
	}

	msgs := fd.Messages()
	return &wireSchema{
		file:         fd,
		subject:      msgs.ByName("Subject"),
		subjectID:    msgs.ByName("SubjectId"),
		subjectList:  msgs.ByName("SubjectList"),
		question:     msgs.ByName("Question"),
		questionID:   msgs.ByName("QuestionId"),
		questionList: msgs.ByName("QuestionList"),
		newQuestion:  msgs.ByName("NewQuestion"),
	}, nil
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func repeated(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(typeName),
	}
}

func method(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(input),
		OutputType: proto.String(output),
	}
}
