// Package board implements the wire contract of the board.Board backend service.
//
// # Overview
//
// The backend exposes five unary procedures:
//
//	/board.Board/ListSubjects    Empty       -> SubjectList
//	/board.Board/GetSubject      SubjectId   -> Subject
//	/board.Board/ListQuestions   SubjectId   -> QuestionList
//	/board.Board/CreateQuestion  NewQuestion -> Question
//	/board.Board/Like            QuestionId  -> Empty
//
// The message descriptors are assembled at init from descriptor protos and
// encoded with dynamicpb, so the package needs no generated code while staying
// wire compatible with servers built from board.proto.
//
// # Client
//
// Client follows a completion-callback contract: every method returns at once
// and invokes its callback exactly once when the remote call finishes. GRPCClient
// is the production implementation; tests substitute their own.
//
// # Server
//
// RegisterServer exposes any Server on a grpc.Server. MemoryServer is a small
// in-memory backend used by cmd/fake-board and end-to-end tests.
package board
