// ABOUTME: In-memory board backend used by the fake-board binary and end-to-end tests
// ABOUTME: Keeps subjects in insertion order and sorts questions by likes then text

package board

import (
	"context"
	"sort"
	"strings"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MemoryServer is a Server holding all state in memory.
type MemoryServer struct {
	mu        sync.Mutex
	subjects  []Subject
	questions []Question
	nextID    int64
}

// NewMemoryServer creates a backend seeded with the given subjects.
func NewMemoryServer(subjects ...Subject) *MemoryServer {
	s := &MemoryServer{nextID: 1}
	s.subjects = append(s.subjects, subjects...)
	return s
}

func (s *MemoryServer) ListSubjects(ctx context.Context) ([]Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Subject, len(s.subjects))
	copy(out, s.subjects)
	return out, nil
}

func (s *MemoryServer) GetSubject(ctx context.Context, id int64) (Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subject, ok := s.subject(id)
	if !ok {
		return Subject{}, status.Errorf(codes.NotFound, "subject %d not found", id)
	}
	return subject, nil
}

// ListQuestions returns the questions of a subject, most liked first.
// An unknown subject yields an empty list.
func (s *MemoryServer) ListQuestions(ctx context.Context, subjectID int64) ([]Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Question{}
	for _, q := range s.questions {
		if q.SubjectID == subjectID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LikeCount != out[j].LikeCount {
			return out[i].LikeCount > out[j].LikeCount
		}
		return out[i].Text < out[j].Text
	})
	return out, nil
}

func (s *MemoryServer) CreateQuestion(ctx context.Context, nq NewQuestion) (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subject, ok := s.subject(nq.SubjectID)
	if !ok {
		return Question{}, status.Errorf(codes.NotFound, "subject %d not found", nq.SubjectID)
	}
	if !subject.Enabled {
		return Question{}, status.Errorf(codes.FailedPrecondition, "subject %d is disabled", nq.SubjectID)
	}
	if strings.TrimSpace(nq.Text) == "" {
		return Question{}, status.Error(codes.InvalidArgument, "question text is empty")
	}

	q := Question{
		ID:        s.nextID,
		SubjectID: nq.SubjectID,
		Text:      nq.Text,
	}
	s.nextID++
	s.questions = append(s.questions, q)
	return q, nil
}

func (s *MemoryServer) Like(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions[i].LikeCount++
			return nil
		}
	}
	return status.Errorf(codes.NotFound, "question %d not found", id)
}

// subject must be called with mu held.
func (s *MemoryServer) subject(id int64) (Subject, bool) {
	for _, subj := range s.subjects {
		if subj.ID == id {
			return subj, true
		}
	}
	return Subject{}, false
}

var _ Server = (*MemoryServer)(nil)
