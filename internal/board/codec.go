// ABOUTME: Conversions between board domain types and dynamic protobuf messages
// ABOUTME: Shared by the callback client and the server registration

package board

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

func newMessage(md protoreflect.MessageDescriptor) *dynamicpb.Message {
	return dynamicpb.NewMessage(md)
}

func fieldOf(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(name)
}

func getInt(m protoreflect.Message, name protoreflect.Name) int64 {
	return m.Get(fieldOf(m, name)).Int()
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(fieldOf(m, name)).String()
}

func getBool(m protoreflect.Message, name protoreflect.Name) bool {
	return m.Get(fieldOf(m, name)).Bool()
}

func setInt(m protoreflect.Message, name protoreflect.Name, v int64) {
	m.Set(fieldOf(m, name), protoreflect.ValueOfInt64(v))
}

func setString(m protoreflect.Message, name protoreflect.Name, v string) {
	m.Set(fieldOf(m, name), protoreflect.ValueOfString(v))
}

func setBool(m protoreflect.Message, name protoreflect.Name, v bool) {
	m.Set(fieldOf(m, name), protoreflect.ValueOfBool(v))
}

// idMessage encodes SubjectId or QuestionId.
func idMessage(md protoreflect.MessageDescriptor, id int64) *dynamicpb.Message {
	m := newMessage(md)
	setInt(m, "id", id)
	return m
}

func encodeSubject(m protoreflect.Message, s Subject) {
	setInt(m, "id", s.ID)
	setString(m, "title", s.Title)
	setBool(m, "enabled", s.Enabled)
}

func decodeSubject(m protoreflect.Message) Subject {
	return Subject{
		ID:      getInt(m, "id"),
		Title:   getString(m, "title"),
		Enabled: getBool(m, "enabled"),
	}
}

func encodeQuestion(m protoreflect.Message, q Question) {
	setInt(m, "id", q.ID)
	setString(m, "question", q.Text)
	setInt(m, "likes_count", q.LikeCount)
	setInt(m, "subject_id", q.SubjectID)
}

func decodeQuestion(m protoreflect.Message) Question {
	return Question{
		ID:        getInt(m, "id"),
		SubjectID: getInt(m, "subject_id"),
		Text:      getString(m, "question"),
		LikeCount: getInt(m, "likes_count"),
	}
}

func encodeNewQuestion(q NewQuestion) *dynamicpb.Message {
	m := newMessage(schema.newQuestion)
	setString(m, "question", q.Text)
	setInt(m, "subject_id", q.SubjectID)
	return m
}

func decodeNewQuestion(m protoreflect.Message) NewQuestion {
	return NewQuestion{
		Text:      getString(m, "question"),
		SubjectID: getInt(m, "subject_id"),
	}
}

func encodeSubjectList(subjects []Subject) *dynamicpb.Message {
	m := newMessage(schema.subjectList)
	list := m.Mutable(fieldOf(m, "subject_list")).List()
	for _, s := range subjects {
		elem := list.NewElement()
		encodeSubject(elem.Message(), s)
		list.Append(elem)
	}
	return m
}

// decodeSubjectList preserves backend order. An empty list decodes to an empty slice.
func decodeSubjectList(m protoreflect.Message) []Subject {
	list := m.Get(fieldOf(m, "subject_list")).List()
	out := make([]Subject, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, decodeSubject(list.Get(i).Message()))
	}
	return out
}

func encodeQuestionList(questions []Question) *dynamicpb.Message {
	m := newMessage(schema.questionList)
	list := m.Mutable(fieldOf(m, "question_list")).List()
	for _, q := range questions {
		elem := list.NewElement()
		encodeQuestion(elem.Message(), q)
		list.Append(elem)
	}
	return m
}

func decodeQuestionList(m protoreflect.Message) []Question {
	list := m.Get(fieldOf(m, "question_list")).List()
	out := make([]Question, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, decodeQuestion(list.Get(i).Message()))
	}
	return out
}
