// ABOUTME: Domain types produced by the board backend
// ABOUTME: Subjects and questions are read-only values, never persisted by the gateway

package board

// Subject is a discussion topic questions are attached to.
type Subject struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
}

// Question is a question posted under a subject.
type Question struct {
	ID        int64  `json:"id"`
	SubjectID int64  `json:"subjectId"`
	Text      string `json:"text"`
	LikeCount int64  `json:"likeCount"`
}

// NewQuestion is the payload for creating a question.
type NewQuestion struct {
	Text      string `json:"text"`
	SubjectID int64  `json:"subjectId"`
}
