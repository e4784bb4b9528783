package domain

import "time"

// Activity is a graded task posted under a subject. Activities are
// managed elsewhere; this backend only touches them when a subject is
// permanently deleted.
type Activity struct {
	ID        string    `json:"id" bson:"_id"`
	SubjectID string    `json:"subject" bson:"subject"`
	Title     string    `json:"title" bson:"title"`
	DueDate   time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Grade is a student's score for an activity within a subject, deleted
// in cascade with the subject.
type Grade struct {
	ID         string    `json:"id" bson:"_id"`
	SubjectID  string    `json:"subject" bson:"subject"`
	StudentID  string    `json:"student" bson:"student"`
	ActivityID string    `json:"activity,omitempty" bson:"activity,omitempty"`
	Score      float64   `json:"score" bson:"score"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
