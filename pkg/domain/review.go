package domain

// Review is a student's rating of a course.
type Review struct {
	ID                int64  `json:"id"`
	CourseID          int64  `json:"courseId,omitempty"`
	CourseName        string `json:"courseName,omitempty"`
	StudentID         int64  `json:"studentId,omitempty"`
	StudentName       string `json:"studentName,omitempty"`
	StudentAvatar     string `json:"studentAvatar,omitempty"`
	Rating            int    `json:"rating"`
	Comment           string `json:"comment,omitempty"`
	VerifiedPurchase  bool   `json:"isVerifiedPurchase"`
	TeacherResponse   string `json:"teacherResponse,omitempty"`
	TeacherResponseAt Time   `json:"teacherResponseAt,omitzero"`
	HelpfulCount      int    `json:"helpfulCount"`
	ReportedCount     int    `json:"reportedCount"`
	CreatedAt         Time   `json:"createdAt,omitzero"`
}

// Stars renders the rating as filled and empty stars.
func (r Review) Stars() string {
	n := r.Rating
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	s := ""
	for i := 0; i < 5; i++ {
		if i < n {
			s += "★"
		} else {
			s += "☆"
		}
	}
	return s
}

// CreateReviewRequest is the payload for reviewing a course.
type CreateReviewRequest struct {
	CourseID int64  `json:"courseId" validate:"required,gt=0"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment,omitempty" validate:"max=2000"`
}

// UpdateReviewRequest edits an existing review.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// ReplyReviewRequest is a teacher's public answer to a review.
type ReplyReviewRequest struct {
	Response string `json:"response" validate:"required,max=2000"`
}
