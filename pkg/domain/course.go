package domain

import (
	"encoding/json"
	"fmt"
)

// CourseCategory groups courses in the catalog.
type CourseCategory string

const (
	CategoryProgramming         CourseCategory = "PROGRAMMING"
	CategoryDesign              CourseCategory = "DESIGN"
	CategoryBusiness            CourseCategory = "BUSINESS"
	CategoryMarketing           CourseCategory = "MARKETING"
	CategoryLanguages           CourseCategory = "LANGUAGES"
	CategoryDataScience         CourseCategory = "DATA_SCIENCE"
	CategoryPersonalDevelopment CourseCategory = "PERSONAL_DEVELOPMENT"
	CategoryPhotography         CourseCategory = "PHOTOGRAPHY"
	CategoryMusic               CourseCategory = "MUSIC"
	CategoryOther               CourseCategory = "OTHER"
)

// Categories is the catalog cycle order.
var Categories = []CourseCategory{
	CategoryProgramming,
	CategoryDesign,
	CategoryBusiness,
	CategoryMarketing,
	CategoryLanguages,
	CategoryDataScience,
	CategoryPersonalDevelopment,
	CategoryPhotography,
	CategoryMusic,
	CategoryOther,
}

// ValidCategory returns true if c is a known category.
func ValidCategory(c CourseCategory) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CourseLevel is the difficulty of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
	LevelAllLevels    CourseLevel = "ALL_LEVELS"
)

// CourseStatus tracks a course through moderation.
type CourseStatus string

const (
	StatusDraft     CourseStatus = "DRAFT"
	StatusPending   CourseStatus = "PENDING"
	StatusPublished CourseStatus = "PUBLISHED"
	StatusRejected  CourseStatus = "REJECTED"
	StatusArchived  CourseStatus = "ARCHIVED"
)

// SortOption orders catalog results.
type SortOption string

const (
	SortMostPopular  SortOption = "MOST_POPULAR"
	SortHighestRated SortOption = "HIGHEST_RATED"
	SortNewest       SortOption = "NEWEST"
	SortPriceLowHigh SortOption = "PRICE_LOW_TO_HIGH"
	SortPriceHighLow SortOption = "PRICE_HIGH_TO_LOW"
)

// Course is a catalog entry.
type Course struct {
	ID                 int64          `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	ShortDescription   string         `json:"shortDescription,omitempty"`
	TeacherID          int64          `json:"teacherId,omitempty"`
	TeacherName        string         `json:"teacherName,omitempty"`
	TeacherAvatar      string         `json:"teacherAvatar,omitempty"`
	Category           CourseCategory `json:"category"`
	Level              CourseLevel    `json:"level"`
	Language           string         `json:"language,omitempty"`
	Price              float64        `json:"price"`
	Currency           string         `json:"currency,omitempty"`
	Thumbnail          string         `json:"thumbnail,omitempty"`
	LearningObjectives []string       `json:"learningObjectives,omitempty"`
	Requirements       []string       `json:"requirements,omitempty"`
	EnrolledStudents   int            `json:"enrolledStudents"`
	Rating             float64        `json:"rating"`
	TotalReviews       int            `json:"totalReviews"`
	TotalDuration      int            `json:"totalDuration,omitempty"` // minutes
	Status             CourseStatus   `json:"status"`
	HasCertificate     bool           `json:"hasCertificate"`
	HasLiveClasses     bool           `json:"hasLiveClasses"`
	Tags               []string       `json:"tags,omitempty"`
	Sections           []Section      `json:"sections,omitempty"`
	CreatedAt          Time           `json:"createdAt,omitzero"`
	UpdatedAt          Time           `json:"updatedAt,omitzero"`
}

// IsFree reports whether the course costs nothing.
func (c Course) IsFree() bool {
	return c.Price <= 0
}

// LessonCount counts lessons across all sections.
func (c Course) LessonCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Lessons)
	}
	return n
}

// Section is one module of a course syllabus.
type Section struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Order       int      `json:"order"`
	Lessons     []Lesson `json:"lessons,omitempty"`
}

// LessonType is the kind of content a lesson holds.
type LessonType string

const (
	LessonVideo      LessonType = "VIDEO"
	LessonText       LessonType = "TEXT"
	LessonQuiz       LessonType = "QUIZ"
	LessonAssignment LessonType = "ASSIGNMENT"
	LessonLiveClass  LessonType = "LIVE_CLASS"
)

// Lesson is a single unit inside a section.
type Lesson struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Order     int              `json:"order"`
	Type      LessonType       `json:"type"`
	Content   string           `json:"content,omitempty"`
	VideoURL  string           `json:"videoUrl,omitempty"`
	Duration  int              `json:"duration"` // minutes
	Preview   bool             `json:"isPreview"`
	Resources []LessonResource `json:"resources,omitempty"`
}

// LessonResource is downloadable lesson material.
type LessonResource struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	Size  int64  `json:"size,omitempty"` // KB
}

// CoursePage is one page of catalog results.
type CoursePage struct {
	Courses    []Course `json:"courses"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}

// UnmarshalJSON accepts either the paginated envelope or a bare course array,
// which is what the backend's public listing returns.
func (p *CoursePage) UnmarshalJSON(b []byte) error {
	var list []Course
	if err := json.Unmarshal(b, &list); err == nil {
		*p = CoursePage{Courses: list, Total: len(list), Page: 1, PageSize: len(list), TotalPages: 1}
		return nil
	}
	type envelope CoursePage
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("domain.CoursePage: %w", err)
	}
	*p = CoursePage(env)
	return nil
}

// CourseFilters narrows the catalog listing. Zero values are omitted from the query.
type CourseFilters struct {
	Category       CourseCategory
	Level          CourseLevel
	MinPrice       *float64
	MaxPrice       *float64
	MinRating      float64
	Language       string
	HasLiveClasses *bool
	Search         string
	SortBy         SortOption
	Page           int
	PageSize       int
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title              string         `json:"title" validate:"required,max=200"`
	Description        string         `json:"description" validate:"required"`
	ShortDescription   string         `json:"shortDescription,omitempty"`
	Category           CourseCategory `json:"category" validate:"required,course_category"`
	Level              CourseLevel    `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED ALL_LEVELS"`
	Language           string         `json:"language,omitempty"`
	Price              float64        `json:"price" validate:"gte=0"`
	Currency           string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	Thumbnail          string         `json:"thumbnail,omitempty" validate:"omitempty,url"`
	LearningObjectives []string       `json:"learningObjectives,omitempty"`
	Requirements       []string       `json:"requirements,omitempty"`
	HasCertificate     bool           `json:"hasCertificate"`
	HasLiveClasses     bool           `json:"hasLiveClasses"`
	Tags               []string       `json:"tags,omitempty"`
	Sections           []SectionDraft `json:"sections,omitempty" validate:"dive"`
	Status             CourseStatus   `json:"status,omitempty"`
}

// SectionDraft is a syllabus section inside a create/update payload.
type SectionDraft struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description,omitempty"`
	Order       int           `json:"order"`
	Lessons     []LessonDraft `json:"lessons,omitempty" validate:"dive"`
}

// LessonDraft is a lesson inside a SectionDraft.
type LessonDraft struct {
	Title    string     `json:"title" validate:"required"`
	Order    int        `json:"order"`
	Type     LessonType `json:"type" validate:"required"`
	Content  string     `json:"content,omitempty"`
	VideoURL string     `json:"videoUrl,omitempty" validate:"omitempty,url"`
	Duration int        `json:"duration" validate:"gte=0"`
	Preview  bool       `json:"isPreview"`
}

// UpdateCourseRequest carries the course fields to change. Nil fields are not sent.
type UpdateCourseRequest struct {
	Title              *string         `json:"title,omitempty"`
	Description        *string         `json:"description,omitempty"`
	ShortDescription   *string         `json:"shortDescription,omitempty"`
	Category           *CourseCategory `json:"category,omitempty"`
	Level              *CourseLevel    `json:"level,omitempty"`
	Price              *float64        `json:"price,omitempty" validate:"omitempty,gte=0"`
	Thumbnail          *string         `json:"thumbnail,omitempty"`
	LearningObjectives []string        `json:"learningObjectives,omitempty"`
	Requirements       []string        `json:"requirements,omitempty"`
	Tags               []string        `json:"tags,omitempty"`
	Sections           []SectionDraft  `json:"sections,omitempty" validate:"dive"`
}

// CourseProgress is a student's completion state in one course.
type CourseProgress struct {
	CourseID          int64   `json:"courseId"`
	StudentID         int64   `json:"studentId"`
	CompletedLessons  []int64 `json:"completedLessons"`
	ProgressPercent   float64 `json:"progressPercentage"`
	LastAccessedAt    Time    `json:"lastAccessedAt,omitzero"`
	CertificateEarned bool    `json:"certificateEarned"`
	CertificateURL    string  `json:"certificateUrl,omitempty"`
}
