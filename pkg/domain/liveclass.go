package domain

import (
	"fmt"
	"time"
)

// LiveClassStatus is the schedule state of a live class.
type LiveClassStatus string

const (
	LiveScheduled LiveClassStatus = "SCHEDULED"
	LiveNow       LiveClassStatus = "LIVE"
	LiveCompleted LiveClassStatus = "COMPLETED"
	LiveCancelled LiveClassStatus = "CANCELLED"
)

// VideoPlatform hosts a live class.
type VideoPlatform string

const (
	PlatformZoom       VideoPlatform = "ZOOM"
	PlatformGoogleMeet VideoPlatform = "GOOGLE_MEET"
	PlatformTeams      VideoPlatform = "MICROSOFT_TEAMS"
	PlatformCustom     VideoPlatform = "CUSTOM"
)

// LiveClass is a scheduled synchronous session of a course.
type LiveClass struct {
	ID              int64           `json:"id"`
	CourseID        int64           `json:"courseId,omitempty"`
	CourseName      string          `json:"courseName,omitempty"`
	TeacherName     string          `json:"teacherName,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	ScheduledDate   Time            `json:"scheduledDate,omitzero"`
	StartTime       string          `json:"startTime"` // HH:mm
	Duration        int             `json:"duration"`  // minutes
	Platform        VideoPlatform   `json:"platform"`
	MeetingURL      string          `json:"meetingUrl,omitempty"`
	MeetingPassword string          `json:"meetingPassword,omitempty"`
	Status          LiveClassStatus `json:"status"`
	RecordingURL    string          `json:"recordingUrl,omitempty"`
	Attendees       int             `json:"attendees"`
	MaxAttendees    int             `json:"maxAttendees,omitempty"`
	CreatedAt       Time            `json:"createdAt,omitzero"`
	UpdatedAt       Time            `json:"updatedAt,omitzero"`
}

// StartsAt combines the scheduled date with the HH:mm start time in loc.
func (l LiveClass) StartsAt(loc *time.Location) (time.Time, error) {
	if l.ScheduledDate.IsZero() {
		return time.Time{}, fmt.Errorf("domain.LiveClass.StartsAt: no scheduled date")
	}
	clock, err := time.Parse("15:04", l.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("domain.LiveClass.StartsAt: %w", err)
	}
	d := l.ScheduledDate.Time
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// CreateLiveClassRequest schedules a new live class.
type CreateLiveClassRequest struct {
	CourseID        int64         `json:"courseId" validate:"required,gt=0"`
	Title           string        `json:"title" validate:"required,max=200"`
	Description     string        `json:"description,omitempty"`
	ScheduledDate   string        `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	StartTime       string        `json:"startTime" validate:"required,datetime=15:04"`
	Duration        int           `json:"duration" validate:"required,min=1,max=600"`
	Platform        VideoPlatform `json:"platform" validate:"required,oneof=ZOOM GOOGLE_MEET MICROSOFT_TEAMS CUSTOM"`
	MeetingURL      string        `json:"meetingUrl" validate:"required,url"`
	MeetingPassword string        `json:"meetingPassword,omitempty"`
	MaxAttendees    int           `json:"maxAttendees,omitempty" validate:"gte=0"`
}

// UpdateLiveClassRequest edits a scheduled live class. Empty fields are not sent.
type UpdateLiveClassRequest struct {
	Title           string          `json:"title,omitempty" validate:"max=200"`
	Description     string          `json:"description,omitempty"`
	ScheduledDate   string          `json:"scheduledDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime       string          `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	Duration        int             `json:"duration,omitempty" validate:"omitempty,min=1,max=600"`
	MeetingURL      string          `json:"meetingUrl,omitempty" validate:"omitempty,url"`
	MeetingPassword string          `json:"meetingPassword,omitempty"`
	Status          LiveClassStatus `json:"status,omitempty" validate:"omitempty,oneof=SCHEDULED LIVE COMPLETED CANCELLED"`
	RecordingURL    string          `json:"recordingUrl,omitempty" validate:"omitempty,url"`
}
