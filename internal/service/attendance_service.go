package service

import (
	"context"
	"errors"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceQuery is the raw filter from the list endpoint.
type AttendanceQuery struct {
	ScheduleID string
	MemberID   string
}

type AttendanceService interface {
	// Mark records the calling member's attendance. Repeated marks are kept.
	Mark(ctx context.Context, actor Actor, scheduleID primitive.ObjectID, attended *bool) (*domain.Attendance, error)
	List(ctx context.Context, query AttendanceQuery) ([]AttendanceDetails, error)
}

type attendanceService struct {
	repos    repository.Repositories
	populate populator
}

func NewAttendanceService(repos repository.Repositories) AttendanceService {
	return &attendanceService{repos: repos, populate: populator{repos: repos}}
}

func (s *attendanceService) Mark(ctx context.Context, actor Actor, scheduleID primitive.ObjectID, attended *bool) (*domain.Attendance, error) {
	if scheduleID.IsZero() {
		return nil, validationError("scheduleId is required")
	}
	if attended == nil {
		return nil, validationError("attended must be a boolean")
	}

	if _, err := s.repos.Schedules.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	member, err := memberOf(ctx, s.repos.Members, actor)
	if err != nil {
		return nil, err
	}

	record := &domain.Attendance{
		ScheduleID: scheduleID,
		MemberID:   member.ID,
		Attended:   *attended,
	}
	if _, err := s.repos.Attendance.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *attendanceService) List(ctx context.Context, query AttendanceQuery) ([]AttendanceDetails, error) {
	var filter domain.AttendanceFilter
	if query.ScheduleID != "" {
		id, err := ParseID(query.ScheduleID, "scheduleId")
		if err != nil {
			return nil, err
		}
		filter.ScheduleID = &id
	}
	if query.MemberID != "" {
		id, err := ParseID(query.MemberID, "memberId")
		if err != nil {
			return nil, err
		}
		filter.MemberID = &id
	}
	records, err := s.repos.Attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.populate.attendance(ctx, records)
}
