package service

import (
	"time"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
)

// ── model → dto 转换（多个 Service 共用）──

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.UserID,
		Name:           user.Name,
		Email:          user.Email,
		StudentID:      user.StudentID,
		Role:           user.Role,
		Program:        user.Program,
		EnrollmentYear: user.EnrollmentYear,
	}
}

func toUserDetailResponse(user *model.User) *dto.UserDetailResponse {
	return &dto.UserDetailResponse{
		UserResponse: toUserResponse(user),
		CreatedAt:    user.CreatedAt.Format(dateTimeLayout),
	}
}

func toActivityResponse(a *model.Activity) dto.ActivityResponse {
	resp := dto.ActivityResponse{
		ID:              a.ActivityID,
		Title:           a.Title,
		Description:     a.Description,
		StartDate:       a.StartDate.Format(dateTimeLayout),
		EndDate:         a.EndDate.Format(dateTimeLayout),
		HoursAwarded:    a.HoursAwarded,
		PublicSlug:      a.PublicSlug,
		Status:          a.Status,
		AcademicYear:    a.AcademicYear,
		AcademicYearID:  a.AcademicYearID,
		Location:        a.Location,
		MaxParticipants: a.MaxParticipants,
		CreatedBy:       a.CreatedBy,
	}
	if a.RescheduledDate != nil {
		s := a.RescheduledDate.Format(dateTimeLayout)
		resp.RescheduledDate = &s
	}
	return resp
}

func toHistoryItem(h *model.SerialHistory) dto.HistoryItem {
	item := dto.HistoryItem{
		ID:          h.SerialHistoryID,
		SerialID:    h.SerialID,
		ActivityID:  h.ActivityID,
		HoursEarned: h.HoursEarned,
		IsReviewed:  h.IsReviewed,
		RedeemedAt:  h.RedeemedAt.Format(dateTimeLayout),
	}
	if h.Serial != nil {
		item.Code = h.Serial.Code
		item.SerialStatus = h.Serial.Status
	}
	if h.Activity != nil {
		item.ActivityTitle = h.Activity.Title
		item.ActivityDescription = h.Activity.Description
		item.StartDate = h.Activity.StartDate.Format(dateTimeLayout)
		item.EndDate = h.Activity.EndDate.Format(dateTimeLayout)
		item.AcademicYear = h.Activity.AcademicYear
		item.HoursAwarded = h.Activity.HoursAwarded
	}
	return item
}

func toSerialResponse(s *model.Serial) dto.SerialResponse {
	resp := dto.SerialResponse{
		ID:         s.SerialID,
		Code:       s.Code,
		Status:     s.Status,
		ActivityID: s.ActivityID,
		UserID:     s.UserID,
	}
	if s.RedeemedAt != nil {
		t := s.RedeemedAt.Format(dateTimeLayout)
		resp.RedeemedAt = &t
	}
	return resp
}
