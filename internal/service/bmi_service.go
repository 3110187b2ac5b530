package service

import (
	"context"
	"errors"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BMIResult is the body metrics stored on a member.
type BMIResult struct {
	MemberID primitive.ObjectID
	Height   float64
	Weight   float64
	BMI      float64
	Category domain.BMICategory
}

type BMIService interface {
	// Calculate computes and stores BMI for memberID, or for the caller's
	// own member record when memberID is nil. Nothing is stored on invalid input.
	Calculate(ctx context.Context, actor Actor, memberID *primitive.ObjectID, heightCm, weightKg float64) (*BMIResult, error)
	// Get accepts a member id or the id of the member's user.
	Get(ctx context.Context, id primitive.ObjectID) (*BMIResult, error)
}

type bmiService struct {
	members repository.MemberRepository
}

func NewBMIService(members repository.MemberRepository) BMIService {
	return &bmiService{members: members}
}

func (s *bmiService) Calculate(ctx context.Context, actor Actor, memberID *primitive.ObjectID, heightCm, weightKg float64) (*BMIResult, error) {
	metrics, err := domain.ComputeBMI(heightCm, weightKg)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	var member *domain.Member
	if memberID != nil {
		member, err = resolveMember(ctx, s.members, *memberID)
	} else {
		member, err = memberOf(ctx, s.members, actor)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.members.UpdateBodyMetrics(ctx, member.ID, metrics)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &BMIResult{
		MemberID: updated.ID,
		Height:   metrics.Height,
		Weight:   metrics.Weight,
		BMI:      metrics.BMI,
		Category: metrics.Category,
	}, nil
}

func (s *bmiService) Get(ctx context.Context, id primitive.ObjectID) (*BMIResult, error) {
	member, err := resolveMember(ctx, s.members, id)
	if err != nil {
		return nil, err
	}
	result := &BMIResult{MemberID: member.ID, Category: domain.BMICategory(member.BMICategory)}
	if member.Height != nil {
		result.Height = *member.Height
	}
	if member.Weight != nil {
		result.Weight = *member.Weight
	}
	if member.BMI != nil {
		result.BMI = *member.BMI
	}
	return result, nil
}
