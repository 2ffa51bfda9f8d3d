package service

import (
	"context"
	"fmt"
	"strings"

	"church_roster/internal/common"
	"church_roster/internal/domain/model"
	"church_roster/internal/domain/repository"
	"church_roster/internal/platform/metrics"

	"github.com/gosimple/slug"
)

type MemberService struct {
	memberRepo repository.MemberRepository
	metrics    *metrics.Metrics
}

func NewMemberService(memberRepo repository.MemberRepository, m *metrics.Metrics) *MemberService {
	return &MemberService{memberRepo: memberRepo, metrics: m}
}

type AddMemberRequest struct {
	FullName   string `json:"fullname"`
	Gender     string `json:"gender"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Residence  string `json:"residence"`
	Fellowship string `json:"fellowship"`
}

// ListMembers returns the roster newest first, optionally restricted to an
// exact fellowship label.
func (s *MemberService) ListMembers(ctx context.Context, fellowship *string, page model.Page) ([]model.Member, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return nil, common.NewBadRequestError("limit and offset must not be negative")
	}
	if page.Offset > 0 && page.Limit == 0 {
		return nil, common.NewBadRequestError("offset requires limit")
	}
	members, err := s.memberRepo.List(ctx, fellowship, page)
	if err != nil {
		return nil, common.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember records a new member on behalf of addedBy. Missing required
// fields return a validation error without touching the store.
func (s *MemberService) AddMember(ctx context.Context, addedBy string, req AddMemberRequest) (*model.Member, error) {
	fullName := strings.TrimSpace(req.FullName)
	gender := strings.TrimSpace(req.Gender)
	phone := strings.TrimSpace(req.Phone)
	if fullName == "" || gender == "" || phone == "" {
		return nil, common.NewValidationError("Please fill all required fields")
	}

	member := &model.Member{
		FullName:   fullName,
		Gender:     gender,
		Phone:      phone,
		Department: optional(req.Department),
		Residence:  optional(req.Residence),
		Fellowship: optional(req.Fellowship),
		AddedBy:    optional(addedBy),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, common.Errorf("failed to add member: %w", err)
	}
	s.metrics.MemberAdded()
	return member, nil
}

func (s *MemberService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		// common.ErrNotFound when no row matched
		return fmt.Errorf("failed to delete member %d: %w", id, err)
	}
	s.metrics.MemberDeleted()
	return nil
}

// Stats summarises the roster per fellowship for the public landing page.
func (s *MemberService) Stats(ctx context.Context) (*model.RosterStats, error) {
	total, counts, err := s.memberRepo.CountByFellowship(ctx)
	if err != nil {
		return nil, common.Errorf("failed to count members: %w", err)
	}
	for i := range counts {
		counts[i].Slug = slug.Make(counts[i].Name)
	}
	return &model.RosterStats{Total: total, Fellowships: counts}, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
