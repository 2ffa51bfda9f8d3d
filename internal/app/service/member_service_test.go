package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"church_roster/internal/common"
	"church_roster/internal/domain/model"
	"church_roster/internal/domain/repository"
	"church_roster/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingMemberRepo stands in for a broken store and counts calls.
type failingMemberRepo struct {
	calls int
}

var errStoreDown = errors.New("connection refused")

func (r *failingMemberRepo) Create(context.Context, *model.Member) error {
	r.calls++
	return errStoreDown
}

func (r *failingMemberRepo) FindByID(context.Context, int64) (*model.Member, error) {
	r.calls++
	return nil, errStoreDown
}

func (r *failingMemberRepo) List(context.Context, *string, model.Page) ([]model.Member, error) {
	r.calls++
	return nil, errStoreDown
}

func (r *failingMemberRepo) Delete(context.Context, int64) error {
	r.calls++
	return errStoreDown
}

func (r *failingMemberRepo) CountByFellowship(context.Context) (int, []model.FellowshipCount, error) {
	r.calls++
	return 0, nil, errStoreDown
}

func newMemberService(t *testing.T) *MemberService {
	t.Helper()
	return NewMemberService(repository.NewSQLMemberRepository(testutil.NewSQLiteDB(t), time.Second), nil)
}

func TestAddMemberThenListAll(t *testing.T) {
	svc := newMemberService(t)
	ctx := context.Background()

	_, err := svc.AddMember(ctx, "pastor", AddMemberRequest{FullName: "Ada", Gender: "F", Phone: "1"})
	require.NoError(t, err)

	added, err := svc.AddMember(ctx, "deacon", AddMemberRequest{
		FullName:   " Bola Ade ",
		Gender:     "M",
		Phone:      "0700",
		Department: "Ushering",
		Residence:  "Lagos",
		Fellowship: "Youth",
	})
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx, nil, model.Page{})
	require.NoError(t, err)
	require.Len(t, members, 2)

	newest := members[0]
	assert.Equal(t, added.ID, newest.ID)
	for _, m := range members[1:] {
		assert.Less(t, m.ID, newest.ID)
	}
	assert.Equal(t, "Bola Ade", newest.FullName)
	assert.Equal(t, "M", newest.Gender)
	assert.Equal(t, "0700", newest.Phone)
	assert.Equal(t, "Ushering", *newest.Department)
	assert.Equal(t, "Lagos", *newest.Residence)
	assert.Equal(t, "Youth", *newest.Fellowship)
	assert.Equal(t, "deacon", *newest.AddedBy)
}

func TestAddMemberMissingRequiredFieldsNeverReachesStore(t *testing.T) {
	repo := &failingMemberRepo{}
	svc := NewMemberService(repo, nil)

	tests := []struct {
		name string
		req  AddMemberRequest
	}{
		{"no fullname", AddMemberRequest{Gender: "F", Phone: "1"}},
		{"no gender", AddMemberRequest{FullName: "Ada", Phone: "1"}},
		{"no phone", AddMemberRequest{FullName: "Ada", Gender: "F"}},
		{"blank fullname", AddMemberRequest{FullName: "   ", Gender: "F", Phone: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := svc.AddMember(context.Background(), "pastor", tt.req)
			assert.Nil(t, member)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, "Please fill all required fields", common.PublicMessage(err))
		})
	}
	assert.Zero(t, repo.calls)
}

func TestAddMemberStoreFailure(t *testing.T) {
	svc := NewMemberService(&failingMemberRepo{}, nil)

	_, err := svc.AddMember(context.Background(), "pastor", AddMemberRequest{FullName: "Ada", Gender: "F", Phone: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 500, common.HTTPStatusFromError(err))
	assert.Equal(t, "Database error", common.PublicMessage(err))
}

func TestDeleteMember(t *testing.T) {
	svc := newMemberService(t)
	ctx := context.Background()

	m, err := svc.AddMember(ctx, "pastor", AddMemberRequest{FullName: "Ada", Gender: "F", Phone: "1"})
	require.NoError(t, err)

	err = svc.DeleteMember(ctx, m.ID+100)
	assert.ErrorIs(t, err, common.ErrNotFound)
	members, err := svc.ListMembers(ctx, nil, model.Page{})
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, svc.DeleteMember(ctx, m.ID))
	members, err = svc.ListMembers(ctx, nil, model.Page{})
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestListByFellowshipExactMatch(t *testing.T) {
	svc := newMemberService(t)
	ctx := context.Background()
	for _, f := range []string{"Youth", "Youth Choir", "youth", "Youth", "Men"} {
		_, err := svc.AddMember(ctx, "pastor", AddMemberRequest{FullName: "x", Gender: "F", Phone: "1", Fellowship: f})
		require.NoError(t, err)
	}

	fellowship := "Youth"
	members, err := svc.ListMembers(ctx, &fellowship, model.Page{})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Greater(t, members[0].ID, members[1].ID)
	for _, m := range members {
		assert.Equal(t, "Youth", *m.Fellowship)
	}
}

func TestListMembersPageValidation(t *testing.T) {
	repo := &failingMemberRepo{}
	svc := NewMemberService(repo, nil)

	_, err := svc.ListMembers(context.Background(), nil, model.Page{Offset: 5})
	assert.ErrorIs(t, err, common.ErrBadRequest)
	_, err = svc.ListMembers(context.Background(), nil, model.Page{Limit: -1})
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Zero(t, repo.calls)
}

func TestStatsAddsSlugs(t *testing.T) {
	svc := newMemberService(t)
	ctx := context.Background()
	for _, f := range []string{"Youth Ministry", "Youth Ministry", "Choir Team", ""} {
		_, err := svc.AddMember(ctx, "pastor", AddMemberRequest{FullName: "x", Gender: "F", Phone: "1", Fellowship: f})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	require.Len(t, stats.Fellowships, 2)
	assert.Equal(t, "Choir Team", stats.Fellowships[0].Name)
	assert.Equal(t, "choir-team", stats.Fellowships[0].Slug)
	assert.Equal(t, model.FellowshipCount{Name: "Youth Ministry", Slug: "youth-ministry", Count: 2}, stats.Fellowships[1])
}
