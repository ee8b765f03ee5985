package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpexchange/model"
	"helpexchange/store"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     store.Expr
	}{
		{
			name: "feed by location",
			criteria: Criteria{
				Location:    &Location{Zipcode: "10001", Country: "US"},
				StatusGroup: GroupOpen,
			},
			want: store.And{
				store.Eq{Field: model.TaskFieldStatus, Value: "OPEN"},
				store.Eq{Field: model.TaskFieldZipcode, Value: "10001"},
				store.Eq{Field: model.TaskFieldCountry, Value: "US"},
			},
		},
		{
			name: "owner completed with category",
			criteria: Criteria{
				Role:        &RoleFilter{Role: RoleOwner, ID: "u1"},
				StatusGroup: GroupCompleted,
				Category:    "garden",
			},
			want: store.And{
				store.Eq{Field: model.TaskFieldOwner, Value: "u1"},
				store.Or{
					store.Eq{Field: model.TaskFieldStatus, Value: "COMPLETE"},
					store.Eq{Field: model.TaskFieldStatus, Value: "COMPLETE_AWAIT_VERIFICATION"},
				},
				store.Eq{Field: model.TaskFieldCategory, Value: "garden"},
			},
		},
		{
			name: "helper active",
			criteria: Criteria{
				Role:        &RoleFilter{Role: RoleHelper, ID: "u2"},
				StatusGroup: GroupActive,
			},
			want: store.And{
				store.Eq{Field: model.TaskFieldHelper, Value: "u2"},
				store.Or{
					store.Eq{Field: model.TaskFieldStatus, Value: "OPEN"},
					store.Eq{Field: model.TaskFieldStatus, Value: "IN_PROGRESS"},
				},
			},
		},
		{
			name:     "no criteria",
			criteria: Criteria{},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := BuildQuery(tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Filter)
			assert.Equal(t, store.Sort{Field: model.TaskFieldTimestamp, Desc: true}, q.Sort)
			assert.Empty(t, q.Cursor)
			assert.Zero(t, q.Limit)
		})
	}
}

func TestBuildQuery_InvalidCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
	}{
		{"missing zipcode", Criteria{Location: &Location{Country: "US"}}},
		{"missing country", Criteria{Location: &Location{Zipcode: "10001"}}},
		{"role without id", Criteria{Role: &RoleFilter{Role: RoleOwner}}},
		{"unknown role", Criteria{Role: &RoleFilter{Role: "ADMIN", ID: "u1"}}},
		{"unknown group", Criteria{StatusGroup: "LATER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQuery(tt.criteria)
			assert.ErrorIs(t, err, ErrInvalidCriteria)
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("owner")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, r)

	r, err = ParseRole(" Helper ")
	require.NoError(t, err)
	assert.Equal(t, RoleHelper, r)

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}
