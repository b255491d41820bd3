package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReview_IsPublic(t *testing.T) {
	tests := []struct {
		name             string
		allowPublication bool
		isApproved       bool
		isActive         bool
		want             bool
	}{
		{"all flags set", true, true, true, true},
		{"no consent", false, true, true, false},
		{"not approved", true, false, true, false},
		{"disabled", true, true, false, false},
		{"none set", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := &Review{
				AllowPublication: tt.allowPublication,
				IsApproved:       tt.isApproved,
				IsActive:         tt.isActive,
			}
			assert.Equal(t, tt.want, review.IsPublic())
		})
	}
}

func TestSubmitReviewRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request SubmitReviewRequest
		wantErr error
	}{
		{
			name:    "valid",
			request: SubmitReviewRequest{Rating: 5, Comment: "spotless"},
		},
		{
			name:    "minimum rating",
			request: SubmitReviewRequest{Rating: 1},
		},
		{
			name:    "rating too high",
			request: SubmitReviewRequest{Rating: 6},
			wantErr: ErrInvalidRating,
		},
		{
			name:    "rating too low",
			request: SubmitReviewRequest{Rating: 0},
			wantErr: ErrInvalidRating,
		},
		{
			name:    "comment at the bound",
			request: SubmitReviewRequest{Rating: 4, Comment: strings.Repeat("a", MaxReviewCommentLength)},
		},
		{
			name:    "comment over the bound",
			request: SubmitReviewRequest{Rating: 4, Comment: strings.Repeat("a", MaxReviewCommentLength+1)},
			wantErr: ErrCommentTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModerateReviewRequest_Validate(t *testing.T) {
	approved := true

	assert.ErrorIs(t, (&ModerateReviewRequest{}).Validate(), ErrNothingToUpdate)
	assert.NoError(t, (&ModerateReviewRequest{IsApproved: &approved}).Validate())
	assert.NoError(t, (&ModerateReviewRequest{IsActive: &approved}).Validate())
}
