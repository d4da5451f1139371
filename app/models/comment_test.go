package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name:    "valid comment",
			comment: &Comment{PostID: 1, Comment: "nice", Rate: 5},
			wantErr: false,
		},
		{
			name:    "empty text",
			comment: &Comment{PostID: 1, Rate: 5},
			wantErr: true,
		},
		{
			name:    "missing post",
			comment: &Comment{Comment: "nice", Rate: 5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentBeforeCreate(t *testing.T) {
	comment := &Comment{PostID: 1, Comment: "Test Comment"}

	assert.True(t, comment.CreatedAt.IsZero())
	comment.BeforeCreate()
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestCommentSetPost(t *testing.T) {
	comment := &Comment{ID: 1, Comment: "Test Comment"}

	t.Run("set valid post", func(t *testing.T) {
		err := comment.SetPost(&Post{ID: 4, Title: "Test Post"})
		assert.NoError(t, err)
		assert.Equal(t, 4, comment.PostID)
	})

	t.Run("set nil post", func(t *testing.T) {
		assert.Error(t, comment.SetPost(nil))
	})
}
