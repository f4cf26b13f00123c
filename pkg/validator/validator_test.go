package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestStructReportsFieldMessages(t *testing.T) {
	v := New()

	err := v.Struct(domain.RegisterInput{Username: "jo", Email: "not-an-email", Password: ""})
	require.Error(t, err)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.Equal(t, map[string]string{
		"username": "must be at least 3 characters",
		"email":    "must be a valid email address",
		"password": "is required",
	}, de.Fields)
}

func TestStructAcceptsValidInput(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(domain.RegisterInput{Username: "john", Email: "john@example.com", Password: "secret1"}))
	assert.NoError(t, v.Struct(domain.CreateBlogInput{
		Title:   "Hello",
		Content: "twenty characters ok!",
		Status:  domain.BlogStatusDraft,
	}))
}

func TestStructPartialUpdate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(domain.UpdateBlogInput{}))

	status := domain.BlogStatus("archived")
	err := v.Struct(domain.UpdateBlogInput{Title: strPtr("Hey"), Status: &status})

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "must be at least 5 characters", de.Fields["title"])
	assert.Equal(t, "must be one of: draft, published", de.Fields["status"])
	assert.NotContains(t, de.Fields, "content")
}

func TestCommentBounds(t *testing.T) {
	v := New()

	var de *domain.Error
	require.ErrorAs(t, v.Struct(domain.CommentInput{Content: ""}), &de)
	assert.Equal(t, "is required", de.Fields["content"])

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	require.ErrorAs(t, v.Struct(domain.CommentInput{Content: string(long)}), &de)
	assert.Equal(t, "must be at most 500 characters", de.Fields["content"])

	assert.NoError(t, v.Struct(domain.CommentInput{Content: "a"}))
}
