package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectFromPublicURL(t *testing.T) {
	bucket, object, err := ObjectFromPublicURL("https://x.supabase.co/storage/v1/object/public/uploads/notes/u1/my%20note-1.png?t=1")
	require.NoError(t, err)
	assert.Equal(t, "uploads", bucket)
	assert.Equal(t, "notes/u1/my note-1.png", object)

	_, _, err = ObjectFromPublicURL("https://example.com/file.png")
	assert.Error(t, err)

	_, _, err = ObjectFromPublicURL("https://x.supabase.co/storage/v1/object/public/uploads")
	assert.Error(t, err)
}

func TestPublicURLRoundTrip(t *testing.T) {
	s := NewSupabaseStorage("https://x.supabase.co/", "key", "uploads")
	url := s.PublicURL("audio/u1/hello-1.mp3")
	assert.Equal(t, "https://x.supabase.co/storage/v1/object/public/uploads/audio/u1/hello-1.mp3", url)

	bucket, object, err := ObjectFromPublicURL(url)
	require.NoError(t, err)
	assert.Equal(t, "uploads", bucket)
	assert.Equal(t, "audio/u1/hello-1.mp3", object)
}

func TestObjectPath(t *testing.T) {
	assert.Equal(t, "notes/u1/test-note-42.pdf", ObjectPath("notes", "u1", "Test Note", "42", ".PDF"))
	assert.Equal(t, "audio/u1/file-7.mp3", ObjectPath("audio", "u1", "", "7", "mp3"))
}

func TestSourceTypeFromExt(t *testing.T) {
	st, err := SourceTypeFromExt(".PDF")
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(st))

	st, err = SourceTypeFromExt(".jpeg")
	require.NoError(t, err)
	assert.Equal(t, "image", string(st))

	_, err = SourceTypeFromExt(".exe")
	assert.Error(t, err)
}
