package storage

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("avatars/7", &multipart.FileHeader{Filename: "Me.PNG"})

	assert.True(t, strings.HasPrefix(name, "avatars/7/"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotEqual(t, name, ObjectName("avatars/7", &multipart.FileHeader{Filename: "Me.PNG"}))
}
