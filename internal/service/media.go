package service

import (
	"context"
	"io"

	"github.com/educonect/educonect/pkg/client"
)

// MediaService uploads files such as course thumbnails and avatars.
type MediaService struct {
	base
}

func NewMediaService(deps Deps) *MediaService {
	s := &MediaService{}
	s.init(deps, "media")
	return s
}

// Upload sends r under filename and returns the public URL.
func (s *MediaService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	done := s.begin()
	defer done()

	u, err := s.api.Upload(ctx, filename, r)
	if err != nil {
		return "", s.fail("Upload", err, client.ResourceMedia)
	}
	s.log.Debug().Str("file", filename).Msg("uploaded")
	return u, nil
}
