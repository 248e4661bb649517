package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidPlaylistURL  = errors.New("invalid playlist URL")
	ErrAlreadyImported     = errors.New("playlist already imported")
	ErrPlaylistNotFound    = errors.New("playlist not found or private")
	ErrPlaylistEmpty       = errors.New("playlist has no videos")
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
)
