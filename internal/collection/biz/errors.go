package biz

import "errors"

var (
	// ErrCollectionNameRequired 收藏夹名称必填
	ErrCollectionNameRequired = errors.New("collection name is required")

	// ErrCollectionNameTooLong 收藏夹名称过长
	ErrCollectionNameTooLong = errors.New("collection name must be at most 255 characters")

	// ErrCollectionNotFound 收藏夹不存在或不属于当前用户
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrArtworkAlreadyInCollection 作品已在收藏夹中
	ErrArtworkAlreadyInCollection = errors.New("this artwork is already in the collection")

	// ErrInvalidArtwork 作品缺少 id 或来源
	ErrInvalidArtwork = errors.New("artwork id and source are required")
)
