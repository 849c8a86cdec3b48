package models

// Models 收藏夹领域需要迁移的表
func Models() []interface{} {
	return []interface{}{
		&CollectionPO{},
		&CollectionArtworkPO{},
	}
}
