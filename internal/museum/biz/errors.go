package biz

import (
	"errors"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
)

var (
	// ErrUnknownMuseum 博物馆参数无效或该源未启用
	ErrUnknownMuseum = errors.New("unknown or disabled museum")

	// ErrNoActiveMuseum 没有任何启用的博物馆源
	ErrNoActiveMuseum = errors.New("no museum source is enabled")

	// ErrSuperseded 同一客户端发起了更新的搜索，本次结果已作废
	ErrSuperseded = errors.New("search superseded by a newer request")

	// ErrMissingAPIKey 博物馆 API key 未配置（唯一会中断聚合搜索的适配器错误）
	ErrMissingAPIKey = types.ErrMissingAPIKey
)
